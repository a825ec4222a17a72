package workout

import (
	"encoding/json"
	"fmt"
	"time"
)

// Record is the flat, data-only form of a Workout as it is persisted.
// Derived fields are stored as computed and are never recomputed on load.
type Record struct {
	ID            string    `json:"id"`
	Date          time.Time `json:"date"`
	Coords        Coords    `json:"coords"`
	Distance      float64   `json:"distance"`
	Duration      float64   `json:"duration"`
	Type          Kind      `json:"type"`
	Description   string    `json:"description"`
	Cadence       *float64  `json:"cadence,omitempty"`
	Pace          *float64  `json:"pace,omitempty"`
	ElevationGain *float64  `json:"elevationGain,omitempty"`
	Speed         *float64  `json:"speed,omitempty"`
}

// Record flattens w.
func (w Workout) Record() Record {
	r := Record{
		ID:          w.ID,
		Date:        w.Date,
		Coords:      w.Coords,
		Distance:    w.Distance,
		Duration:    w.Duration,
		Type:        w.Kind,
		Description: w.Description,
	}
	if w.Running != nil {
		cadence, pace := w.Running.Cadence, w.Running.Pace
		r.Cadence, r.Pace = &cadence, &pace
	}
	if w.Cycling != nil {
		elevation, speed := w.Cycling.ElevationGain, w.Cycling.Speed
		r.ElevationGain, r.Speed = &elevation, &speed
	}
	return r
}

// MarshalJSON encodes w as its flat Record.
func (w Workout) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Record())
}

// FromRecord rebuilds a Workout from persisted data, copying derived fields
// verbatim. Missing variant fields read as zero.
func FromRecord(r Record) (Workout, error) {
	w := Workout{
		ID:          r.ID,
		Date:        r.Date,
		Coords:      r.Coords,
		Distance:    r.Distance,
		Duration:    r.Duration,
		Kind:        r.Type,
		Description: r.Description,
	}
	switch r.Type {
	case KindRunning:
		w.Running = &Running{Cadence: deref(r.Cadence), Pace: deref(r.Pace)}
	case KindCycling:
		w.Cycling = &Cycling{ElevationGain: deref(r.ElevationGain), Speed: deref(r.Speed)}
	default:
		return Workout{}, fmt.Errorf("record %s: unknown workout type %q", r.ID, r.Type)
	}
	return w, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
