// Package workout defines running and cycling workouts, their derived metrics,
// and the ordered in-memory collection they live in.
package workout

import (
	"strconv"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Kind discriminates the workout variants.
type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

// ParseKind maps a form value to a Kind. Returns false for anything else.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindRunning, KindCycling:
		return Kind(s), true
	}
	return "", false
}

// Coords is a [latitude, longitude] pair.
type Coords [2]float64

func (c Coords) Lat() float64 { return c[0] }
func (c Coords) Lng() float64 { return c[1] }

// Running holds the running-only fields. Pace is minutes per kilometer.
type Running struct {
	Cadence float64
	Pace    float64
}

// Cycling holds the cycling-only fields. Speed is kilometers per hour.
type Cycling struct {
	ElevationGain float64
	Speed         float64
}

// Workout is a single recorded session. Exactly one of Running and Cycling is
// non-nil, matching Kind.
type Workout struct {
	ID          string
	Date        time.Time
	Coords      Coords
	Distance    float64 // km
	Duration    float64 // min
	Kind        Kind
	Description string

	Running *Running
	Cycling *Cycling
}

// NewRunning builds a running workout created at the given time. It never
// validates; see Store.Create.
func NewRunning(coords Coords, distance, duration, cadence float64, at time.Time) Workout {
	return Workout{
		Date:        at,
		Coords:      coords,
		Distance:    distance,
		Duration:    duration,
		Kind:        KindRunning,
		Description: Describe(KindRunning, at),
		Running:     &Running{Cadence: cadence, Pace: Pace(distance, duration)},
	}
}

// NewCycling builds a cycling workout created at the given time.
func NewCycling(coords Coords, distance, duration, elevationGain float64, at time.Time) Workout {
	return Workout{
		Date:        at,
		Coords:      coords,
		Distance:    distance,
		Duration:    duration,
		Kind:        KindCycling,
		Description: Describe(KindCycling, at),
		Cycling:     &Cycling{ElevationGain: elevationGain, Speed: Speed(distance, duration)},
	}
}

// build constructs the variant named by kind. extra is the cadence for
// running and the elevation gain for cycling.
func build(kind Kind, coords Coords, distance, duration, extra float64, at time.Time) Workout {
	if kind == KindCycling {
		return NewCycling(coords, distance, duration, extra, at)
	}
	return NewRunning(coords, distance, duration, extra, at)
}

// Pace returns minutes per kilometer.
func Pace(distance, duration float64) float64 {
	return duration / distance
}

// Speed returns kilometers per hour.
func Speed(distance, duration float64) float64 {
	return distance / (duration / 60)
}

var titleCase = cases.Title(language.English)

// Describe returns the display label, e.g. "Running on April 14".
func Describe(kind Kind, date time.Time) string {
	return titleCase.String(string(kind)) + " on " + date.Month().String() + " " + strconv.Itoa(date.Day())
}

// Icon returns the emoji shown next to the workout on the map and in the list.
func (w Workout) Icon() string {
	if w.Kind == KindCycling {
		return "🚴‍♀️"
	}
	return "🏃‍♂️"
}

// Label is the marker popup text.
func (w Workout) Label() string {
	return w.Icon() + " " + w.Description
}

// Extra returns the variant-specific input metric: cadence or elevation gain.
func (w Workout) Extra() float64 {
	switch {
	case w.Running != nil:
		return w.Running.Cadence
	case w.Cycling != nil:
		return w.Cycling.ElevationGain
	}
	return 0
}

// clone returns a copy that shares no pointers with w.
func (w Workout) clone() Workout {
	if w.Running != nil {
		r := *w.Running
		w.Running = &r
	}
	if w.Cycling != nil {
		c := *w.Cycling
		w.Cycling = &c
	}
	return w
}

// idFromMillis keeps the last 10 digits of a Unix millisecond timestamp.
func idFromMillis(ms int64) string {
	s := strconv.FormatInt(ms, 10)
	if len(s) > 10 {
		s = s[len(s)-10:]
	}
	return s
}
