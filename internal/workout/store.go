package workout

import (
	"errors"
	"math"
	"time"
)

var (
	// ErrValidation is returned for any missing, non-finite or non-positive
	// input. It deliberately carries no field detail.
	ErrValidation = errors.New("invalid workout input")
	// ErrNotFound is returned when no workout has the requested id.
	ErrNotFound = errors.New("workout not found")
)

// Store owns the ordered workout collection. It is not safe for concurrent
// use; callers serialize access.
type Store struct {
	workouts []Workout
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now as the source of creation dates and ids.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate applies the admission rule: every input must be finite, distance
// and duration must be positive, and cadence must be positive for running.
// Cycling elevation gain may be zero or negative. The derived pace or speed
// must also be finite, or the workout could not be saved as JSON.
func Validate(kind Kind, distance, duration, extra float64) error {
	if _, ok := ParseKind(string(kind)); !ok {
		return ErrValidation
	}
	if !allFinite(distance, duration, extra) || !allPositive(distance, duration) {
		return ErrValidation
	}
	switch kind {
	case KindRunning:
		if !allPositive(extra) || !allFinite(Pace(distance, duration)) {
			return ErrValidation
		}
	case KindCycling:
		if !allFinite(Speed(distance, duration)) {
			return ErrValidation
		}
	}
	return nil
}

// Create validates the input, assigns a fresh id and appends the workout.
func (s *Store) Create(kind Kind, coords Coords, distance, duration, extra float64) (Workout, error) {
	if err := Validate(kind, distance, duration, extra); err != nil {
		return Workout{}, err
	}
	now := s.now()
	w := build(kind, coords, distance, duration, extra, now)
	w.ID = s.nextID(now)
	s.workouts = append(s.workouts, w)
	return w.clone(), nil
}

// Update replaces the type, distance, duration and variant metric of the
// workout with the given id, recomputing derived fields. ID, date and coords
// are kept.
func (s *Store) Update(id string, kind Kind, distance, duration, extra float64) (Workout, error) {
	i := s.indexOf(id)
	if i < 0 {
		return Workout{}, ErrNotFound
	}
	if err := Validate(kind, distance, duration, extra); err != nil {
		return Workout{}, err
	}
	old := s.workouts[i]
	w := build(kind, old.Coords, distance, duration, extra, old.Date)
	w.ID = old.ID
	s.workouts[i] = w
	return w.clone(), nil
}

// Delete removes the first workout with the given id. It reports whether
// anything was removed.
func (s *Store) Delete(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.workouts = append(s.workouts[:i], s.workouts[i+1:]...)
	return true
}

// DeleteAll empties the collection.
func (s *Store) DeleteAll() {
	s.workouts = nil
}

// List returns a copy of the collection in insertion order.
func (s *Store) List() []Workout {
	out := make([]Workout, len(s.workouts))
	for i, w := range s.workouts {
		out[i] = w.clone()
	}
	return out
}

// Len returns the number of workouts.
func (s *Store) Len() int {
	return len(s.workouts)
}

// FindByID returns the workout with the given id.
func (s *Store) FindByID(id string) (Workout, error) {
	i := s.indexOf(id)
	if i < 0 {
		return Workout{}, ErrNotFound
	}
	return s.workouts[i].clone(), nil
}

// Hydrate replaces the collection with previously saved records. Derived
// fields are taken as stored. Records of an unknown type and repeated ids
// are skipped; the number of skipped records is returned.
func (s *Store) Hydrate(records []Record) int {
	s.workouts = make([]Workout, 0, len(records))
	seen := make(map[string]bool, len(records))
	skipped := 0
	for _, r := range records {
		w, err := FromRecord(r)
		if err != nil || seen[w.ID] {
			skipped++
			continue
		}
		seen[w.ID] = true
		s.workouts = append(s.workouts, w)
	}
	return skipped
}

// nextID derives an id from t and walks forward one millisecond at a time
// until it is unused.
func (s *Store) nextID(t time.Time) string {
	ms := t.UnixMilli()
	for {
		id := idFromMillis(ms)
		if s.indexOf(id) < 0 {
			return id
		}
		ms++
	}
}

func (s *Store) indexOf(id string) int {
	for i, w := range s.workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func allFinite(nums ...float64) bool {
	for _, n := range nums {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return false
		}
	}
	return true
}

func allPositive(nums ...float64) bool {
	for _, n := range nums {
		if n <= 0 {
			return false
		}
	}
	return true
}
