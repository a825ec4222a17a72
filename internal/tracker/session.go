// Package tracker drives the workout form, list and map: it turns user
// events into store mutations, persists every change and re-renders the map
// and list afterwards.
package tracker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/erickhangati/mapty/internal/geocode"
	"github.com/erickhangati/mapty/internal/workout"
)

var (
	// ErrNoOpenForm is returned when a submission arrives without the
	// matching form being open.
	ErrNoOpenForm = errors.New("no open form")
	// ErrMapUnavailable is returned for map interactions while the map is
	// not initialized.
	ErrMapUnavailable = errors.New("map unavailable")
)

// Map is the interactive map surface.
type Map interface {
	SetView(center workout.Coords, zoom int)
	RenderMarker(w workout.Workout)
	ClearMarkers()
	FitToAll(coords []workout.Coords)
	OnMapClick(handler func(workout.Coords) error)
}

// Geocoder resolves coordinates to a place.
type Geocoder interface {
	Reverse(ctx context.Context, coords workout.Coords) (geocode.Place, error)
}

// Locator reports the user's current position.
type Locator interface {
	Locate(ctx context.Context) (workout.Coords, error)
}

// Persister saves and restores the whole collection.
type Persister interface {
	Save(ctx context.Context, workouts []workout.Workout) error
	Load(ctx context.Context) []workout.Record
	Clear(ctx context.Context) error
}

// Recorder receives activity counts.
type Recorder interface {
	WorkoutCreated(kind string)
	WorkoutUpdated(kind string)
	WorkoutsDeleted(n int)
	ValidationFailed()
	GeocodeFailed()
	SnapshotWritten(err error)
	WorkoutCount(n int)
}

type nopRecorder struct{}

func (nopRecorder) WorkoutCreated(string) {}
func (nopRecorder) WorkoutUpdated(string) {}
func (nopRecorder) WorkoutsDeleted(int)   {}
func (nopRecorder) ValidationFailed()     {}
func (nopRecorder) GeocodeFailed()        {}
func (nopRecorder) SnapshotWritten(error) {}
func (nopRecorder) WorkoutCount(int)      {}

// DefaultZoom is the map zoom used when centering on a position.
const DefaultZoom = 13

// Session owns the store and all interaction state. Its methods are safe for
// concurrent use and run one at a time.
type Session struct {
	mu      sync.Mutex
	store   *workout.Store
	persist Persister
	log     *slog.Logger

	m             Map
	geo           Geocoder
	loc           Locator
	rec           Recorder
	zoom          int
	lookupTimeout time.Duration

	state      State
	formCoords workout.Coords
	editID     string
	showError  bool
	mapReady   bool

	places *placeCache
	wg     sync.WaitGroup
}

// Option configures a Session.
type Option func(*Session)

func WithMap(m Map) Option           { return func(s *Session) { s.m = m } }
func WithGeocoder(g Geocoder) Option { return func(s *Session) { s.geo = g } }
func WithLocator(l Locator) Option   { return func(s *Session) { s.loc = l } }
func WithRecorder(r Recorder) Option { return func(s *Session) { s.rec = r } }
func WithZoom(zoom int) Option       { return func(s *Session) { s.zoom = zoom } }
func WithLookupTimeout(d time.Duration) Option {
	return func(s *Session) { s.lookupTimeout = d }
}

// New creates a Session over store. Call Start before use.
func New(store *workout.Store, persist Persister, log *slog.Logger, opts ...Option) *Session {
	s := &Session{
		store:         store,
		persist:       persist,
		log:           log,
		rec:           nopRecorder{},
		zoom:          DefaultZoom,
		lookupTimeout: 10 * time.Second,
		places:        newPlaceCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start restores the saved collection and initializes the map at the
// user's position. When no position is available the map stays
// uninitialized and the list is still rendered.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.persist.Load(ctx)
	if skipped := s.store.Hydrate(records); skipped > 0 {
		s.log.Warn("skipped unreadable stored workouts", "skipped", skipped)
	}
	s.rec.WorkoutCount(s.store.Len())
	s.log.Info("workouts restored", "count", s.store.Len())

	if s.m == nil || s.loc == nil {
		s.log.Warn("map disabled: no map or locator configured")
	} else if pos, err := s.loc.Locate(ctx); err != nil {
		s.log.Warn("could not get your position, map disabled", "error", err)
	} else {
		s.m.SetView(pos, s.zoom)
		s.m.OnMapClick(s.MapClick)
		s.mapReady = true
	}
	s.render(ctx)
}

// Wait blocks until every background place lookup has finished.
func (s *Session) Wait() {
	s.wg.Wait()
}

// MapClick opens the create form at coords, closing any edit form.
func (s *Session) MapClick(coords workout.Coords) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mapReady {
		return ErrMapUnavailable
	}
	s.state = FormOpen
	s.formCoords = coords
	s.editID = ""
	s.showError = false
	return nil
}

// SubmitForm creates a workout at the clicked coordinates. Invalid input
// leaves the form open and raises the error indicator.
func (s *Session) SubmitForm(ctx context.Context, in FormInput) (workout.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != FormOpen {
		return workout.Workout{}, ErrNoOpenForm
	}

	kind, distance, duration, extra := in.values()
	w, err := s.store.Create(kind, s.formCoords, distance, duration, extra)
	if err != nil {
		s.showError = true
		s.rec.ValidationFailed()
		return workout.Workout{}, err
	}

	s.closeForms()
	s.rec.WorkoutCreated(string(w.Kind))
	s.log.Info("workout created", "id", w.ID, "type", w.Kind)
	return w, s.commit(ctx)
}

// OpenEdit opens the edit form for id, closing the create form.
func (s *Session) OpenEdit(id string) (workout.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.store.FindByID(id)
	if err != nil {
		return workout.Workout{}, err
	}
	s.state = EditOpen
	s.editID = id
	s.showError = false
	return w, nil
}

// SubmitEdit applies the edit form to the workout it was opened for.
func (s *Session) SubmitEdit(ctx context.Context, id string, in FormInput) (workout.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != EditOpen || s.editID != id {
		return workout.Workout{}, ErrNoOpenForm
	}

	kind, distance, duration, extra := in.values()
	w, err := s.store.Update(id, kind, distance, duration, extra)
	if errors.Is(err, workout.ErrNotFound) {
		s.closeForms()
		return workout.Workout{}, err
	}
	if err != nil {
		s.showError = true
		s.rec.ValidationFailed()
		return workout.Workout{}, err
	}

	s.closeForms()
	s.rec.WorkoutUpdated(string(w.Kind))
	s.log.Info("workout updated", "id", w.ID, "type", w.Kind)
	return w, s.commit(ctx)
}

// Delete removes one workout.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.store.Delete(id) {
		return workout.ErrNotFound
	}
	s.closeForms()
	s.rec.WorkoutsDeleted(1)
	s.log.Info("workout deleted", "id", id)
	return s.commit(ctx)
}

// DeleteAll removes every workout.
func (s *Session) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.store.Len()
	s.store.DeleteAll()
	s.closeForms()
	s.rec.WorkoutsDeleted(n)
	s.log.Info("all workouts deleted", "count", n)
	return s.commit(ctx)
}

// Reset removes the saved slot and empties the collection.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist.Clear(ctx); err != nil {
		return err
	}
	s.store.DeleteAll()
	s.closeForms()
	s.showError = false
	s.rec.WorkoutCount(0)
	s.render(ctx)
	s.log.Info("workouts reset")
	return nil
}

// Focus centers the map on the workout with id.
func (s *Session) Focus(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.store.FindByID(id)
	if err != nil {
		return err
	}
	if !s.mapReady {
		return ErrMapUnavailable
	}
	s.m.SetView(w.Coords, s.zoom)
	return nil
}

// ShowAll fits the map to every workout.
func (s *Session) ShowAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.mapReady {
		return ErrMapUnavailable
	}
	list := s.store.List()
	coords := make([]workout.Coords, len(list))
	for i, w := range list {
		coords[i] = w.Coords
	}
	s.m.FitToAll(coords)
	return nil
}

// CloseForms closes whichever form is open.
func (s *Session) CloseForms() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeForms()
}

// DismissError clears the error indicator.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showError = false
}

// Workouts returns the collection in rendering order.
func (s *Session) Workouts() []workout.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.List()
}

// Workout returns one workout by id.
func (s *Session) Workout(id string) (workout.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.FindByID(id)
}

func (s *Session) closeForms() {
	s.state = Idle
	s.formCoords = workout.Coords{}
	s.editID = ""
}

// commit persists the collection and re-renders. The in-memory change stands
// even when the write fails.
func (s *Session) commit(ctx context.Context) error {
	err := s.persist.Save(ctx, s.store.List())
	s.rec.SnapshotWritten(err)
	s.rec.WorkoutCount(s.store.Len())
	if err != nil {
		s.log.Error("saving workouts", "error", err)
	}
	s.render(ctx)
	return err
}

// render redraws every marker in collection order and schedules place
// lookups for entries not yet resolved.
func (s *Session) render(ctx context.Context) {
	list := s.store.List()
	if s.mapReady {
		s.m.ClearMarkers()
		for _, w := range list {
			s.m.RenderMarker(w)
		}
	}
	if s.geo == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	for _, w := range list {
		c := w.Coords
		if !s.places.claim(c) {
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.resolve(bg, c)
		}()
	}
}

func (s *Session) resolve(ctx context.Context, c workout.Coords) {
	ctx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	p, err := s.geo.Reverse(ctx, c)
	if err != nil {
		s.log.Warn("reverse geocode failed", "lat", c.Lat(), "lng", c.Lng(), "error", err)
		s.rec.GeocodeFailed()
		s.places.fail(c)
		return
	}
	s.places.resolve(c, p.String())
}
