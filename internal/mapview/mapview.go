// Package mapview keeps the server-side state of the interactive map: its
// viewport, the workout markers on it and the click handler.
package mapview

import (
	"errors"
	"fmt"
	"sync"

	"github.com/erickhangati/mapty/internal/workout"
)

var (
	// ErrNoClickHandler is returned by Click before the map has been initialized.
	ErrNoClickHandler = errors.New("map not initialized")
	// ErrOutsideMap is returned for clicks at impossible coordinates.
	ErrOutsideMap = errors.New("click outside the map")
)

// Marker is a pinned workout with its popup text.
type Marker struct {
	ID     string         `json:"id"`
	Coords workout.Coords `json:"coords"`
	Type   workout.Kind   `json:"type"`
	Popup  string         `json:"popup"`
}

// Bounds is the south-west and north-east corner of a viewport.
type Bounds struct {
	SouthWest workout.Coords `json:"south_west"`
	NorthEast workout.Coords `json:"north_east"`
}

// State is a snapshot of the map as a client should draw it.
type State struct {
	Ready   bool            `json:"ready"`
	Center  *workout.Coords `json:"center,omitempty"`
	Zoom    int             `json:"zoom"`
	Bounds  *Bounds         `json:"bounds,omitempty"`
	Markers []Marker        `json:"markers"`
}

// Map is safe for concurrent use.
type Map struct {
	mu      sync.Mutex
	ready   bool
	center  workout.Coords
	zoom    int
	bounds  *Bounds
	markers []Marker
	onClick func(workout.Coords) error
}

func New() *Map {
	return &Map{}
}

// SetView centers the map. The first call marks the map ready.
func (m *Map) SetView(center workout.Coords, zoom int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = true
	m.center = center
	m.zoom = zoom
	m.bounds = nil
}

// RenderMarker pins w with its icon and description as popup text.
func (m *Map) RenderMarker(w workout.Workout) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = append(m.markers, Marker{ID: w.ID, Coords: w.Coords, Type: w.Kind, Popup: w.Label()})
}

// ClearMarkers removes every marker.
func (m *Map) ClearMarkers() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markers = nil
}

// FitToAll sets the viewport to the smallest box containing coords and
// centers on it. It does nothing for an empty list.
func (m *Map) FitToAll(coords []workout.Coords) {
	if len(coords) == 0 {
		return
	}
	b := Bounds{SouthWest: coords[0], NorthEast: coords[0]}
	for _, c := range coords[1:] {
		b.SouthWest[0] = min(b.SouthWest[0], c[0])
		b.SouthWest[1] = min(b.SouthWest[1], c[1])
		b.NorthEast[0] = max(b.NorthEast[0], c[0])
		b.NorthEast[1] = max(b.NorthEast[1], c[1])
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.bounds = &b
	m.center = workout.Coords{
		(b.SouthWest[0] + b.NorthEast[0]) / 2,
		(b.SouthWest[1] + b.NorthEast[1]) / 2,
	}
}

// OnMapClick registers the handler invoked by Click, replacing any previous one.
func (m *Map) OnMapClick(handler func(workout.Coords) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onClick = handler
}

// Click delivers a click at coords to the registered handler.
func (m *Map) Click(coords workout.Coords) error {
	if coords.Lat() < -90 || coords.Lat() > 90 || coords.Lng() < -180 || coords.Lng() > 180 {
		return fmt.Errorf("%w: %v", ErrOutsideMap, coords)
	}
	m.mu.Lock()
	handler := m.onClick
	m.mu.Unlock()

	// The handler re-enters the map to render, so it runs unlocked.
	if handler == nil {
		return ErrNoClickHandler
	}
	return handler(coords)
}

// State returns a copy of the current map state.
func (m *Map) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := State{
		Ready:   m.ready,
		Zoom:    m.zoom,
		Markers: append([]Marker{}, m.markers...),
	}
	if m.ready {
		c := m.center
		s.Center = &c
	}
	if m.bounds != nil {
		b := *m.bounds
		s.Bounds = &b
	}
	return s
}
