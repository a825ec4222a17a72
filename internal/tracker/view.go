package tracker

import (
	"fmt"

	"github.com/erickhangati/mapty/internal/workout"
)

// State is the form state of a Session.
type State int

const (
	Idle State = iota
	FormOpen
	EditOpen
)

func (s State) String() string {
	switch s {
	case FormOpen:
		return "form_open"
	case EditOpen:
		return "edit_open"
	default:
		return "idle"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Entry is one workout as shown in the list.
type Entry struct {
	workout.Record
	Icon     string `json:"icon"`
	Metric   string `json:"metric"`
	Location string `json:"location,omitempty"`
}

// View is a presentation snapshot of the session.
type View struct {
	State         State           `json:"state"`
	FormCoords    *workout.Coords `json:"form_coords,omitempty"`
	Editing       *workout.Record `json:"editing,omitempty"`
	ShowError     bool            `json:"show_error"`
	MapReady      bool            `json:"map_ready"`
	ShowDeleteAll bool            `json:"show_delete_all"`
	Entries       []Entry         `json:"entries"`
}

// View returns the current presentation snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.store.List()
	v := View{
		State:         s.state,
		ShowError:     s.showError,
		MapReady:      s.mapReady,
		ShowDeleteAll: len(list) >= 2,
		Entries:       make([]Entry, 0, len(list)),
	}
	switch s.state {
	case FormOpen:
		c := s.formCoords
		v.FormCoords = &c
	case EditOpen:
		if w, err := s.store.FindByID(s.editID); err == nil {
			r := w.Record()
			v.Editing = &r
		}
	}
	for _, w := range list {
		e := Entry{Record: w.Record(), Icon: w.Icon(), Metric: Metric(w)}
		if s.geo != nil {
			e.Location = s.places.text(w.Coords)
		}
		v.Entries = append(v.Entries, e)
	}
	return v
}

// Metric formats the derived metric shown for w, e.g. "5.0 min/km".
func Metric(w workout.Workout) string {
	switch {
	case w.Running != nil:
		return fmt.Sprintf("%.1f min/km", w.Running.Pace)
	case w.Cycling != nil:
		return fmt.Sprintf("%.1f km/h", w.Cycling.Speed)
	}
	return ""
}
