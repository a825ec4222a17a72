package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erickhangati/mapty/internal/mapview"
	"github.com/erickhangati/mapty/internal/tracker"
	"github.com/erickhangati/mapty/internal/workout"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.m.State())
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	list := s.session.Workouts()

	if t := r.URL.Query().Get("type"); t != "" {
		kind, ok := workout.ParseKind(t)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "type must be running or cycling"})
			return
		}
		filtered := make([]workout.Workout, 0, len(list))
		for _, wo := range list {
			if wo.Kind == kind {
				filtered = append(filtered, wo)
			}
		}
		list = filtered
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	wo, err := s.session.Workout(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wo)
}

type clickRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (s *Server) handleMapClick(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "lat and lng are required"})
		return
	}

	if err := s.m.Click(workout.Coords{*req.Lat, *req.Lng}); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleFit(w http.ResponseWriter, r *http.Request) {
	if err := s.session.ShowAll(); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.m.State())
}

func (s *Server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	var in tracker.FormInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if _, err := s.session.SubmitForm(r.Context(), in); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.session.View())
}

func (s *Server) handleCloseForms(w http.ResponseWriter, r *http.Request) {
	s.session.CloseForms()
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleOpenEdit(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session.OpenEdit(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleSubmitEdit(w http.ResponseWriter, r *http.Request) {
	var in tracker.FormInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	if _, err := s.session.SubmitEdit(r.Context(), chi.URLParam(r, "id"), in); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleFocus(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Focus(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.m.State())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleDeleteAll(w http.ResponseWriter, r *http.Request) {
	if err := s.session.DeleteAll(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleDismissError(w http.ResponseWriter, r *http.Request) {
	s.session.DismissError()
	writeJSON(w, http.StatusOK, s.session.View())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Reset(r.Context()); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.session.View())
}

// writeError maps session errors to status codes. Validation failures carry
// no field detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workout.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "invalid input"})
	case errors.Is(err, workout.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "workout not found"})
	case errors.Is(err, tracker.ErrNoOpenForm):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no open form"})
	case errors.Is(err, tracker.ErrMapUnavailable), errors.Is(err, mapview.ErrNoClickHandler):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "map unavailable"})
	case errors.Is(err, mapview.ErrOutsideMap):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
