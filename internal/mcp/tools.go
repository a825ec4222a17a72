package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/erickhangati/mapty/internal/workout"
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List recorded workouts in logging order. Each workout has coordinates, distance (km), duration (min), and either cadence and pace (running) or elevation gain and speed (cycling)."),
	mcp.WithString("type", mcp.Description("Only return workouts of this type."), mcp.Enum("running", "cycling")),
	mcp.WithString("since", mcp.Description("Only return workouts logged on or after this date (ISO 8601 or YYYY-MM-DD).")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get a single workout by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Workout id")),
)

var toolWorkoutSummary = mcp.NewTool("workout_summary",
	mcp.WithDescription("Totals per workout type: count, distance, duration, and average pace (running) or speed (cycling)."),
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var kind workout.Kind
	if t := req.GetString("type", ""); t != "" {
		k, ok := workout.ParseKind(t)
		if !ok {
			return mcp.NewToolResultError("type must be running or cycling"), nil
		}
		kind = k
	}
	var since time.Time
	if s := req.GetString("since", ""); s != "" {
		t, err := parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		since = t
	}

	records := []workout.Record{}
	for _, w := range h.src.Workouts() {
		if kind != "" && w.Kind != kind {
			continue
		}
		if !since.IsZero() && w.Date.Before(since) {
			continue
		}
		records = append(records, w.Record())
	}

	result, err := mcp.NewToolResultJSON(records)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	w, err := h.src.Workout(id)
	if errors.Is(err, workout.ErrNotFound) {
		return mcp.NewToolResultError("no workout with id " + id), nil
	}
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("lookup failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(w.Record())
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// TypeSummary aggregates the workouts of one type.
type TypeSummary struct {
	Count         int     `json:"count"`
	DistanceKm    float64 `json:"distance_km"`
	DurationMin   float64 `json:"duration_min"`
	AvgPace       float64 `json:"avg_pace_min_per_km,omitempty"`
	AvgSpeed      float64 `json:"avg_speed_km_per_h,omitempty"`
	ElevationGain float64 `json:"elevation_gain_m,omitempty"`
}

// Summarize totals workouts per type. Averages are over total distance and
// duration, not over per-workout metrics.
func Summarize(list []workout.Workout) map[workout.Kind]TypeSummary {
	out := map[workout.Kind]TypeSummary{}
	for _, w := range list {
		s := out[w.Kind]
		s.Count++
		s.DistanceKm += w.Distance
		s.DurationMin += w.Duration
		if w.Cycling != nil {
			s.ElevationGain += w.Cycling.ElevationGain
		}
		out[w.Kind] = s
	}
	for kind, s := range out {
		if s.DistanceKm > 0 && s.DurationMin > 0 {
			switch kind {
			case workout.KindRunning:
				s.AvgPace = workout.Pace(s.DistanceKm, s.DurationMin)
			case workout.KindCycling:
				s.AvgSpeed = workout.Speed(s.DistanceKm, s.DurationMin)
			}
		}
		out[kind] = s
	}
	return out
}

func (h *handlers) workoutSummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(Summarize(h.src.Workouts()))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
