// Package mcp exposes the workout log to MCP clients as read-only tools and
// resources.
package mcp

import (
	"log/slog"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/erickhangati/mapty/internal/workout"
)

// Source is the workout collection the tools read from.
type Source interface {
	Workouts() []workout.Workout
	Workout(id string) (workout.Workout, error)
}

// New creates an MCP server with all tools and resources registered.
func New(src Source, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Mapty", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Mapty workout log. List running and cycling workouts with their location, distance, duration, pace or speed, and summarize totals per type."),
	)

	h := &handlers{src: src, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolListWorkouts, Handler: h.listWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolWorkoutSummary, Handler: h.workoutSummary},
	)

	s.AddResources(
		server.ServerResource{Resource: resWorkouts, Handler: h.allWorkouts},
	)

	return s
}

// Handler serves s over streamable HTTP.
func Handler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	src Source
	log *slog.Logger
}

var resWorkouts = mcp.NewResource(
	"mapty://workouts",
	"Workouts",
	mcp.WithResourceDescription("Every recorded workout in the order it was logged"),
	mcp.WithMIMEType("application/json"),
)
