package workout

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var april14 = time.Date(2026, time.April, 14, 9, 30, 0, 0, time.UTC)

// TestNewRunningDerivesPace verifies pace = duration / distance and the label.
func TestNewRunningDerivesPace(t *testing.T) {
	w := NewRunning(Coords{51.5, -0.12}, 5, 25, 180, april14)

	assert.Equal(t, KindRunning, w.Kind)
	require.NotNil(t, w.Running)
	assert.Nil(t, w.Cycling)
	assert.Equal(t, 5.0, w.Running.Pace)
	assert.Equal(t, "Running on April 14", w.Description)
}

// TestNewCyclingDerivesSpeed verifies speed = distance / (duration / 60).
func TestNewCyclingDerivesSpeed(t *testing.T) {
	w := NewCycling(Coords{51.5, -0.12}, 20, 60, 150, april14)

	require.NotNil(t, w.Cycling)
	assert.Nil(t, w.Running)
	assert.Equal(t, 20.0, w.Cycling.Speed)
	assert.Equal(t, "Cycling on April 14", w.Description)
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		kind Kind
		date time.Time
		want string
	}{
		{KindRunning, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), "Running on January 1"},
		{KindCycling, time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC), "Cycling on December 31"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Describe(tc.kind, tc.date))
	}
}

func TestLabel(t *testing.T) {
	run := NewRunning(Coords{}, 5, 25, 180, april14)
	assert.Equal(t, "🏃‍♂️ Running on April 14", run.Label())
	ride := NewCycling(Coords{}, 20, 60, 0, april14)
	assert.Equal(t, "🚴‍♀️ Cycling on April 14", ride.Label())
}

// TestIDFromMillis verifies ids keep the last 10 digits of the timestamp.
func TestIDFromMillis(t *testing.T) {
	assert.Equal(t, "6159000123", idFromMillis(1776159000123))
	assert.Equal(t, "42", idFromMillis(42))
}

// TestRecordJSONShape verifies the persisted form is flat and carries only the
// fields of its own variant.
func TestRecordJSONShape(t *testing.T) {
	w := NewRunning(Coords{51.5, -0.12}, 5, 25, 180, april14)
	w.ID = "6159000123"

	data, err := json.Marshal(w)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	for _, key := range []string{"id", "date", "coords", "distance", "duration", "type", "description", "cadence", "pace"} {
		assert.Contains(t, flat, key)
	}
	for _, key := range []string{"elevationGain", "speed"} {
		assert.NotContains(t, flat, key)
	}
	assert.Equal(t, "running", flat["type"])
}

// TestFromRecordKeepsStoredDerivedFields verifies loading never recomputes
// pace, speed or description.
func TestFromRecordKeepsStoredDerivedFields(t *testing.T) {
	pace, cadence := 99.0, 170.0
	r := Record{
		ID: "1", Date: april14, Coords: Coords{1, 2}, Distance: 5, Duration: 25,
		Type: KindRunning, Description: "stale label", Cadence: &cadence, Pace: &pace,
	}
	w, err := FromRecord(r)
	require.NoError(t, err)
	assert.Equal(t, 99.0, w.Running.Pace)
	assert.Equal(t, "stale label", w.Description)
}

func TestFromRecordUnknownType(t *testing.T) {
	_, err := FromRecord(Record{ID: "1", Type: "swimming"})
	assert.Error(t, err)
}
