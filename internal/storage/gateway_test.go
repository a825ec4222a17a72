package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erickhangati/mapty/internal/workout"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// brokenSlot fails every operation.
type brokenSlot struct{}

var errBroken = errors.New("slot unavailable")

func (brokenSlot) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errBroken }
func (brokenSlot) Put(context.Context, string, []byte) error         { return errBroken }
func (brokenSlot) Delete(context.Context, string) error              { return errBroken }
func (brokenSlot) Close() error                                      { return nil }

func sampleWorkouts(t *testing.T) []workout.Workout {
	t.Helper()
	at := time.Date(2026, time.April, 14, 9, 0, 0, 0, time.UTC)
	s := workout.NewStore(workout.WithClock(func() time.Time { return at }))
	_, err := s.Create(workout.KindRunning, workout.Coords{51.5, -0.12}, 5, 25, 180)
	require.NoError(t, err)
	_, err = s.Create(workout.KindCycling, workout.Coords{48.85, 2.35}, 20, 60, 150)
	require.NoError(t, err)
	return s.List()
}

func TestGatewayRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(NewMemorySlot(), "", discardLogger())
	assert.Equal(t, DefaultKey, g.Key())

	saved := sampleWorkouts(t)
	require.NoError(t, g.Save(ctx, saved))

	records := g.Load(ctx)
	require.Len(t, records, 2)

	restored := workout.NewStore()
	assert.Zero(t, restored.Hydrate(records))
	assert.Equal(t, saved, restored.List())
}

// TestGatewaySaveEmptyWritesArray verifies an empty collection is stored as
// an empty JSON array rather than null.
func TestGatewaySaveEmptyWritesArray(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	g := NewGateway(slot, "workouts", discardLogger())

	require.NoError(t, g.Save(ctx, nil))

	data, ok, err := slot.Get(ctx, "workouts")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", string(data))
}

func TestGatewayLoadAbsentIsEmpty(t *testing.T) {
	g := NewGateway(NewMemorySlot(), "workouts", discardLogger())
	assert.Empty(t, g.Load(context.Background()))
}

func TestGatewayLoadMalformedIsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", `{"id":"1"}`, `"workouts"`, ""} {
		slot := NewMemorySlot()
		require.NoError(t, slot.Put(ctx, "workouts", []byte(raw)))
		g := NewGateway(slot, "workouts", discardLogger())
		assert.Empty(t, g.Load(ctx), "raw %q", raw)
	}
}

func TestGatewayBrokenSlot(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(brokenSlot{}, "workouts", discardLogger())

	assert.Empty(t, g.Load(ctx))
	assert.ErrorIs(t, g.Save(ctx, sampleWorkouts(t)), errBroken)
	assert.ErrorIs(t, g.Clear(ctx), errBroken)
}

func TestGatewayClear(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	g := NewGateway(slot, "workouts", discardLogger())
	require.NoError(t, g.Save(ctx, sampleWorkouts(t)))

	require.NoError(t, g.Clear(ctx))

	_, ok, err := slot.Get(ctx, "workouts")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, g.Load(ctx))
}

// TestGatewayKeysAreIndependent verifies two gateways on one slot never see
// each other's data.
func TestGatewayKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	a := NewGateway(slot, "a", discardLogger())
	b := NewGateway(slot, "b", discardLogger())

	require.NoError(t, a.Save(ctx, sampleWorkouts(t)))
	assert.Len(t, a.Load(ctx), 2)
	assert.Empty(t, b.Load(ctx))
}
