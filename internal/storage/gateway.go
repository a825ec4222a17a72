package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/erickhangati/mapty/internal/workout"
)

// DefaultKey is the slot key the workout collection is stored under.
const DefaultKey = "workouts"

// Gateway writes and reads the whole workout collection as one JSON array in
// a single slot key.
type Gateway struct {
	slot Slot
	key  string
	log  *slog.Logger
}

// NewGateway creates a Gateway over slot. An empty key selects DefaultKey.
func NewGateway(slot Slot, key string, log *slog.Logger) *Gateway {
	if key == "" {
		key = DefaultKey
	}
	return &Gateway{slot: slot, key: key, log: log}
}

// Key returns the slot key in use.
func (g *Gateway) Key() string { return g.key }

// Save overwrites the slot with the full collection. An empty collection is
// written as [].
func (g *Gateway) Save(ctx context.Context, workouts []workout.Workout) error {
	records := make([]workout.Record, len(workouts))
	for i, w := range workouts {
		records[i] = w.Record()
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding workouts: %w", err)
	}
	if err := g.slot.Put(ctx, g.key, data); err != nil {
		return fmt.Errorf("saving workouts: %w", err)
	}
	return nil
}

// Load reads the stored records. An absent, unreadable or malformed slot
// yields an empty result; the failure is logged and never returned.
func (g *Gateway) Load(ctx context.Context) []workout.Record {
	data, ok, err := g.slot.Get(ctx, g.key)
	if err != nil {
		g.log.Error("loading workouts", "key", g.key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var records []workout.Record
	if err := json.Unmarshal(data, &records); err != nil {
		g.log.Warn("discarding malformed workout slot", "key", g.key, "error", err)
		return nil
	}
	return records
}

// Clear removes the slot entirely.
func (g *Gateway) Clear(ctx context.Context) error {
	if err := g.slot.Delete(ctx, g.key); err != nil {
		return fmt.Errorf("clearing workouts: %w", err)
	}
	return nil
}
