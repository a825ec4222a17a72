package mapview

import (
	"context"
	"errors"

	"github.com/erickhangati/mapty/internal/workout"
)

// ErrPositionUnavailable is returned when no position can be determined.
var ErrPositionUnavailable = errors.New("could not get your position")

// StaticLocator reports a fixed configured position.
type StaticLocator struct {
	pos *workout.Coords
}

// NewStaticLocator returns a locator for pos. A nil pos always fails, which
// leaves the map uninitialized.
func NewStaticLocator(pos *workout.Coords) *StaticLocator {
	return &StaticLocator{pos: pos}
}

func (l *StaticLocator) Locate(ctx context.Context) (workout.Coords, error) {
	if err := ctx.Err(); err != nil {
		return workout.Coords{}, err
	}
	if l.pos == nil {
		return workout.Coords{}, ErrPositionUnavailable
	}
	return *l.pos, nil
}
