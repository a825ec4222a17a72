package tracker

import (
	"math"
	"strconv"
	"strings"

	"github.com/erickhangati/mapty/internal/workout"
)

// FormInput is a raw form submission. Numeric fields are text as typed.
type FormInput struct {
	Type      string `json:"type"`
	Distance  string `json:"distance"`
	Duration  string `json:"duration"`
	Cadence   string `json:"cadence"`
	Elevation string `json:"elevation"`
}

// values coerces the form to numbers. The variant field read is cadence for
// running and elevation for everything else.
func (in FormInput) values() (kind workout.Kind, distance, duration, extra float64) {
	kind = workout.Kind(strings.TrimSpace(in.Type))
	distance = number(in.Distance)
	duration = number(in.Duration)
	if kind == workout.KindRunning {
		extra = number(in.Cadence)
	} else {
		extra = number(in.Elevation)
	}
	return kind, distance, duration, extra
}

// number reads blank text as 0 and anything unparseable as NaN.
func number(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}
