// Package metrics exposes Prometheus counters for workout activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records tracker events. Its method set matches tracker.Recorder.
type Collector struct {
	created            *prometheus.CounterVec
	updated            *prometheus.CounterVec
	deleted            prometheus.Counter
	validationFailures prometheus.Counter
	geocodeFailures    prometheus.Counter
	snapshotWrites     *prometheus.CounterVec
	workouts           prometheus.Gauge
}

// New creates a Collector and registers it with reg.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapty",
			Name:      "workouts_created_total",
			Help:      "Number of workouts created, by type.",
		}, []string{"type"}),
		updated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapty",
			Name:      "workouts_updated_total",
			Help:      "Number of workouts edited, by resulting type.",
		}, []string{"type"}),
		deleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mapty",
			Name:      "workouts_deleted_total",
			Help:      "Number of workouts removed, singly or in bulk.",
		}),
		validationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mapty",
			Name:      "validation_failures_total",
			Help:      "Number of form submissions rejected as invalid input.",
		}),
		geocodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mapty",
			Name:      "geocode_failures_total",
			Help:      "Number of reverse geocode lookups that failed.",
		}),
		snapshotWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mapty",
			Name:      "snapshot_writes_total",
			Help:      "Number of collection snapshot writes, by result.",
		}, []string{"result"}),
		workouts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mapty",
			Name:      "workouts",
			Help:      "Number of workouts currently in the collection.",
		}),
	}
	reg.MustRegister(c.created, c.updated, c.deleted, c.validationFailures,
		c.geocodeFailures, c.snapshotWrites, c.workouts)
	return c
}

func (c *Collector) WorkoutCreated(kind string) { c.created.WithLabelValues(kind).Inc() }
func (c *Collector) WorkoutUpdated(kind string) { c.updated.WithLabelValues(kind).Inc() }
func (c *Collector) WorkoutsDeleted(n int)      { c.deleted.Add(float64(n)) }
func (c *Collector) ValidationFailed()          { c.validationFailures.Inc() }
func (c *Collector) GeocodeFailed()             { c.geocodeFailures.Inc() }
func (c *Collector) WorkoutCount(n int)         { c.workouts.Set(float64(n)) }

// SnapshotWritten counts a persistence write and whether it failed.
func (c *Collector) SnapshotWritten(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.snapshotWrites.WithLabelValues(result).Inc()
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
