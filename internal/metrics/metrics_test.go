package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.WorkoutCreated("running")
	c.WorkoutCreated("running")
	c.WorkoutCreated("cycling")
	c.WorkoutUpdated("cycling")
	c.WorkoutsDeleted(3)
	c.ValidationFailed()
	c.GeocodeFailed()
	c.SnapshotWritten(nil)
	c.SnapshotWritten(errors.New("disk full"))
	c.WorkoutCount(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.created.WithLabelValues("running")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.created.WithLabelValues("cycling")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.updated.WithLabelValues("cycling")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.deleted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.snapshotWrites.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.snapshotWrites.WithLabelValues("error")))
	assert.Equal(t, 4.0, testutil.ToFloat64(c.workouts))
}

// TestHandlerExposesMetrics verifies the registered metrics appear in the
// text exposition.
func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)
	c.ValidationFailed()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mapty_validation_failures_total 1")
}
