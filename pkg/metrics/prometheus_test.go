package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.AssignmentCreated()
	p.AssignmentCreated()
	p.ConflictRejected("time_overlap")
	p.StatusChanged("COMPLETED")
	p.AssignmentDeleted()

	require.Equal(t, 2.0, testutil.ToFloat64(p.created))
	require.Equal(t, 1.0, testutil.ToFloat64(p.conflicts.WithLabelValues("time_overlap")))
	require.Equal(t, 0.0, testutil.ToFloat64(p.conflicts.WithLabelValues("completed_deletion")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.statuses.WithLabelValues("COMPLETED")))
	require.Equal(t, 1.0, testutil.ToFloat64(p.deleted))

	n, err := testutil.GatherAndCount(reg, "test_assignments_created_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
