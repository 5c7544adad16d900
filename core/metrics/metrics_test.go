package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pagekit/core/metrics"
)

func TestCollector(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	c := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("test"))

	c.ObserveRequest("GET", "users", 200, 10*time.Millisecond)
	c.ObserveRequest("GET", "users", 200, 20*time.Millisecond)
	c.ObserveRequest("GET", "unmatched", 404, time.Millisecond)
	c.ObserveSessionSave(time.Millisecond, nil)
	c.ObserveSessionSave(time.Millisecond, errors.New("disk full"))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"test_dispatch_requests_total",
		"test_dispatch_request_duration_seconds",
		"test_session_saves_total",
		"test_session_save_duration_seconds",
	}, names)

	count, err := testutil.GatherAndCount(reg, "test_dispatch_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series per label set")

	count, err = testutil.GatherAndCount(reg, "test_session_saves_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics.New(metrics.WithRegistry(reg))
	assert.Panics(t, func() { metrics.New(metrics.WithRegistry(reg)) })
}
