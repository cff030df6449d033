package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveMessage(t *testing.T) {
	r := NewRegistry()

	r.ObserveMessage("node.add", "", time.Millisecond)
	r.ObserveMessage("node.add", "not_found", time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.MessagesTotal.WithLabelValues("node.add")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.MessageErrors.WithLabelValues("node.add", "not_found")))
}

func TestSessionGauge(t *testing.T) {
	r := NewRegistry()
	r.SessionOpened()
	r.SessionOpened()
	r.SessionClosed()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.SessionsActive))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.SessionsTotal))

	families, err := r.GetPrometheusRegistry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNilRegistryIsNoop(t *testing.T) {
	var r *Registry
	assert.NotPanics(t, func() {
		r.SessionOpened()
		r.ObserveMessage("wheel", "", 0)
		r.FrameSent()
		r.FrameDropped()
		r.SessionClosed()
	})
}
