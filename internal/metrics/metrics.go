// Package metrics holds the server's prometheus collectors on a private
// registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Registry struct {
	SessionsActive  prometheus.Gauge
	SessionsTotal   prometheus.Counter
	MessagesTotal   *prometheus.CounterVec
	MessageErrors   *prometheus.CounterVec
	MessageDuration *prometheus.HistogramVec
	FramesSent      prometheus.Counter
	FramesDropped   prometheus.Counter

	registry *prometheus.Registry
}

// NewRegistry creates a registry with the session collectors plus the Go
// runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{registry: reg}
	r.initSessionMetrics()
	return r
}

func (r *Registry) initSessionMetrics() {
	r.SessionsActive = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowcanvas_sessions_active",
			Help: "Open canvas sessions",
		},
	)

	r.SessionsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "flowcanvas_sessions_total",
			Help: "Canvas sessions opened since start",
		},
	)

	r.MessagesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowcanvas_messages_total",
			Help: "Client messages handled, by type",
		},
		[]string{"type"},
	)

	r.MessageErrors = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowcanvas_message_errors_total",
			Help: "Client messages rejected, by type and error code",
		},
		[]string{"type", "code"},
	)

	r.MessageDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flowcanvas_message_duration_seconds",
			Help:    "Time to apply a client message and build the reply frame",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		},
		[]string{"type"},
	)

	r.FramesSent = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "flowcanvas_frames_sent_total",
			Help: "Frames queued to clients",
		},
	)

	r.FramesDropped = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "flowcanvas_frames_dropped_total",
			Help: "Messages dropped because a client send buffer was full",
		},
	)
}

// ObserveMessage records one handled message. code is empty on success.
func (r *Registry) ObserveMessage(msgType, code string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.MessagesTotal.WithLabelValues(msgType).Inc()
	r.MessageDuration.WithLabelValues(msgType).Observe(elapsed.Seconds())
	if code != "" {
		r.MessageErrors.WithLabelValues(msgType, code).Inc()
	}
}

func (r *Registry) SessionOpened() {
	if r == nil {
		return
	}
	r.SessionsActive.Inc()
	r.SessionsTotal.Inc()
}

func (r *Registry) SessionClosed() {
	if r == nil {
		return
	}
	r.SessionsActive.Dec()
}

func (r *Registry) FrameSent() {
	if r != nil {
		r.FramesSent.Inc()
	}
}

func (r *Registry) FrameDropped() {
	if r != nil {
		r.FramesDropped.Inc()
	}
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
