// Package metrics wraps the daemon's Prometheus instrumentation: frames
// served by tag, sessions accepted and dialed, watcher events delivered
// and dropped, sync notifications sent and failed, and delta vs. full-file
// bytes transferred. Every recording method is nil-safe, mirroring the
// teacher's metrics wrappers, so call sites never need a conditional on
// whether metrics are enabled.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every counter and gauge the daemon exposes. A nil
// *Metrics is valid and every method on it is a no-op, so components can
// be constructed with metrics disabled at zero cost.
type Metrics struct {
	framesServed     *prometheus.CounterVec
	sessionsAccepted prometheus.Counter
	sessionsDialed   prometheus.Counter
	watcherDelivered prometheus.Counter
	watcherDropped   prometheus.Counter
	notifySent       prometheus.Counter
	notifyFailed     prometheus.Counter
	bytesDelta       prometheus.Counter
	bytesFull        prometheus.Counter
}

// New registers every metric against reg and returns the handle. Pass a
// fresh prometheus.NewRegistry() in production; tests can pass the same
// registry to assert on specific series.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		framesServed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "syncr_frames_served_total",
			Help: "Frames served by the session responder, by message tag.",
		}, []string{"tag"}),
		sessionsAccepted: f.NewCounter(prometheus.CounterOpts{
			Name: "syncr_sessions_accepted_total",
			Help: "Inbound sessions accepted by the endpoint.",
		}),
		sessionsDialed: f.NewCounter(prometheus.CounterOpts{
			Name: "syncr_sessions_dialed_total",
			Help: "Outbound sessions dialed by the sync manager or CLI.",
		}),
		watcherDelivered: f.NewCounter(prometheus.CounterOpts{
			Name: "syncr_watcher_events_delivered_total",
			Help: "Filesystem change events delivered to the sync manager.",
		}),
		watcherDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "syncr_watcher_events_dropped_total",
			Help: "Filesystem change events dropped because the bounded queue was full.",
		}),
		notifySent: f.NewCounter(prometheus.CounterOpts{
			Name: "syncr_notifications_sent_total",
			Help: "FileUpdateNotification sessions completed successfully.",
		}),
		notifyFailed: f.NewCounter(prometheus.CounterOpts{
			Name: "syncr_notifications_failed_total",
			Help: "FileUpdateNotification sessions that failed to dial or complete.",
		}),
		bytesDelta: f.NewCounter(prometheus.CounterOpts{
			Name: "syncr_bytes_transferred_delta_total",
			Help: "Bytes transferred as delta-encoded file updates.",
		}),
		bytesFull: f.NewCounter(prometheus.CounterOpts{
			Name: "syncr_bytes_transferred_full_total",
			Help: "Bytes transferred as whole-file transfers.",
		}),
	}
}

func (m *Metrics) FrameServed(tag string) {
	if m == nil {
		return
	}
	m.framesServed.WithLabelValues(tag).Inc()
}

func (m *Metrics) SessionAccepted() {
	if m == nil {
		return
	}
	m.sessionsAccepted.Inc()
}

func (m *Metrics) SessionDialed() {
	if m == nil {
		return
	}
	m.sessionsDialed.Inc()
}

func (m *Metrics) WatcherEventDelivered() {
	if m == nil {
		return
	}
	m.watcherDelivered.Inc()
}

func (m *Metrics) WatcherEventDropped() {
	if m == nil {
		return
	}
	m.watcherDropped.Inc()
}

func (m *Metrics) NotificationSent() {
	if m == nil {
		return
	}
	m.notifySent.Inc()
}

func (m *Metrics) NotificationFailed() {
	if m == nil {
		return
	}
	m.notifyFailed.Inc()
}

func (m *Metrics) BytesTransferredDelta(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bytesDelta.Add(float64(n))
}

func (m *Metrics) BytesTransferredFull(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.bytesFull.Add(float64(n))
}

// Handler returns an HTTP handler exposing reg in the Prometheus exposition
// format, for wiring into a "metrics serve" listener.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
