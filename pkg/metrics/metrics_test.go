package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.FrameServed("Handshake")
		m.SessionAccepted()
		m.SessionDialed()
		m.WatcherEventDelivered()
		m.WatcherEventDropped()
		m.NotificationSent()
		m.NotificationFailed()
		m.BytesTransferredDelta(10)
		m.BytesTransferredFull(10)
	})
}

func TestFrameServedIncrementsByTag(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.FrameServed("Handshake")
	m.FrameServed("Handshake")
	m.FrameServed("FileRequest")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.framesServed.WithLabelValues("Handshake")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.framesServed.WithLabelValues("FileRequest")))
}

func TestBytesTransferredIgnoresNonPositive(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.BytesTransferredDelta(0)
	m.BytesTransferredDelta(-5)
	m.BytesTransferredDelta(42)

	assert.Equal(t, float64(42), testutil.ToFloat64(m.bytesDelta))
}
