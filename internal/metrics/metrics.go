// Package metrics exports serial link counters in the Prometheus format.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/moffa90/go-ovtoolbox/protocol"
	"github.com/moffa90/go-ovtoolbox/transport"
)

const namespace = "ovtoolbox"

// Failure labels of RequestFailed.
const (
	FailureTimeout = "timeout"
	FailureWrite   = "write"
	FailureOther   = "other"
)

// NewRegistry returns a registry holding only the link metrics, so a
// textfile export contains no Go runtime series.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// LinkMetrics counts serial link activity. It implements transport.Observer.
type LinkMetrics struct {
	RequestsSent     *prometheus.CounterVec   // labels: request
	BytesSent        *prometheus.CounterVec   // labels: request
	ResponsesTotal   *prometheus.CounterVec   // labels: request
	PayloadBytes     *prometheus.CounterVec   // labels: request
	ResponseDuration *prometheus.HistogramVec // labels: request
	FramesRejected   *prometheus.CounterVec   // labels: request, reason
	RequestsFailed   *prometheus.CounterVec   // labels: request, reason
}

var _ transport.Observer = (*LinkMetrics)(nil)

// NewLinkMetrics registers and returns the link metrics.
func NewLinkMetrics(reg prometheus.Registerer) *LinkMetrics {
	m := &LinkMetrics{
		RequestsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "link",
			Name:      "requests_sent_total",
			Help:      "Request frames written to the device.",
		}, []string{"request"}),
		BytesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "link",
			Name:      "sent_bytes_total",
			Help:      "Bytes of request frames written to the device.",
		}, []string{"request"}),
		ResponsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "link",
			Name:      "responses_total",
			Help:      "Valid response frames received.",
		}, []string{"request"}),
		PayloadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "link",
			Name:      "response_payload_bytes_total",
			Help:      "Payload bytes of valid response frames.",
		}, []string{"request"}),
		ResponseDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "link",
			Name:      "response_duration_seconds",
			Help:      "Time from request write to a valid response.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2},
		}, []string{"request"}),
		FramesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "link",
			Name:      "frames_rejected_total",
			Help:      "Receive state machine rejections by reason.",
		}, []string{"request", "reason"}),
		RequestsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "link",
			Name:      "requests_failed_total",
			Help:      "Requests that ended without a response.",
		}, []string{"request", "reason"}),
	}
	reg.MustRegister(
		m.RequestsSent,
		m.BytesSent,
		m.ResponsesTotal,
		m.PayloadBytes,
		m.ResponseDuration,
		m.FramesRejected,
		m.RequestsFailed,
	)
	return m
}

func (m *LinkMetrics) RequestSent(id protocol.RequestID, frameSize int) {
	m.RequestsSent.WithLabelValues(id.String()).Inc()
	m.BytesSent.WithLabelValues(id.String()).Add(float64(frameSize))
}

func (m *LinkMetrics) ResponseReceived(id protocol.RequestID, payloadSize int, elapsed time.Duration) {
	m.ResponsesTotal.WithLabelValues(id.String()).Inc()
	m.PayloadBytes.WithLabelValues(id.String()).Add(float64(payloadSize))
	m.ResponseDuration.WithLabelValues(id.String()).Observe(elapsed.Seconds())
}

func (m *LinkMetrics) FrameRejected(id protocol.RequestID, reason protocol.RejectReason) {
	m.FramesRejected.WithLabelValues(id.String(), reason.String()).Inc()
}

func (m *LinkMetrics) RequestFailed(id protocol.RequestID, err error) {
	m.RequestsFailed.WithLabelValues(id.String(), failureReason(err)).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, transport.ErrWriteFailure):
		return FailureWrite
	case errors.Is(err, protocol.ErrTimeout):
		return FailureTimeout
	}
	return FailureOther
}

// WriteTextfile writes every metric gathered from g to path in the text
// exposition format, for the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
