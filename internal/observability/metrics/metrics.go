package metrics

import "github.com/prometheus/client_golang/prometheus"

// RelayMetrics exposes counters/histograms for the webhook relay flow.
type RelayMetrics struct {
	inboundTotal  *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
	chatLatency   prometheus.Histogram
	sendLatency   prometheus.Histogram
}

func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	m := &RelayMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Subsystem: "webhook",
			Name:      "inbound_total",
			Help:      "Total inbound provider webhooks",
		}, []string{"outcome"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Subsystem: "webhook",
			Name:      "stage_failures_total",
			Help:      "Relay failures by outbound stage",
		}, []string{"stage"}),
		chatLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "relay",
			Subsystem: "webhook",
			Name:      "chat_latency_seconds",
			Help:      "Latency of AI backend calls",
			Buckets:   prometheus.DefBuckets,
		}),
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "relay",
			Subsystem: "webhook",
			Name:      "send_latency_seconds",
			Help:      "Latency of provider send calls",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.stageFailures, m.chatLatency, m.sendLatency)
	return m
}

func (m *RelayMetrics) ObserveInbound(outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(outcome).Inc()
}

func (m *RelayMetrics) ObserveStageFailure(stage string) {
	if m == nil {
		return
	}
	m.stageFailures.WithLabelValues(stage).Inc()
}

func (m *RelayMetrics) ObserveChatLatency(seconds float64) {
	if m == nil {
		return
	}
	m.chatLatency.Observe(seconds)
}

func (m *RelayMetrics) ObserveSendLatency(seconds float64) {
	if m == nil {
		return
	}
	m.sendLatency.Observe(seconds)
}
