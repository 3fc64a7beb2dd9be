package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestRelayMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRelayMetrics(reg)
	m.ObserveInbound("ok")
	m.ObserveStageFailure("chat")
	m.ObserveChatLatency(0.5)
	m.ObserveSendLatency(0.2)
}

func TestRelayMetricsNilSafe(t *testing.T) {
	var m *RelayMetrics
	m.ObserveInbound("ok")
	m.ObserveStageFailure("send")
	m.ObserveChatLatency(0.1)
	m.ObserveSendLatency(0.1)
}
