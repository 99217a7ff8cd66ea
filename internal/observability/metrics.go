package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	decodeBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lwcp",
			Subsystem: "decode",
			Name:      "bytes_total",
			Help:      "Bytes read from LWCP input streams.",
		},
	)
	decodeMessages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lwcp",
			Subsystem: "decode",
			Name:      "messages_total",
			Help:      "Messages decoded and handed to callers.",
		},
	)
	decodeDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lwcp",
			Subsystem: "decode",
			Name:      "dropped_total",
			Help:      "Message spans dropped without producing a message.",
		},
		[]string{"reason"},
	)
	decodeDamaged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lwcp",
			Subsystem: "decode",
			Name:      "invalid_values_total",
			Help:      "Messages kept with one or more invalid values.",
		},
	)
	encodeMessages = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "lwcp",
			Subsystem: "encode",
			Name:      "messages_total",
			Help:      "Messages written to LWCP output streams.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(decodeBytes, decodeMessages, decodeDropped, decodeDamaged, encodeMessages)
	})
}

func RecordBytes(n int) {
	RegisterMetrics()
	decodeBytes.Add(float64(n))
}

func RecordMessage() {
	RegisterMetrics()
	decodeMessages.Inc()
}

func RecordDropped(reason string) {
	RegisterMetrics()
	decodeDropped.WithLabelValues(reason).Inc()
}

func RecordDamaged() {
	RegisterMetrics()
	decodeDamaged.Inc()
}

func RecordEncoded() {
	RegisterMetrics()
	encodeMessages.Inc()
}
