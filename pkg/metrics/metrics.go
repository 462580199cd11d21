package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EventsRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cinesync_events_relayed_total",
		Help: "Inbound events processed by the relay, by type.",
	}, []string{"type"})

	ActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cinesync_active_connections",
		Help: "Currently open websocket connections.",
	})

	HostedRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cinesync_hosted_rooms",
		Help: "Rooms with a live host record.",
	})
)

// Handler exposes Prometheus metrics at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
