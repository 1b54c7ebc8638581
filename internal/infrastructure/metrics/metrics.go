package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "drift"

// Collectors bundles the engine's Prometheus instruments. Construct with a
// dedicated registry in tests to avoid duplicate registration.
type Collectors struct {
	OnlineParticipants  prometheus.Gauge
	WaitingParticipants prometheus.Gauge
	ActiveRooms         prometheus.Gauge
	AdminObservers      prometheus.Gauge
	MessagesTotal       prometheus.Counter
	PairingsTotal       prometheus.Counter
}

func New(reg prometheus.Registerer) *Collectors {
	factory := promauto.With(reg)

	return &Collectors{
		OnlineParticipants: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "online_participants",
			Help:      "Number of currently connected participants.",
		}),
		WaitingParticipants: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "waiting_participants",
			Help:      "Occupancy of the single waiting slot (0 or 1).",
		}),
		ActiveRooms: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_rooms",
			Help:      "Number of live chat rooms.",
		}),
		AdminObservers: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "admin_observers",
			Help:      "Number of authenticated admin observers.",
		}),
		MessagesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total chat messages relayed since process start.",
		}),
		PairingsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairings_total",
			Help:      "Total rooms created since process start.",
		}),
	}
}
