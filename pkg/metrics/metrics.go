package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Property lifecycle transitions by action (create, verify, reject, advertise, ...)
	PropertyTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dreamkeys_property_transitions_total",
		Help: "Property lifecycle transitions by action",
	}, []string{"action"})

	// Bid status transitions
	BidTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dreamkeys_bid_transitions_total",
		Help: "Bid status transitions by source and target status",
	}, []string{"from", "to"})

	// Settlement attempts by outcome (settled, replayed, rejected, gateway_error)
	Settlements = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dreamkeys_settlements_total",
		Help: "Bid settlement attempts by outcome",
	}, []string{"outcome"})

	// Authorization rejections by policy
	AuthDenials = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dreamkeys_auth_denials_total",
		Help: "Requests rejected by the authorization middleware",
	}, []string{"policy"})

	// Properties removed by an agent purge
	PurgedProperties = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dreamkeys_purged_properties_total",
		Help: "Properties deleted by agent purges",
	})
)

func Init() {
	prometheus.MustRegister(
		PropertyTransitions,
		BidTransitions,
		Settlements,
		AuthDenials,
		PurgedProperties,
	)
}
