package metrics

import "github.com/prometheus/client_golang/prometheus"

// Discovery metric collectors. Registered explicitly from the composition
// root (no init()) and handed to the usecase services that emit them.
var (
	// SearchesTotal counts profile searches issued by feed engines, by outcome
	// (ok, error, cancelled, superseded).
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "amora",
			Name:      "feed_searches_total",
			Help:      "Total profile searches issued by discovery feeds",
		},
		[]string{"outcome"},
	)

	// FeedExhaustedTotal counts feeds that ran out of candidates.
	FeedExhaustedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "amora",
			Name:      "feed_exhausted_total",
			Help:      "Total times a discovery feed reached its last page",
		},
	)

	// InterestsTotal counts interest sends, by outcome (sent, failed, duplicate).
	InterestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "amora",
			Name:      "interests_total",
			Help:      "Total interest (like) signals processed",
		},
		[]string{"outcome"},
	)

	// ScoresComputedTotal counts compatibility score computations, by outcome
	// (ok, no_overlap).
	ScoresComputedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "amora",
			Name:      "compat_scores_total",
			Help:      "Total compatibility score computations",
		},
		[]string{"outcome"},
	)
)

// RegisterDiscoveryMetrics registers the discovery collectors.
func RegisterDiscoveryMetrics() {
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(FeedExhaustedTotal)
	prometheus.MustRegister(InterestsTotal)
	prometheus.MustRegister(ScoresComputedTotal)
}
