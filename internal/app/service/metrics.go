package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// catalogBrowseLatency labels: sort (resolved key), status (ok, error)
	catalogBrowseLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fictionhub",
		Subsystem: "catalog",
		Name:      "browse_duration_seconds",
		Help:      "Catalog browse query latency in seconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"sort", "status"})

	catalogSortKeys = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fictionhub",
		Subsystem: "catalog",
		Name:      "sort_keys_total",
		Help:      "Catalog browse requests by resolved sort key",
	}, []string{"sort"})

	// reactionToggles labels: target (comment, review, reply), result (like, dislike, none)
	reactionToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fictionhub",
		Subsystem: "discussion",
		Name:      "reaction_toggles_total",
		Help:      "Reaction toggles by target and resulting state",
	}, []string{"target", "result"})

	commentsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fictionhub",
		Subsystem: "discussion",
		Name:      "comments_soft_deleted_total",
		Help:      "Comments marked deleted, including cascaded replies",
	})
)

func reactionResultLabel(v int8) string {
	switch {
	case v > 0:
		return "like"
	case v < 0:
		return "dislike"
	default:
		return "none"
	}
}
