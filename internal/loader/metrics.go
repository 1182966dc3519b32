package loader

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Adapted from the teacher's internal/staging/stage/metrics.go: the same
// promauto-vec-per-concern shape, new names for database enumeration.
var (
	loaderDatabasesClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_loader_databases_classified_total",
		Help: "the number of adaptors registered from classified databases during a server load, one per species",
	}, []string{"group"})

	loaderGroupsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "registry_loader_groups_skipped_total",
		Help: "the number of times a group was skipped because its adaptor module was unavailable",
	}, []string{"group"})

	loaderLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "registry_loader_load_duration_seconds",
		Help:    "the length of time a full server load took",
		Buckets: prometheus.DefBuckets,
	})
)
