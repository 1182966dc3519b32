package stableid

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Adapted from the teacher's metrics.go promauto-vec-per-concern shape:
// one histogram per lookup strategy so indexed and linear-scan latency
// stay distinguishable.
var lookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "registry_stableid_lookup_duration_seconds",
	Help:    "the length of time a stable id lookup took, by strategy",
	Buckets: prometheus.DefBuckets,
}, []string{"strategy"})
