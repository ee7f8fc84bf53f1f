package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sortify_match_runs_total",
		Help: "Number of matching runs executed.",
	})
	matchedTracks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sortify_matched_tracks_total",
		Help: "Number of liked tracks that cleared the threshold.",
	})
	unmatchedTracks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sortify_unmatched_tracks_total",
		Help: "Number of liked tracks reported unmatched.",
	})
	appliedTracks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sortify_applied_tracks_total",
		Help: "Number of tracks added to playlists by organize runs.",
	})
	profileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sortify_profile_cache_hits_total",
		Help: "Profile cache lookups served without a rebuild.",
	})
	profileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sortify_profile_cache_misses_total",
		Help: "Profile cache lookups that required a rebuild.",
	})
	matchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sortify_match_run_duration_seconds",
		Help:    "Wall time of matching runs.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})
)
