package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total number of cache-aside reads served from the cache",
	})

	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total number of cache-aside reads that fell through to compute",
	})

	cacheErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cache_errors_total",
		Help: "Total number of cache store errors silently degraded to misses",
	})
)

func recordCacheHit()   { cacheHitsTotal.Inc() }
func recordCacheMiss()  { cacheMissesTotal.Inc() }
func recordCacheError() { cacheErrorsTotal.Inc() }
