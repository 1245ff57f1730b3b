package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewFeedRefreshFailuresTotal returns a Prometheus counter for background feed refreshes that failed
func NewFeedRefreshFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "feed_refresh_failures_total",
		Help: "Total number of background order feed refreshes that failed",
	})
}

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}
