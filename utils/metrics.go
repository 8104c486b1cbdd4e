package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	whoisRequests *prometheus.CounterVec
	referralHops  prometheus.Histogram
	resolutions   *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		whoisRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whoischain",
			Name:      "whois_requests_total",
			Help:      "WHOIS requests issued, by server and outcome.",
		}, []string{"server", "outcome"}),
		referralHops: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "whoischain",
			Name:      "referral_hops",
			Help:      "Number of servers queried per resolution.",
			Buckets:   []float64{1, 2, 3, 4, 5, 8, 16},
		}),
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whoischain",
			Name:      "resolutions_total",
			Help:      "Completed resolutions, by outcome.",
		}, []string{"outcome"}),
		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whoischain",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups, by result.",
		}, []string{"result"}),
	}
}

// ObserveWhoisRequest counts one request against server.
func (m *Metrics) ObserveWhoisRequest(server string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.whoisRequests.WithLabelValues(server, outcome).Inc()
}

// ObserveResolution records the end of a resolution that queried hops servers.
func (m *Metrics) ObserveResolution(hops int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.resolutions.WithLabelValues("error").Inc()
		return
	}
	m.resolutions.WithLabelValues("ok").Inc()
	m.referralHops.Observe(float64(hops))
}

// ObserveCacheLookup records a hit, miss or error.
func (m *Metrics) ObserveCacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}
