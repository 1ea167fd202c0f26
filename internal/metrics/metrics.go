package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	bidsPlaced     prometheus.Counter
	auctionsOpened prometheus.Counter
	authzDecisions *prometheus.CounterVec
	loginFailures  prometheus.Counter
}

func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auctionhouse_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auctionhouse_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bidsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auctionhouse_bids_placed_total",
			Help: "Bids accepted.",
		}),
		auctionsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auctionhouse_auctions_created_total",
			Help: "Auctions created.",
		}),
		authzDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auctionhouse_authz_decisions_total",
			Help: "Authorization decisions by resource, intent and result.",
		}, []string{"resource", "intent", "result"}),
		loginFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auctionhouse_login_failures_total",
			Help: "Rejected sign-in attempts.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.bidsPlaced,
		c.auctionsOpened,
		c.authzDecisions,
		c.loginFailures,
	)
	return c
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, took time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(took.Seconds())
}

func (c *Collector) RecordBidPlaced() { c.bidsPlaced.Inc() }

func (c *Collector) RecordAuctionCreated() { c.auctionsOpened.Inc() }

func (c *Collector) RecordAuthzDecision(resource, intent string, allowed bool) {
	result := "deny"
	if allowed {
		result = "allow"
	}
	c.authzDecisions.WithLabelValues(resource, intent, result).Inc()
}

func (c *Collector) RecordLoginFailure() { c.loginFailures.Inc() }

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
