package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	responseTime = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "response_time",
			Help:    "http response time.",
			Buckets: []float64{0.005, 0.05, 0.5, 1, 5, 10, 30, 60},
		},
	)

	totalHttpRequestsFromRole = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_from_role", Help: "http requests from role"},
		[]string{"role"},
	)

	totalHttpRequestsToUri = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests_to_uri", Help: "http requests to uri"},
		[]string{"code", "uri", "method"},
	)

	totalHttpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "total_http_requests", Help: "http requests by code, and method"},
		[]string{"code", "method"},
	)
)

var (
	engineQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "engine_queue_depth", Help: "messages waiting for the script engine"},
	)

	engineHealthy = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "engine_healthy", Help: "1 while the script engine accepts calls"},
	)

	engineRoutes = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "engine_routes", Help: "routes in the current table"},
	)

	engineCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "engine_calls_total", Help: "engine calls by outcome"},
		[]string{"outcome"},
	)

	engineHandlerSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_handler_seconds",
			Help:    "handler execution time by route",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"route"},
	)

	engineReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "engine_reloads_total", Help: "route table loads by result"},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		responseTime,
		totalHttpRequestsFromRole,
		totalHttpRequestsToUri,
		totalHttpRequests,
		engineQueueDepth,
		engineHealthy,
		engineRoutes,
		engineCalls,
		engineHandlerSeconds,
		engineReloads,
	)
}
