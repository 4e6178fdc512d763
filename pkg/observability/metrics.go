package observability

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the service
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Bus metrics
	Commands        *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	Queries         *prometheus.CounterVec
	QueryDuration   *prometheus.HistogramVec

	// Business metrics
	VotesCast            *prometheus.CounterVec
	TipsRecorded         prometheus.Counter
	TipDropsTotal        prometheus.Counter
	DuplicateTips        prometheus.Counter
	KarmaFailures        prometheus.Counter
	EventPublishFailures *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry. Go runtime and
// process collectors are registered alongside.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of dispatched commands",
		}, []string{"command", "status"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"command"}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of dispatched queries",
		}, []string{"query", "status"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query handling duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
		VotesCast: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_cast_total",
			Help:      "Total number of votes recorded",
		}, []string{"direction"}),
		TipsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tips_recorded_total",
			Help:      "Total number of tips recorded",
		}),
		TipDropsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tip_drops_total",
			Help:      "Sum of recorded tip amounts in drops",
		}),
		DuplicateTips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duplicate_tips_rejected_total",
			Help:      "Tips rejected because their tx_hash was already recorded",
		}),
		KarmaFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "karma_recalculation_failures_total",
			Help:      "Votes whose author karma could not be recalculated",
		}),
		EventPublishFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Domain events that could not be published",
		}, []string{"event_type"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.Commands,
		c.CommandDuration,
		c.Queries,
		c.QueryDuration,
		c.VotesCast,
		c.TipsRecorded,
		c.TipDropsTotal,
		c.DuplicateTips,
		c.KarmaFailures,
		c.EventPublishFailures,
	)

	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RegisterDB exports connection pool statistics for db
func (c *Collector) RegisterDB(db *sql.DB, name string) error {
	return c.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveCommand records one dispatched command
func (c *Collector) ObserveCommand(name string, d time.Duration, err error) {
	c.Commands.WithLabelValues(name, outcome(err)).Inc()
	c.CommandDuration.WithLabelValues(name).Observe(d.Seconds())
}

// ObserveQuery records one dispatched query
func (c *Collector) ObserveQuery(name string, d time.Duration, err error) {
	c.Queries.WithLabelValues(name, outcome(err)).Inc()
	c.QueryDuration.WithLabelValues(name).Observe(d.Seconds())
}

func (c *Collector) VoteCast(direction string) {
	c.VotesCast.WithLabelValues(direction).Inc()
}

func (c *Collector) TipRecorded(amountDrops int64) {
	c.TipsRecorded.Inc()
	c.TipDropsTotal.Add(float64(amountDrops))
}

func (c *Collector) DuplicateTipRejected() {
	c.DuplicateTips.Inc()
}

func (c *Collector) KarmaRecalculationFailed() {
	c.KarmaFailures.Inc()
}

func (c *Collector) EventPublishFailed(eventType string) {
	c.EventPublishFailures.WithLabelValues(eventType).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
