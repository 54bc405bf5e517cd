package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns a private registry with the service's series.
type Collector struct {
	reg *prometheus.Registry

	TripsCreated     *prometheus.CounterVec // trip_type
	PointsIngested   prometheus.Counter
	IngestFailures   *prometheus.CounterVec // kind
	WindowQueries    *prometheus.CounterVec // outcome: disclosed|blocked
	WindowResultSize prometheus.Histogram

	EventsPublished    prometheus.Counter
	EventPublishErrors prometheus.Counter

	RequestDuration *prometheus.HistogramVec // method, route, status
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		TripsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trips_created_total",
			Help: "Trips stored by the ingestion pipeline.",
		}, []string{"trip_type"}),
		PointsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trips_points_ingested_total",
			Help: "Points stored by the ingestion pipeline.",
		}),
		IngestFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trips_ingest_failures_total",
			Help: "Rejected or failed trip ingestions.",
		}, []string{"kind"}),
		WindowQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "points_window_queries_total",
			Help: "Spatial window queries by outcome.",
		}, []string{"outcome"}),
		WindowResultSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "points_window_result_points",
			Help:    "Number of points disclosed per window query.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trips_events_published_total",
			Help: "Trip lifecycle events published.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trips_events_publish_errors_total",
			Help: "Trip lifecycle events that failed to publish.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		c.TripsCreated, c.PointsIngested, c.IngestFailures,
		c.WindowQueries, c.WindowResultSize,
		c.EventsPublished, c.EventPublishErrors,
		c.RequestDuration,
		collectors.NewGoCollector(),
	)

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

func (c *Collector) TripCreated(tripType string, points int) {
	c.TripsCreated.WithLabelValues(tripType).Inc()
	c.PointsIngested.Add(float64(points))
}

func (c *Collector) IngestFailed(kind string) {
	c.IngestFailures.WithLabelValues(kind).Inc()
}

func (c *Collector) WindowQueried(outcome string, points int) {
	c.WindowQueries.WithLabelValues(outcome).Inc()
	if outcome == "disclosed" {
		c.WindowResultSize.Observe(float64(points))
	}
}

func (c *Collector) EventPublished(err error) {
	if err != nil {
		c.EventPublishErrors.Inc()
		return
	}
	c.EventsPublished.Inc()
}

func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}
