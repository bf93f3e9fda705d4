package metrics

import (
	"net/http"
	"time"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	FilesFormatted *prometheus.CounterVec // result label: ok|error
	EventsEmitted  *prometheus.CounterVec // run_type label
	FormatDuration prometheus.Histogram

	BatchesPublished *prometheus.CounterVec // sink label
	PublishErrors    *prometheus.CounterVec // sink label
	EventsStored     prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		FilesFormatted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pex_files_formatted_total",
			Help: "Total timetables formatted.",
		}, []string{"result"}),
		EventsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pex_events_emitted_total",
			Help: "Total events derived from timetables.",
		}, []string{"run_type"}),
		FormatDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pex_format_duration_seconds",
			Help:    "Duration to parse a timetable and derive its events.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15),
		}),
		BatchesPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pex_batches_published_total",
			Help: "Total event batches published.",
		}, []string{"sink"}),
		PublishErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pex_publish_errors_total",
			Help: "Total event batch publish errors.",
		}, []string{"sink"}),
		EventsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pex_events_stored_total",
			Help: "Total events written to the database.",
		}),
	}

	reg.MustRegister(
		c.FilesFormatted, c.EventsEmitted, c.FormatDuration,
		c.BatchesPublished, c.PublishErrors, c.EventsStored,
		collectors.NewGoCollector(),
	)

	return c
}

// ObserveFormat records one formatting attempt.
func (c *Collector) ObserveFormat(events []types.Event, d time.Duration, err error) {
	c.FormatDuration.Observe(d.Seconds())
	if err != nil {
		c.FilesFormatted.WithLabelValues("error").Inc()
		return
	}
	c.FilesFormatted.WithLabelValues("ok").Inc()
	for _, ev := range events {
		c.EventsEmitted.WithLabelValues(string(ev.RunType)).Inc()
	}
}

func (c *Collector) ObservePublish(sink string, err error) {
	if err != nil {
		c.PublishErrors.WithLabelValues(sink).Inc()
		return
	}
	c.BatchesPublished.WithLabelValues(sink).Inc()
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }
