// Package metrics records render pipeline activity as Prometheus metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bnema/tooldeck/internal/domain/entity"
)

const namespace = "tooldeck"

// RenderMetrics implements port.RenderMetrics.
type RenderMetrics struct {
	pagesTotal      *prometheus.CounterVec
	passDuration    prometheus.Histogram
	passPages       prometheus.Histogram
	thumbnailsTotal *prometheus.CounterVec
	openTabs        prometheus.Gauge
}

// NewRenderMetrics registers the render metrics with reg. A nil reg uses the
// default registerer.
func NewRenderMetrics(reg prometheus.Registerer) *RenderMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &RenderMetrics{
		pagesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "pages_total",
			Help:      "Main view page renders, by status (ready, failed, discarded).",
		}, []string{"status"}),

		passDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "pass_duration_seconds",
			Help:      "Time from the start of a render pass until every page settled.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}),

		passPages: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "pass_pages",
			Help:      "Pages rendered per completed pass.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 11),
		}),

		thumbnailsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "thumbnails",
			Name:      "rendered_total",
			Help:      "Thumbnail renders, by status (ready, failed, discarded).",
		}, []string{"status"}),

		openTabs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_tabs",
			Help:      "Number of open document tabs.",
		}),
	}
}

// PageRendered counts one settled page render.
func (m *RenderMetrics) PageRendered(status entity.RenderStatus) {
	m.pagesTotal.WithLabelValues(string(status)).Inc()
}

// PassCompleted observes a pass that settled without being superseded.
func (m *RenderMetrics) PassCompleted(pages int, elapsed time.Duration) {
	m.passDuration.Observe(elapsed.Seconds())
	m.passPages.Observe(float64(pages))
}

// ThumbnailRendered counts one settled thumbnail render.
func (m *RenderMetrics) ThumbnailRendered(status entity.RenderStatus) {
	m.thumbnailsTotal.WithLabelValues(string(status)).Inc()
}

// OpenTabs sets the open tab gauge.
func (m *RenderMetrics) OpenTabs(n int) {
	m.openTabs.Set(float64(n))
}
