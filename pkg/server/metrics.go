package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// metrics は /api/generate の結果を集計します。
// サーバーごとに専用のレジストリを持つので、テストで複数作っても衝突しません。
type metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	images    prometheus.Counter
	durations prometheus.Histogram
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "image_generation_requests_total",
			Help: "Number of /api/generate requests by outcome.",
		}, []string{"outcome"}),
		images: factory.NewCounter(prometheus.CounterOpts{
			Name: "images_generated_total",
			Help: "Number of images saved to the output directory.",
		}),
		durations: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "image_generation_duration_seconds",
			Help:    "Time spent waiting for the upstream model.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		}),
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
