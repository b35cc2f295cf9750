package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yamato-denko/koutei/pkg/application"
)

// PrometheusController serves runtime and process metrics on its own registry,
// plus a gauge for open feed connections.
type PrometheusController struct {
	app  application.Application
	path string
}

func NewPrometheusController(app application.Application, path string) application.Controller {
	if path == "" {
		path = "/debug/prometheus"
	}
	return &PrometheusController{app: app, path: path}
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "koutei_feed_connections",
			Help: "Open websocket feed connections.",
		}, func() float64 {
			return float64(c.app.Websocket().ConnectionCount())
		}),
	)
	r.Handle(c.path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}
