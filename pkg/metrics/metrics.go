// Package metrics owns the Prometheus registry the service's collectors
// register with and serves it for scraping.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// System exposes a private registry and its scrape handler.
type System interface {
	// Registerer returns the registry collectors register with.
	Registerer() prometheus.Registerer
	// Handler serves the registry in the Prometheus exposition format.
	Handler() http.Handler
}

type registry struct {
	reg *prometheus.Registry
}

// New creates a registry preloaded with the Go runtime and process collectors.
func New() System {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &registry{reg: reg}
}

func (r *registry) Registerer() prometheus.Registerer {
	return r.reg
}

func (r *registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{
		Registry: r.reg,
	})
}
