// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/JaimeStill/bulletin/internal/config"
	"github.com/JaimeStill/bulletin/internal/infrastructure"
	"github.com/JaimeStill/bulletin/pkg/middleware"
	"github.com/JaimeStill/bulletin/pkg/module"
)

// NewModule creates the API module with all domain handlers behind the
// standard middleware stack.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.Standard(
		runtime.Logger,
		&cfg.API.CORS,
		middleware.NewHTTPMetrics(runtime.Metrics.Registerer()),
	).Apply)

	return m, nil
}
