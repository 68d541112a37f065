package api

import (
	"github.com/JaimeStill/bulletin/internal/config"
	"github.com/JaimeStill/bulletin/internal/infrastructure"
	"github.com/JaimeStill/bulletin/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	MaxUploadSize int64
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
			Metrics:   infra.Metrics,
			Sequence:  infra.Sequence,
		},
		Pagination:    cfg.API.Pagination,
		MaxUploadSize: int64(cfg.API.MaxUploadSize),
	}
}
