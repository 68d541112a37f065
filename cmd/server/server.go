package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JaimeStill/bulletin/internal/config"
	"github.com/JaimeStill/bulletin/internal/infrastructure"
)

// Server owns the infrastructure, the mounted modules, and the HTTP listener
// for one bulletin process.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	if err := registerBuildInfo(infra.Metrics.Registerer(), cfg); err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"api", modules.API.Prefix(),
		"max_upload_size", cfg.API.MaxUploadSize.String(),
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// registerBuildInfo exposes bulletin_build_info, a constant gauge labeled with
// the running version and environment.
func registerBuildInfo(reg prometheus.Registerer, cfg *config.Config) error {
	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "bulletin",
		Name:        "build_info",
		Help:        "Version and environment of the running bulletin server",
		ConstLabels: prometheus.Labels{"version": cfg.Version, "env": cfg.Env()},
	})
	info.Set(1)

	if err := reg.Register(info); err != nil {
		return fmt.Errorf("register build info: %w", err)
	}
	return nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go s.reportReadiness()

	return nil
}

// reportReadiness waits for startup hooks, then runs the readiness checks
// once so a misconfigured database or container shows up in the log
// before the first /readyz poll.
func (s *Server) reportReadiness() {
	s.infra.Lifecycle.WaitForStartup()

	ctx, cancel := context.WithTimeout(s.infra.Lifecycle.Context(), readinessTimeout)
	defer cancel()

	failures := s.infra.Lifecycle.Probe(ctx)
	if len(failures) == 0 {
		s.infra.Logger.Info("all subsystems ready")
		return
	}
	for name, err := range failures {
		s.infra.Logger.Warn("readiness check failing", "check", name, "error", err)
	}
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "timeout", timeout)

	if err := s.infra.Lifecycle.Shutdown(timeout); err != nil {
		s.infra.Logger.Error("shutdown incomplete", "error", err)
		return err
	}

	s.infra.Logger.Info("shutdown complete")
	return nil
}
