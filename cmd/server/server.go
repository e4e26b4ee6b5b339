package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/leafscan/internal/config"
	"github.com/JaimeStill/leafscan/internal/infrastructure"
)

// Server owns the infrastructure, the mounted modules and the HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	router  http.Handler
	http    *httpServer
	failed  chan error
}

// NewServer wires every system from cfg without starting any of them.
func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		infra.Close()
		return nil, err
	}

	router := buildRouter(infra, modules)
	if err := modules.Mount(router); err != nil {
		infra.Close()
		return nil, err
	}

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"modules", router.Prefixes(),
	)

	return &Server{
		infra:   infra,
		modules: modules,
		router:  router,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
		failed:  make(chan error, 1),
	}, nil
}

// Logger returns the process logger.
func (s *Server) Logger() *slog.Logger {
	return s.infra.Logger
}

// Failed delivers the startup error if any startup hook fails.
func (s *Server) Failed() <-chan error {
	return s.failed
}

// Start registers every system with the lifecycle and begins listening.
// Readiness is reported once all startup hooks finish.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.modules.API.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		if err := s.infra.Lifecycle.WaitForStartup(); err != nil {
			s.failed <- err
			return
		}
		s.infra.Logger.Info("all subsystems ready")
	}()

	return nil
}

// Shutdown cancels the lifecycle and waits up to timeout for every
// shutdown hook.
func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}

// Close releases the log file, if any.
func (s *Server) Close() error {
	return s.infra.Close()
}
