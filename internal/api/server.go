package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/placegrid/placement-core/internal/infrastructure/config"
	"github.com/placegrid/placement-core/internal/infrastructure/logging"
	"github.com/placegrid/placement-core/internal/infrastructure/metrics"
	"github.com/placegrid/placement-core/internal/infrastructure/mqtt"
	"github.com/placegrid/placement-core/internal/profile"
)

// shutdownGrace is how long Close waits for in-flight resolve and
// profile requests before dropping connections.
const shutdownGrace = 10 * time.Second

// Deps collects what the API server needs. Logger and Registry are
// mandatory; MQTT and Metrics may be nil, in which case profile events
// and resolution timings are simply not emitted.
type Deps struct {
	Config   config.APIConfig
	Logger   *logging.Logger
	Registry *profile.Registry
	MQTT     *mqtt.Client
	Metrics  *metrics.Client
	Version  string
}

// Server serves the placement REST API: stateless spec operations under
// /api/v1/specs and the profile registry under /api/v1/profiles.
type Server struct {
	cfg      config.APIConfig
	logger   *logging.Logger
	registry *profile.Registry
	mqtt     *mqtt.Client
	metrics  *metrics.Client
	version  string
	started  time.Time
	server   *http.Server
}

// New wires the server. It does not listen; call Start for that.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Registry == nil {
		return nil, fmt.Errorf("profile registry is required")
	}

	return &Server{
		cfg:      deps.Config,
		logger:   deps.Logger,
		registry: deps.Registry,
		mqtt:     deps.MQTT,
		metrics:  deps.Metrics,
		version:  deps.Version,
	}, nil
}

// Start builds the router and launches the listener in the background.
// Startup failures (port in use and the like) surface through the log;
// the caller's health check catches a listener that never came up.
func (s *Server) Start(_ context.Context) error {
	s.started = time.Now()
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go s.serve()
	return nil
}

func (s *Server) serve() {
	var err error
	if s.cfg.TLS.Enabled {
		s.logger.Info("API listening with TLS",
			"address", s.server.Addr,
			"cert", s.cfg.TLS.CertFile,
		)
		err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
	} else {
		s.logger.Info("API listening", "address", s.server.Addr)
		err = s.server.ListenAndServe()
	}

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("API listener failed", "error", err)
	}
}

// Close drains in-flight requests within the grace period, then shuts
// the listener down.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	s.logger.Info("API shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck reports whether the listener has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}
	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
