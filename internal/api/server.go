package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/hearthbridge/hearth/internal/entity"
	"github.com/hearthbridge/hearth/internal/infrastructure/config"
	"github.com/hearthbridge/hearth/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is how long Close waits for in-flight requests.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required to construct a Server.
type Deps struct {
	Config   config.APIConfig
	WS       config.WebSocketConfig
	Logger   *logging.Logger
	Registry *entity.Registry
	History  entity.StateHistoryRepository // optional; history endpoint returns 503 when nil
	Hub      *Hub                          // optional; /ws returns 503 when nil
	Version  string
}

// Server is the HTTP API server. It exposes the entity registry and
// state history read-only, plus a WebSocket endpoint for live events.
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	logger   *logging.Logger
	registry *entity.Registry
	history  entity.StateHistoryRepository
	hub      *Hub
	version  string

	httpServer *http.Server
	cancel     context.CancelFunc
}

// New creates a Server from its dependencies.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, errors.New("api: logger is required")
	}
	if deps.Registry == nil {
		return nil, errors.New("api: entity registry is required")
	}

	return &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		logger:   deps.Logger,
		registry: deps.Registry,
		history:  deps.History,
		hub:      deps.Hub,
		version:  deps.Version,
	}, nil
}

// Start begins serving HTTP requests. It returns once the listener
// goroutine is running; serve errors are logged, not returned.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if s.hub != nil {
		go s.hub.Run(ctx)
	}

	router := s.buildRouter()

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("starting HTTPS server", "addr", addr)
			err = s.httpServer.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("starting HTTP server", "addr", addr)
			err = s.httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server, allowing in-flight requests
// to complete.
func (s *Server) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	return nil
}

// HealthCheck reports whether the server is able to serve requests.
func (s *Server) HealthCheck(_ context.Context) error {
	if s.httpServer == nil {
		return errors.New("api: server not started")
	}
	return nil
}
