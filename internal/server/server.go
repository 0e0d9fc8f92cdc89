// Package server implements the reel HTTP backend: script, voice,
// thumbnail, stock footage, and metadata generation endpoints plus the
// background video assembly job machinery.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jackzampolin/reel/internal/assembly"
	"github.com/jackzampolin/reel/internal/config"
	"github.com/jackzampolin/reel/internal/home"
	"github.com/jackzampolin/reel/internal/providers"
)

// Server is the reel backend HTTP server. It owns the provider registry,
// the content directory, and the status store for background assembly jobs.
type Server struct {
	httpServer *http.Server
	home       *home.Dir
	registry   *providers.Registry
	store      *assembly.StatusStore
	ffmpeg     *assembly.FFmpeg
	configMgr  *config.Manager
	logger     *slog.Logger

	clipCount     int
	renderTimeout time.Duration

	// baseCtx parents assembly jobs so shutdown can stop them.
	baseCtx    context.Context
	baseCancel context.CancelFunc
	jobs       sync.WaitGroup

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8001)
	Port string
	// Home is the content directory. Required.
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Home == nil {
		return nil, errors.New("home directory is required")
	}
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8001"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	registry := providers.NewRegistry()
	registry.SetLogger(cfg.Logger)

	asmCfg := config.DefaultConfig().Assembly
	if cfg.ConfigManager != nil {
		c := cfg.ConfigManager.Get()
		asmCfg = c.Assembly
		registry.Reload(c.ToProviderRegistryConfig())

		cfg.ConfigManager.OnChange(func(c *config.Config) {
			registry.Reload(c.ToProviderRegistryConfig())
			cfg.Logger.Info("provider registry reloaded from config")
		})
	}

	s := &Server{
		home:          cfg.Home,
		registry:      registry,
		store:         assembly.NewStatusStore(cfg.Home, cfg.Logger),
		ffmpeg:        assembly.NewFFmpeg(asmCfg.FFmpegPath, asmCfg.FFprobePath),
		configMgr:     cfg.ConfigManager,
		logger:        cfg.Logger,
		clipCount:     asmCfg.StockClipCount,
		renderTimeout: time.Duration(asmCfg.RenderTimeoutSeconds) * time.Second,
	}

	s.baseCtx, s.baseCancel = context.WithCancel(context.Background())

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: mux,
		// Generation endpoints call slow upstream providers; the write
		// timeout has to cover a full script or voice request.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 6 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs. Stale status files from previous runs are cleared so old
// jobs cannot masquerade as live ones.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	if err := s.home.EnsureExists(); err != nil {
		s.setNotRunning()
		return fmt.Errorf("failed to create content directories: %w", err)
	}

	s.store.ClearAll()

	if err := s.ffmpeg.CheckAvailable(); err != nil {
		s.logger.Warn("ffmpeg not available, video assembly will fail", "error", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown of the HTTP server and waits for
// in-flight assembly jobs.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	// Stop background jobs and wait for them to write their final status.
	s.baseCancel()
	done := make(chan struct{})
	go func() {
		s.jobs.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		s.logger.Warn("assembly jobs did not stop before shutdown deadline")
	}

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Registry returns the provider registry.
func (s *Server) Registry() *providers.Registry {
	return s.registry
}

// StatusStore returns the assembly job status store.
func (s *Server) StatusStore() *assembly.StatusStore {
	return s.store
}

// Handler returns the HTTP handler (tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
