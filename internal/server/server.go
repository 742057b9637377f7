package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/username/timesheet-gen/pkg/dateutil"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// Server runs the HTTP API until a signal arrives or Stop is called.
// While running it periodically warms the holiday sources for the current and next month.
type Server struct {
	handler      *Handler
	httpServer   *http.Server
	warmInterval time.Duration // 0 disables warming
	logger       *zap.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	mu           sync.Mutex
}

// NewServer creates a server listening on addr
func NewServer(addr string, handler *Handler, allowedOrigins []string, warmInterval time.Duration, logger *zap.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		handler: handler,
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      NewRouter(handler, allowedOrigins, logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		warmInterval: warmInterval,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start serves until SIGINT/SIGTERM or Stop, then shuts down gracefully
func (s *Server) Start() error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var tick <-chan time.Time
	if s.warmInterval > 0 {
		go s.warmHolidays()
		ticker := time.NewTicker(s.warmInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Server stopped")
			return s.shutdown()

		case sig := <-sigChan:
			s.logger.Info("Received signal, shutting down",
				zap.String("signal", sig.String()))
			s.Stop()

		case err := <-errCh:
			s.Stop()
			return fmt.Errorf("server failed: %w", err)

		case <-tick:
			go s.warmHolidays()
		}
	}
}

// Stop stops the server
func (s *Server) Stop() {
	s.cancel()
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// warmHolidays loads the current and next month so the first requests hit warm caches.
// Overlapping runs are skipped.
func (s *Server) warmHolidays() {
	if !s.mu.TryLock() {
		s.logger.Debug("Holiday warm-up already running, skipping")
		return
	}
	defer s.mu.Unlock()

	now := time.Now().In(s.handler.builder.Location())
	year, month := now.Year(), now.Month()

	for i := 0; i < 2; i++ {
		y, m := dateutil.AddMonths(year, month, i)
		set := s.handler.holidays.Collect(s.ctx, y, m)
		s.logger.Debug("Holidays warmed",
			zap.Int("year", y),
			zap.Int("month", int(m)),
			zap.Int("holidays", set.Len()))
	}
}
