// Package gateway serves the live market over HTTP and WebSocket: JSON
// snapshots, the mid series, book depth, and manual order entry.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muhammadchandra19/marketsim/internal/app/live"
	"github.com/muhammadchandra19/marketsim/pkg/errors"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
)

const defaultStreamInterval = 500 * time.Millisecond

// Config holds the gateway knobs.
type Config struct {
	Port int

	// StreamInterval paces the WebSocket snapshot stream.
	StreamInterval time.Duration
}

// Server exposes one live world over HTTP.
type Server struct {
	cfg    Config
	logger logger.Interface
	world  *live.LiveWorld

	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// NewServer creates the gateway around a live world.
func NewServer(cfg Config, world *live.LiveWorld, log logger.Interface) *Server {
	if cfg.StreamInterval <= 0 {
		cfg.StreamInterval = defaultStreamInterval
	}
	s := &Server{
		cfg:    cfg,
		logger: log,
		world:  world,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.Handler(),
	}
	return s
}

// Handler builds the routed handler with request-id and logging middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/mid_series", s.handleMidSeries)
	mux.HandleFunc("/api/book", s.handleBook)
	mux.HandleFunc("/api/order", s.handleOrder)
	mux.HandleFunc("/api/cancel", s.handleCancel)
	mux.HandleFunc("/api/modify", s.handleModify)
	mux.HandleFunc("/ws/market", s.handleWSMarket)

	return s.withRequestID(s.withRequestLogging(mux))
}

// ListenAndServe blocks serving HTTP until Shutdown or a listener failure.
func (s *Server) ListenAndServe() error {
	s.logger.Info("gateway listening", logger.NewField("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.NewTracer("gateway listener failed").Wrap(err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
