package gateway

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muhammadchandra19/marketsim/pkg/errors"
	"github.com/muhammadchandra19/marketsim/pkg/logger"
)

const (
	wsWriteWait  = 5 * time.Second
	wsPongWait   = 30 * time.Second
	wsPingPeriod = 20 * time.Second
)

// handleWSMarket upgrades the connection and streams market snapshots at
// the configured interval until the client disconnects or falls behind.
func (s *Server) handleWSMarket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.ErrorContext(r.Context(), errors.NewTracer("websocket upgrade failed").Wrap(err))
		return
	}
	go s.streamMarket(conn)
}

func (s *Server) streamMarket(conn *websocket.Conn) {
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	// The read pump exists only to surface pongs and closes.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	snapshotTicker := time.NewTicker(s.cfg.StreamInterval)
	defer snapshotTicker.Stop()
	pingTicker := time.NewTicker(wsPingPeriod)
	defer pingTicker.Stop()

	for {
		select {
		case <-done:
			return
		case <-snapshotTicker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(s.world.Snapshot(defaultSnapshotTrades)); err != nil {
				// Slow or gone; drop the client.
				s.logger.Debug("dropping market stream client",
					logger.NewField("error", err.Error()))
				return
			}
		case <-pingTicker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
