package overlay

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const streamWriteTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all connections.
		return true
	},
}

// handleLive upgrades the request and streams summary snapshots until the
// client disconnects or the server shuts down. The handler goroutine holds
// the session.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("live stream opened")
	s.streamSummary(conn)
	s.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("live stream closed")
}

func (s *Server) streamSummary(conn *websocket.Conn) {
	defer conn.Close()

	// The client is not expected to send data, but close frames only get
	// processed while a read is pending.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// First snapshot immediately, then one per interval.
	if !s.pushSummary(conn) {
		return
	}

	ticker := time.NewTicker(s.cfg.StreamInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.baseCtx.Done():
			deadline := time.Now().Add(streamWriteTimeout)
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, deadline)
			return
		case <-clientGone:
			return
		case <-ticker.C:
			if !s.pushSummary(conn) {
				return
			}
		}
	}
}

func (s *Server) pushSummary(conn *websocket.Conn) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := conn.WriteJSON(s.sampler.Summary()); err != nil {
		s.log.Debug().Err(err).Msg("live stream write failed")
		return false
	}
	return true
}
