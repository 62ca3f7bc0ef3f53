package server

import (
	"blackhole/gamemaster"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const wsIdlePingInterval = 30 * time.Second

type wsMessage struct {
	Type   string             `json:"type"` // "status" or "ping"
	Status *gamemaster.Status `json:"status,omitempty"`
}

// handleWS streams the game status after every change.
func (sc *ServerCommunicator) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := sc.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates, stop := sc.game.Subscribe()
	defer stop()

	status, err := sc.game.Status(r.Context())
	if err != nil {
		return
	}
	if err := conn.WriteJSON(wsMessage{Type: "status", Status: &status}); err != nil {
		return
	}

	// Client messages are ignored; reading notices when the peer goes away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeWSWithHeartbeat(conn, updates, done); err != nil {
		log.Debug().Err(err).Msg("websocket closed")
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, updates <-chan gamemaster.Status, done <-chan struct{}) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()

	for {
		select {
		case <-done:
			return nil
		case status, ok := <-updates:
			if !ok {
				return nil
			}
			if err := conn.WriteJSON(wsMessage{Type: "status", Status: &status}); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteJSON(wsMessage{Type: "ping"}); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
