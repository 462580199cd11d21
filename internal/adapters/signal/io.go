package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/cinesync/cinesync/internal/domain"
	"github.com/cinesync/cinesync/pkg/metrics"
)

func (ctl *SignalWSController) writePump(ctx context.Context, c *wsSignalConn) {
	ticker := time.NewTicker(ctl.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Warn().Str("module", "signal").Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, cid domain.ConnID, c *wsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("conn", string(cid)).Msg("readPump closing")
		ctl.finishDisconnect(cid)
		c.Close()
	}()

	// A peer that answers no ping within pongWait is dead; the expired
	// deadline errors the next read and tears the session down.
	pongWait := ctl.pingPeriod * 10 / 9
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "signal").Str("conn", string(cid)).Msg("readPump ctx done")
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(cid)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(cid, c, data)
		}
	}
}

func (ctl *SignalWSController) handleEvent(cid domain.ConnID, c *wsSignalConn, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "join-room":
		metrics.EventsRelayed.WithLabelValues(env.Type).Inc()
		ctl.handleJoin(cid, c, data)
	case "play", "pause", "seek":
		metrics.EventsRelayed.WithLabelValues(env.Type).Inc()
		ctl.handlePlayback(cid, c, env.Type, data)
	case "chat-message":
		metrics.EventsRelayed.WithLabelValues(env.Type).Inc()
		ctl.handleChat(cid, c, data)
	case "signal":
		metrics.EventsRelayed.WithLabelValues(env.Type).Inc()
		ctl.handleForward(cid, c, data)
	case "ping":
		ctl.handlePing(c)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

// finishDisconnect runs exactly once per connection termination, graceful
// or abrupt. Rooms the connection hosted lose their table entry; every
// room it had joined gets a fresh participant count.
func (ctl *SignalWSController) finishDisconnect(cid domain.ConnID) {
	ctl.Relay.Registry.Cancel(cid)
	counts := ctl.Relay.Disconnect(cid)
	for _, rc := range counts {
		ctl.broadcastRoom(rc.Room, participantsEvent{Type: "participants", Count: rc.Count})
	}
	ctl.Joins.Forget(cid)
	metrics.ActiveConnections.Dec()
	metrics.HostedRooms.Set(float64(ctl.Relay.Rooms.Len()))
}
