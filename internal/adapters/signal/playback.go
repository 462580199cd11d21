package signal

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cinesync/cinesync/internal/domain"
)

// handlePlayback relays play/pause/seek to the room minus the sender.
// The relay keeps no playback state; the host's client is the authority.
func (ctl *SignalWSController) handlePlayback(cid domain.ConnID, conn *wsSignalConn, kind string, data []byte) {
	var p playbackPayload
	if err := decode(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("type", kind).Msg("bad playback payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.broadcastFrom(cid, domain.RoomID(p.RoomID), playbackEvent{Type: kind, CurrentTime: p.CurrentTime})
}

// handleChat relays chat to the whole room, sender included, with a
// server-stamped send time. Caller-supplied timestamps are discarded.
func (ctl *SignalWSController) handleChat(cid domain.ConnID, conn *wsSignalConn, data []byte) {
	var p chatPayload
	if err := decode(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad chat payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	ctl.broadcastRoom(domain.RoomID(p.RoomID), chatEvent{
		Type:      "chat-message",
		Author:    p.Author,
		Message:   p.Message,
		Timestamp: time.Now().UnixMilli(),
	})
}
