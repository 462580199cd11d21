package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/cinesync/cinesync/internal/domain"
)

// handleForward delivers an opaque signaling blob to a single target
// connection, tagged with the sender's ID so the recipient knows
// provenance. An unknown target is dropped silently; peers negotiating
// directly handle their own timeouts.
func (ctl *SignalWSController) handleForward(cid domain.ConnID, conn *wsSignalConn, data []byte) {
	var p forwardPayload
	if err := decode(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(cid)).Msg("bad signal payload")
		ctl.sendError(conn, "bad_payload")
		return
	}

	target, ok := ctl.Relay.Registry.GetSession(domain.ConnID(p.To))
	if !ok {
		log.Debug().Str("module", "signal").Str("to", p.To).Msg("signal target gone")
		return
	}
	ctl.sendJSON(target.Signal(), forwardEvent{Type: "signal", From: cid, Signal: p.Signal})
}
