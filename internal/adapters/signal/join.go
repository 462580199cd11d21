package signal

import (
	"github.com/rs/zerolog/log"

	"github.com/cinesync/cinesync/internal/domain"
	"github.com/cinesync/cinesync/pkg/metrics"
)

func (ctl *SignalWSController) handleJoin(cid domain.ConnID, conn *wsSignalConn, data []byte) {
	var p joinPayload
	if err := decode(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("conn", string(cid)).Msg("bad join payload")
		ctl.sendError(conn, "bad_payload")
		return
	}
	if !ctl.Joins.Allow(cid) {
		log.Warn().Str("module", "signal").Str("conn", string(cid)).Msg("join rate limited")
		ctl.sendError(conn, "too_many_joins")
		return
	}

	username := p.Username
	if sess, ok := ctl.Relay.Registry.GetSession(cid); ok {
		meta := sess.Meta()
		if err := meta.User.SetUsername(p.Username); err != nil {
			log.Warn().Err(err).Str("module", "signal").Str("conn", string(cid)).Msg("username rejected")
		}
		meta.Host = p.IsHost
		username = meta.User.Username
	}

	room := domain.RoomID(p.RoomID)
	res, ok := ctl.Relay.Join(cid, room, p.IsHost)
	if !ok {
		return
	}
	metrics.HostedRooms.Set(float64(ctl.Relay.Rooms.Len()))
	log.Info().Str("module", "signal").Str("conn", string(cid)).Str("room", p.RoomID).Bool("host", p.IsHost).Msg("join")

	// Fresh count to the whole room, joiner included.
	ctl.broadcastRoom(room, participantsEvent{Type: "participants", Count: res.Count})

	// Ack and current-member listing go to the joiner only.
	ctl.sendJSON(conn, roomJoinedEvent{Type: "room-joined", RoomID: p.RoomID, IsHost: p.IsHost})
	ctl.sendJSON(conn, allUsersEvent{Type: "all-users", Users: res.Others})

	// Everyone already present learns who just arrived.
	ctl.broadcastFrom(cid, room, userJoinedEvent{Type: "user-joined", UserID: cid, Username: username})
}
