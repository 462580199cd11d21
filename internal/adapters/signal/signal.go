package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/cinesync/cinesync/internal/app"
	"github.com/cinesync/cinesync/internal/config"
	"github.com/cinesync/cinesync/internal/core"
	"github.com/cinesync/cinesync/internal/domain"
	"github.com/cinesync/cinesync/pkg/metrics"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Relay *app.Relay
	Joins *JoinRateLimiter

	readLimit  int64
	pingPeriod time.Duration
}

func NewSignalWSController(relay *app.Relay, cfg *config.Config) *SignalWSController {
	if cfg.PingPeriod <= 0 {
		cfg.PingPeriod = 54 * time.Second
	}
	return &SignalWSController{
		Relay:      relay,
		Joins:      NewJoinRateLimiter(cfg.JoinLimit, cfg.JoinInterval),
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
	}
}

type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// broadcastRoom fans out to every current member, sender included.
func (ctl *SignalWSController) broadcastRoom(room domain.RoomID, v any) {
	for _, m := range ctl.Relay.Registry.MembersOf(room) {
		ctl.sendJSON(m.Session.Signal(), v)
	}
}

// broadcastFrom fans out to every current member except the originator.
func (ctl *SignalWSController) broadcastFrom(cid domain.ConnID, room domain.RoomID, v any) {
	for _, m := range ctl.Relay.Registry.MembersOf(room) {
		if m.ID == cid {
			continue
		}
		ctl.sendJSON(m.Session.Signal(), v)
	}
}

func (ctl *SignalWSController) sendJSON(c core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func (ctl *SignalWSController) sendError(c core.SignalConnection, msg string) {
	ctl.sendJSON(c, errorEvent{Type: "error", Error: msg})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	// One live socket, one identifier. The ct cookie survives refreshes
	// and second tabs, so it cannot double as the session ID.
	cid := domain.ConnID(uuid.NewString())
	log.Info().Str("module", "signal").Str("conn", string(cid)).Str("client", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.readLimit > 0 {
		ws.SetReadLimit(ctl.readLimit)
	}

	conn := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, 32),
	}

	user := domain.NewUser(cid, "")
	sess := core.NewMemberSession(domain.NewMember(user), conn)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Relay.Registry.BindSignal(cid, sess, cancel)
	metrics.ActiveConnections.Inc()

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cid, conn)
}
