package ws

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/picfeed/realtime/internal/app"
	"github.com/picfeed/realtime/internal/config"
	"github.com/picfeed/realtime/internal/core"
	"github.com/picfeed/realtime/internal/domain"
)

type Controller struct {
	dir     *app.Directory
	limiter *app.ConnectLimiter
	cfg     *config.Config
}

func NewController(dir *app.Directory, limiter *app.ConnectLimiter, cfg *config.Config) *Controller {
	return &Controller{dir: dir, limiter: limiter, cfg: cfg}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleConnect upgrades the request and registers the session in
// Room(kind, key). ctx is the server context, not the request context:
// the pumps outlive the handler once the connection is hijacked.
func (ctl *Controller) HandleConnect(ctx context.Context, kind domain.Kind, c *gin.Context) {
	key := domain.TopicKey(c.Param("key"))
	token := c.GetString("client_token")

	if !websocket.IsWebSocketUpgrade(c.Request) {
		c.String(http.StatusUpgradeRequired, "Expected websocket!")
		return
	}
	if ctl.limiter != nil && !ctl.limiter.Allow(token) {
		c.String(http.StatusTooManyRequests, "Too many connection attempts")
		return
	}

	wsc, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("ws upgrade")
		return
	}
	wsc.SetReadLimit(ctl.cfg.ReadLimit)

	conn := NewConn(wsc, ctl.cfg.SendBuffer)
	room := ctl.join(kind, key, conn)
	log.Info().Str("module", "adapters.ws").Str("kind", string(kind)).Str("key", string(key)).Str("sid", string(conn.ID())).Str("ct", token).Msg("new WS connection")

	ctx, cancel := context.WithCancel(ctx)
	go conn.writePump(ctx, ctl.cfg.WriteTimeout, ctl.cfg.PingPeriod)
	go func() {
		defer cancel()
		conn.readPump(ctx, func(data core.Frame) {
			ctl.inbound(room, conn, data)
		})
		room.Leave(conn.ID())
		ctl.dir.Evict(room)
		conn.Close()
	}()
}

// join retries when the resolved room was evicted between resolve and
// join, so the session always lands in the authoritative instance.
func (ctl *Controller) join(kind domain.Kind, key domain.TopicKey, conn *Conn) *core.Room {
	for {
		room := ctl.dir.Resolve(kind, key)
		if room.Join(conn) {
			return room
		}
	}
}
