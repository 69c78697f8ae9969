package http

import (
	"context"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/picfeed/realtime/internal/adapters/ws"
	"github.com/picfeed/realtime/internal/app"
	"github.com/picfeed/realtime/internal/config"
	"github.com/picfeed/realtime/internal/domain"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware tags every caller with a stable opaque token.
// The connect rate limiter keys on it; routing never does.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, dir *app.Directory) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("RealtimeSessions", store))
	r.Use(ClientTokenMiddleware())

	limiter := app.NewConnectLimiter(cfg.ConnectLimit, cfg.ConnectWindow)
	ctl := ws.NewController(dir, limiter, cfg)

	r.GET("/", handleIndex)
	r.GET("/stats", handleStats(dir))

	wsRoutes := r.Group("/ws")
	wsRoutes.Use(IdentityMiddleware(cfg.Secret, cfg.RequireAuth))
	wsRoutes.GET("/:domain/:key", func(c *gin.Context) {
		kind, ok := domain.ParseKind(c.Param("domain"))
		if !ok {
			c.String(404, "Not found")
			return
		}
		ctl.HandleConnect(ctx, kind, c)
	})

	// Intra-system publish path: the write-path collaborator POSTs the
	// already-stored row here after its insert succeeds.
	r.POST("/rooms/:domain/:key/broadcast", handleBroadcast(dir))

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
