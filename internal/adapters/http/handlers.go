package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/picfeed/realtime/internal/app"
	"github.com/picfeed/realtime/internal/domain"
)

func handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "realtime fan-out service"})
}

func handleStats(dir *app.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dir.Stats())
	}
}

// handleBroadcast relays a raw body to every session of Room(kind, key).
// Zero subscribers is still success: the row is already durably stored
// upstream, delivery here is best-effort.
func handleBroadcast(dir *app.Directory) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, ok := domain.ParseKind(c.Param("domain"))
		if !ok {
			c.String(http.StatusNotFound, "Not found")
			return
		}
		key := domain.TopicKey(c.Param("key"))

		body, err := c.GetRawData()
		if err != nil {
			c.String(http.StatusBadRequest, "unreadable body")
			return
		}

		res := dir.Resolve(kind, key).Broadcast(body)
		log.Debug().Str("module", "adapters.http").Str("kind", string(kind)).Str("key", string(key)).Int("sent_to", res.SentTo).Msg("publish")
		c.String(http.StatusOK, kind.Confirmation())
	}
}
