package ws

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/picfeed/realtime/internal/core"
	"github.com/picfeed/realtime/internal/domain"
)

// inbound applies the per-kind policy for frames sent by a connected
// client. Comment viewers do not publish over the socket; DM peers
// relay to the whole conversation; notification clients speak a small
// subscribe protocol.
func (ctl *Controller) inbound(room *core.Room, conn *Conn, data core.Frame) {
	switch room.Kind() {
	case domain.KindDM:
		room.Broadcast(data)
	case domain.KindNotifications:
		ctl.notificationInbound(conn, data)
	default:
		log.Debug().Str("module", "adapters.ws").Str("kind", string(room.Kind())).Str("sid", string(conn.ID())).Msg("ignoring inbound frame")
	}
}

func (ctl *Controller) notificationInbound(conn *Conn, data core.Frame) {
	var msg struct {
		Type  string `json:"type"`
		Topic string `json:"topic"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Str("sid", string(conn.ID())).Msg("failed to parse message")
		_ = conn.TrySend(core.Frame("Error: Invalid message format."))
		return
	}

	if msg.Type == "subscribe" {
		log.Info().Str("module", "adapters.ws").Str("sid", string(conn.ID())).Str("topic", msg.Topic).Msg("subscribed")
		_ = conn.TrySend(core.Frame("Subscribed to " + msg.Topic))
		return
	}
	log.Info().Str("module", "adapters.ws").Str("sid", string(conn.ID())).Str("type", msg.Type).Msg("received message")
}
