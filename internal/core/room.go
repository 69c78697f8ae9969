package core

import (
	"github.com/picfeed/realtime/internal/domain"
	"github.com/rs/zerolog/log"
)

// Room owns the live session set for one (kind, key) pair. At most one
// room instance is authoritative for a pair at any time; the directory
// enforces that, the room only guards its own registry.
type Room struct {
	kind     domain.Kind
	key      domain.TopicKey
	registry *Registry
}

func NewRoom(kind domain.Kind, key domain.TopicKey) *Room {
	return &Room{kind: kind, key: key, registry: NewRegistry()}
}

func (r *Room) Kind() domain.Kind    { return r.kind }
func (r *Room) Key() domain.TopicKey { return r.key }

// Join registers a session. Returns false when the room was retired
// between resolve and join; the caller re-resolves and joins the
// successor instance.
func (r *Room) Join(s Session) bool {
	if !r.registry.Add(s) {
		return false
	}
	log.Info().Str("module", "core.room").Str("kind", string(r.kind)).Str("key", string(r.key)).Str("sid", string(s.ID())).Msg("session joined")
	return true
}

// Leave is idempotent; a session may be removed by its read pump and
// by a failed broadcast send without conflict.
func (r *Room) Leave(id SessionID) {
	r.registry.Remove(id)
	log.Info().Str("module", "core.room").Str("kind", string(r.kind)).Str("key", string(r.key)).Str("sid", string(id)).Msg("session left")
}

// Broadcast fans data out to every current session. Zero subscribers
// is success: the payload is already durably stored upstream and
// real-time delivery is best-effort.
func (r *Room) Broadcast(data Frame) PublishResult {
	res := r.registry.Broadcast(data)
	log.Debug().Str("module", "core.room").Str("kind", string(r.kind)).Str("key", string(r.key)).Int("sent_to", res.SentTo).Int("dropped", res.Dropped).Msg("broadcast result")
	return res
}

func (r *Room) SessionCount() int { return r.registry.Len() }

// Retire marks an empty room dead for eviction. See Registry.Retire.
func (r *Room) Retire() bool { return r.registry.Retire() }
