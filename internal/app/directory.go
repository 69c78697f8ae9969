package app

import (
	"sync"

	"github.com/picfeed/realtime/internal/core"
	"github.com/picfeed/realtime/internal/domain"
	"github.com/rs/zerolog/log"
)

// Directory maps (kind, key) to the single authoritative room instance.
// This is the only synchronization point between rooms: creation of a
// key is serialized here, everything after goes through the room itself.
type Directory struct {
	mu    sync.RWMutex
	rooms map[domain.Kind]map[domain.TopicKey]*core.Room
}

func NewDirectory() *Directory {
	return &Directory{
		rooms: map[domain.Kind]map[domain.TopicKey]*core.Room{
			domain.KindComments:      {},
			domain.KindDM:            {},
			domain.KindNotifications: {},
		},
	}
}

// Resolve returns the room for (kind, key), creating it on first
// reference. Concurrent first-touch callers all get the same instance.
func (d *Directory) Resolve(kind domain.Kind, key domain.TopicKey) *core.Room {
	d.mu.RLock()
	room, ok := d.rooms[kind][key]
	d.mu.RUnlock()
	if ok {
		return room
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if room, ok = d.rooms[kind][key]; ok {
		return room
	}
	room = core.NewRoom(kind, key)
	d.rooms[kind][key] = room
	log.Info().Str("module", "app.directory").Str("kind", string(kind)).Str("key", string(key)).Msg("room created")
	return room
}

// Evict drops an idle room. The room is retired under the directory
// lock, so a session joining concurrently observes the retirement and
// re-resolves; a room with live sessions stays. Eviction is an
// optimization only: a recreated room is an empty room, which callers
// cannot tell apart from a reactivated one.
func (d *Directory) Evict(room *core.Room) {
	d.mu.Lock()
	defer d.mu.Unlock()
	cur, ok := d.rooms[room.Kind()][room.Key()]
	if !ok || cur != room {
		return
	}
	if !room.Retire() {
		return
	}
	delete(d.rooms[room.Kind()], room.Key())
	log.Info().Str("module", "app.directory").Str("kind", string(room.Kind())).Str("key", string(room.Key())).Msg("room evicted")
}

// DomainStats is a read-only snapshot for the stats endpoint.
type DomainStats struct {
	Kind     domain.Kind `json:"kind"`
	Rooms    int         `json:"rooms"`
	Sessions int         `json:"sessions"`
}

func (d *Directory) Stats() []DomainStats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]DomainStats, 0, len(d.rooms))
	for _, kind := range []domain.Kind{domain.KindComments, domain.KindDM, domain.KindNotifications} {
		st := DomainStats{Kind: kind, Rooms: len(d.rooms[kind])}
		for _, room := range d.rooms[kind] {
			st.Sessions += room.SessionCount()
		}
		out = append(out, st)
	}
	return out
}
