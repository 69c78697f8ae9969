package core

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSession struct {
	id       SessionID
	mu       sync.Mutex
	received []Frame
	sendErr  error
	closed   bool
}

func (m *mockSession) ID() SessionID { return m.id }

func (m *mockSession) TrySend(f Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.received = append(m.received, f)
	return nil
}

func (m *mockSession) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *mockSession) got() []Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Frame(nil), m.received...)
}

func TestRegistry_BroadcastReachesAllSessions(t *testing.T) {
	r := NewRegistry()
	a := &mockSession{id: "a"}
	b := &mockSession{id: "b"}
	c := &mockSession{id: "c"}
	require.True(t, r.Add(a))
	require.True(t, r.Add(b))
	require.True(t, r.Add(c))

	res := r.Broadcast(Frame(`{"id":"c1","text":"hi"}`))

	assert.Equal(t, 3, res.SentTo)
	assert.Equal(t, 0, res.Dropped)
	for _, s := range []*mockSession{a, b, c} {
		require.Len(t, s.got(), 1)
		assert.Equal(t, Frame(`{"id":"c1","text":"hi"}`), s.got()[0])
	}
}

func TestRegistry_PerSessionOrderMatchesPublishOrder(t *testing.T) {
	r := NewRegistry()
	a := &mockSession{id: "a"}
	require.True(t, r.Add(a))

	r.Broadcast(Frame("m1"))
	r.Broadcast(Frame("m2"))
	r.Broadcast(Frame("m3"))

	require.Equal(t, []Frame{Frame("m1"), Frame("m2"), Frame("m3")}, a.got())
}

func TestRegistry_FailedSendDropsOnlyThatSession(t *testing.T) {
	r := NewRegistry()
	a := &mockSession{id: "a"}
	b := &mockSession{id: "b", sendErr: ErrBackpressure}
	c := &mockSession{id: "c"}
	require.True(t, r.Add(a))
	require.True(t, r.Add(b))
	require.True(t, r.Add(c))

	res := r.Broadcast(Frame("m1"))
	assert.Equal(t, 2, res.SentTo)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 2, r.Len())

	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	assert.True(t, closed, "dropped session must be closed")

	res = r.Broadcast(Frame("m2"))
	assert.Equal(t, 2, res.SentTo)
	assert.Equal(t, 0, res.Dropped)
	assert.Equal(t, []Frame{Frame("m1"), Frame("m2")}, a.got())
	assert.Equal(t, []Frame{Frame("m1"), Frame("m2")}, c.got())
	assert.Empty(t, b.got())
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	a := &mockSession{id: "a"}
	require.True(t, r.Add(a))

	r.Remove("a")
	r.Remove("a")
	r.Remove("never-added")

	assert.Equal(t, 0, r.Len())
	res := r.Broadcast(Frame("m"))
	assert.Equal(t, 0, res.SentTo)
}

func TestRegistry_BroadcastWithNoSessionsSucceeds(t *testing.T) {
	r := NewRegistry()
	res := r.Broadcast(Frame("m"))
	assert.Equal(t, PublishResult{}, res)
}

func TestRegistry_RetireRefusesLiveSessions(t *testing.T) {
	r := NewRegistry()
	a := &mockSession{id: "a"}
	require.True(t, r.Add(a))

	assert.False(t, r.Retire())

	r.Remove("a")
	assert.True(t, r.Retire())
	assert.False(t, r.Add(a), "retired registry must refuse new sessions")
}

func TestRegistry_ConcurrentAddRemoveBroadcast(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		s := &mockSession{id: SessionID(fmt.Sprintf("s-%d", i))}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Add(s)
			r.Broadcast(Frame("m"))
			r.Remove(s.ID())
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, r.Len())
}
