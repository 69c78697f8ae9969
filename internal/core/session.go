package core

import "errors"

// Frame is a raw payload relayed as-is. The core never inspects it;
// three kinds with different payload shapes route through the same
// fan-out and the contract stays opaque bytes.
type Frame []byte

type SessionID string

var (
	ErrBackpressure  = errors.New("backpressure")
	ErrSessionClosed = errors.New("session closed")
)

// Session is one connected peer's transport endpoint inside a room.
// Owned by the adapter; the adapter must Close() it. TrySend must not
// block: a full peer is an error, not a wait.
type Session interface {
	ID() SessionID
	TrySend(Frame) error
	Close()
}

// PublishResult reports delivery stats to the caller.
type PublishResult struct {
	SentTo  int
	Dropped int
}
