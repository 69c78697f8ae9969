// Package domain contains entity without logic, just meta-data
package domain

// Kind is one broadcast domain. Topic keys are never shared across
// kinds; each kind has its own directory of rooms.
type Kind string

const (
	// KindComments fans out new comments to viewers of one post.
	KindComments Kind = "comments"
	// KindDM fans out messages to participants of one conversation.
	KindDM Kind = "dm"
	// KindNotifications fans out notifications to one user's devices.
	KindNotifications Kind = "notifications"
)

// ParseKind maps a URL path segment to a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(s) {
	case KindComments, KindDM, KindNotifications:
		return Kind(s), true
	}
	return "", false
}

// Confirmation is the body returned to a publisher after fan-out.
func (k Kind) Confirmation() string {
	if k == KindDM {
		return "Message broadcasted"
	}
	return "Broadcasted"
}

// TopicKey identifies one room within a kind: a post id for comments,
// a conversation id for DMs, a user id for notifications. Opaque here.
type TopicKey string

// Identity is the resolved caller, when the route layer resolved one.
// Routing never depends on it; it exists for logging and audit.
type Identity struct {
	UserID   string `json:"id"`
	Username string `json:"username"`
}
