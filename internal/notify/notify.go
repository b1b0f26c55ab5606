// Package notify is the outbound notification port. The server pushes
// through the websocket hub; tests and demo setups use the no-op.
package notify

// Notification is a user-facing notice (schedule reminders, session
// milestones). Kind distinguishes rendering on the client.
type Notification struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Ref   uint   `json:"ref,omitempty"`
}

// Notifier delivers a notification to one user. Implementations must
// be safe for concurrent use and must not block on slow consumers.
type Notifier interface {
	Notify(userID uint, n Notification)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Notify(uint, Notification) {}
