package service

// Event types carried over the websocket hub.
const (
	EventChatMessage      = "chat.message"
	EventSystemMessage    = "chat.system"
	EventMemberJoined     = "group.member_joined"
	EventMemberLeft       = "group.member_left"
	EventMemberRemoved    = "group.member_removed"
	EventJoinRequested    = "group.join_requested"
	EventRequestApproved  = "group.request_approved"
	EventRequestRejected  = "group.request_rejected"
	EventAdminChanged     = "group.admin_changed"
	EventSessionStarted   = "session.started"
	EventSessionStopped   = "session.stopped"
	EventSessionCompleted = "session.completed"
	EventPresenceChanged  = "presence.changed"
	EventFriendRequested  = "friend.requested"
	EventFriendAccepted   = "friend.accepted"
)

// Delivery priorities for the offline event queue; higher flushes first.
const (
	PriorityChat   = 0
	PrioritySystem = 1
)

// EventPublisher fans an event out to a set of users. Implemented by
// the websocket hub; a nil publisher disables push entirely, so every
// call site guards against it.
type EventPublisher interface {
	PublishToUsers(userIDs []uint, eventType string, payload interface{}, priority int)
}
