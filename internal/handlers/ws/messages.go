package ws

// Client-to-server message types for the study group feed.

// MessageChat posts a text message to a group feed
type MessageChat struct {
	GroupID  uint   `json:"group_id"`
	ClientID string `json:"client_id"`
	Content  string `json:"content"`
}

func (msg *MessageChat) GetType() string {
	return "chat"
}

func (msg *MessageChat) Process(ctx *MessageContext) error {
	created, err := ctx.Messages.PostGroupMessage(msg.GroupID, ctx.UserID, msg.ClientID, msg.Content)
	if err != nil {
		return SendError(ctx.Conn, "chat_failed", err.Error(), "")
	}
	// ack back to the sender with the assigned ID
	return ctx.Conn.WriteJSON(map[string]interface{}{
		"type":       "chat_ack",
		"client_id":  msg.ClientID,
		"message_id": created.ID,
	})
}

// MessageDirect sends a private message to a friend
type MessageDirect struct {
	RecipientID uint   `json:"recipient_id"`
	ClientID    string `json:"client_id"`
	Content     string `json:"content"`
}

func (msg *MessageDirect) GetType() string {
	return "direct"
}

func (msg *MessageDirect) Process(ctx *MessageContext) error {
	created, err := ctx.Messages.SendDirectMessage(ctx.UserID, msg.RecipientID, msg.ClientID, msg.Content)
	if err != nil {
		return SendError(ctx.Conn, "direct_failed", err.Error(), "")
	}
	return ctx.Conn.WriteJSON(map[string]interface{}{
		"type":       "chat_ack",
		"client_id":  msg.ClientID,
		"message_id": created.ID,
	})
}

// MessageTyping signals that the user is typing in a group. Ephemeral:
// forwarded to whoever is online, never queued.
type MessageTyping struct {
	GroupID uint `json:"group_id"`
}

func (msg *MessageTyping) GetType() string {
	return "typing"
}

func (msg *MessageTyping) Process(ctx *MessageContext) error {
	ctx.Hub.Broadcast(map[string]interface{}{
		"type":     "typing",
		"group_id": msg.GroupID,
		"user_id":  ctx.UserID,
	})
	return nil
}

// MessageGroupRead advances the reader's high-water mark in a group
type MessageGroupRead struct {
	GroupID           uint `json:"group_id"`
	LastReadMessageID uint `json:"last_read_message_id"`
}

func (msg *MessageGroupRead) GetType() string {
	return "group_read"
}

func (msg *MessageGroupRead) Process(ctx *MessageContext) error {
	if err := ctx.Messages.MarkGroupRead(msg.GroupID, ctx.UserID, msg.LastReadMessageID); err != nil {
		return SendError(ctx.Conn, "read_failed", err.Error(), "")
	}
	return nil
}

// MessageStudying toggles the sender's live studying flag in a group.
// Groupmates learn about it through the presence event the ledger emits.
type MessageStudying struct {
	GroupID  uint `json:"group_id"`
	Studying bool `json:"studying"`
}

func (msg *MessageStudying) GetType() string {
	return "studying"
}

func (msg *MessageStudying) Process(ctx *MessageContext) error {
	if err := ctx.Ledger.SetStudying(msg.GroupID, ctx.UserID, msg.Studying); err != nil {
		return SendError(ctx.Conn, "studying_failed", err.Error(), "")
	}
	return nil
}

// MessageSync requests the feed tail after a reconnect
type MessageSync struct {
	GroupID uint `json:"group_id"`
	SinceID uint `json:"since_id"`
}

func (msg *MessageSync) GetType() string {
	return "sync"
}

func (msg *MessageSync) Process(ctx *MessageContext) error {
	messages, err := ctx.Messages.GetGroupMessagesSince(msg.GroupID, ctx.UserID, msg.SinceID, 0)
	if err != nil {
		return SendError(ctx.Conn, "sync_failed", err.Error(), "")
	}
	return ctx.Conn.WriteJSON(map[string]interface{}{
		"type":     "sync_result",
		"group_id": msg.GroupID,
		"messages": messages,
		"count":    len(messages),
	})
}
