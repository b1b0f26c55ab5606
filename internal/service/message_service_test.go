package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Symmetry7/KIITstudy/internal/models"
)

func TestPostGroupMessage(t *testing.T) {
	env := newTestEnv()
	admin := env.user(t, "Rahul")
	group := env.group(t, admin, CreateGroupInput{})

	msg, err := env.messageService.PostGroupMessage(group.ID, admin.ID, "c-1", "anyone up for DP practice?")
	if err != nil {
		t.Fatalf("PostGroupMessage() error = %v", err)
	}
	if msg.MessageType != models.TextMessage {
		t.Errorf("MessageType = %q, want text", msg.MessageType)
	}
	if msg.SenderID == nil || *msg.SenderID != admin.ID {
		t.Errorf("SenderID = %v, want %d", msg.SenderID, admin.ID)
	}
}

func TestPostGroupMessageValidation(t *testing.T) {
	env := newTestEnv()
	admin := env.user(t, "Rahul")
	group := env.group(t, admin, CreateGroupInput{})

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace only", "  \n "},
		{"over limit", strings.Repeat("a", 4001)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.messageService.PostGroupMessage(group.ID, admin.ID, "", tt.content); !errors.Is(err, ErrValidation) {
				t.Errorf("PostGroupMessage() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestPostGroupMessagePermissions(t *testing.T) {
	env := newTestEnv()
	admin := env.user(t, "Rahul")
	outsider := env.user(t, "Priya")

	open := env.group(t, admin, CreateGroupInput{})
	if _, err := env.messageService.PostGroupMessage(open.ID, outsider.ID, "", "hi"); !errors.Is(err, ErrNotMember) {
		t.Errorf("non-member post error = %v, want ErrNotMember", err)
	}

	chatOff := false
	muted := env.group(t, admin, CreateGroupInput{Name: "Silent study", AllowChat: &chatOff})
	if _, err := env.messageService.PostGroupMessage(muted.ID, admin.ID, "", "hi"); !errors.Is(err, ErrPermission) {
		t.Errorf("chat-disabled post error = %v, want ErrPermission", err)
	}
}

func TestPostGroupMessageDeduplicates(t *testing.T) {
	env := newTestEnv()
	admin := env.user(t, "Rahul")
	group := env.group(t, admin, CreateGroupInput{})

	first, err := env.messageService.PostGroupMessage(group.ID, admin.ID, "retry-1", "first try")
	if err != nil {
		t.Fatalf("PostGroupMessage() error = %v", err)
	}

	// A retried send with the same client ID returns the original.
	second, err := env.messageService.PostGroupMessage(group.ID, admin.ID, "retry-1", "first try")
	if err != nil {
		t.Fatalf("retried PostGroupMessage() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("retry created message %d, want original %d", second.ID, first.ID)
	}

	// The same client ID from another member is a distinct message.
	other := env.user(t, "Priya")
	env.join(t, group.ID, other)
	third, err := env.messageService.PostGroupMessage(group.ID, other.ID, "retry-1", "my own")
	if err != nil {
		t.Fatalf("PostGroupMessage() error = %v", err)
	}
	if third.ID == first.ID {
		t.Error("client IDs deduplicated across senders")
	}
}

func TestGetGroupMessagesOrdering(t *testing.T) {
	env := newTestEnv()
	admin := env.user(t, "Rahul")
	group := env.group(t, admin, CreateGroupInput{})

	for i := 1; i <= 5; i++ {
		if _, err := env.messageService.PostGroupMessage(group.ID, admin.ID, "", fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("PostGroupMessage() error = %v", err)
		}
	}

	msgs, err := env.messageService.GetGroupMessages(group.ID, admin.ID, 0, 20)
	if err != nil {
		t.Fatalf("GetGroupMessages() error = %v", err)
	}
	if len(msgs) != 5 {
		t.Fatalf("got %d messages, want 5", len(msgs))
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].ID <= msgs[i-1].ID {
			t.Fatalf("feed out of order: %d after %d", msgs[i].ID, msgs[i-1].ID)
		}
	}

	outsider := env.user(t, "Priya")
	if _, err := env.messageService.GetGroupMessages(group.ID, outsider.ID, 0, 20); !errors.Is(err, ErrNotMember) {
		t.Errorf("outsider read error = %v, want ErrNotMember", err)
	}
}

func TestGetGroupMessagesKeysetPaging(t *testing.T) {
	env := newTestEnv()
	admin := env.user(t, "Rahul")
	group := env.group(t, admin, CreateGroupInput{})

	var ids []uint
	for i := 1; i <= 6; i++ {
		msg, err := env.messageService.PostGroupMessage(group.ID, admin.ID, "", fmt.Sprintf("message %d", i))
		if err != nil {
			t.Fatalf("PostGroupMessage() error = %v", err)
		}
		ids = append(ids, msg.ID)
	}

	newest, err := env.messageService.GetGroupMessages(group.ID, admin.ID, 0, 3)
	if err != nil {
		t.Fatalf("GetGroupMessages() error = %v", err)
	}
	if len(newest) != 3 || newest[2].ID != ids[5] {
		t.Fatalf("newest page wrong: got %d messages ending at %d", len(newest), newest[len(newest)-1].ID)
	}

	older, err := env.messageService.GetGroupMessages(group.ID, admin.ID, newest[0].ID, 3)
	if err != nil {
		t.Fatalf("older page error = %v", err)
	}
	for _, m := range older {
		if m.ID >= newest[0].ID {
			t.Errorf("older page contains message %d >= cursor %d", m.ID, newest[0].ID)
		}
	}
}

func TestGetGroupMessagesSince(t *testing.T) {
	env := newTestEnv()
	admin := env.user(t, "Rahul")
	group := env.group(t, admin, CreateGroupInput{})

	first, _ := env.messageService.PostGroupMessage(group.ID, admin.ID, "", "before disconnect")
	second, _ := env.messageService.PostGroupMessage(group.ID, admin.ID, "", "while away")

	msgs, err := env.messageService.GetGroupMessagesSince(group.ID, admin.ID, first.ID, 100)
	if err != nil {
		t.Fatalf("GetGroupMessagesSince() error = %v", err)
	}
	if len(msgs) != 1 || msgs[0].ID != second.ID {
		t.Errorf("catch-up returned %d messages, want exactly the one after %d", len(msgs), first.ID)
	}
}

func TestMarkGroupReadMonotonic(t *testing.T) {
	env := newTestEnv()
	admin := env.user(t, "Rahul")
	group := env.group(t, admin, CreateGroupInput{})

	if err := env.messageService.MarkGroupRead(group.ID, admin.ID, 10); err != nil {
		t.Fatalf("MarkGroupRead() error = %v", err)
	}
	// A stale client reporting an older position must not move it back.
	if err := env.messageService.MarkGroupRead(group.ID, admin.ID, 4); err != nil {
		t.Fatalf("MarkGroupRead() error = %v", err)
	}

	state, err := env.readStates.Get(group.ID, admin.ID)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	if state.LastReadMessageID != 10 {
		t.Errorf("LastReadMessageID = %d, want 10", state.LastReadMessageID)
	}
}

func TestFeedCacheOnlyTierPageSizes(t *testing.T) {
	// Invalidate deletes exactly the 20/50/100 keys; any other cached
	// size would survive appends and serve a stale head page.
	tests := []struct {
		limit int
		want  bool
	}{
		{20, true}, {50, true}, {100, true},
		{1, false}, {19, false}, {30, false}, {99, false},
	}
	for _, tt := range tests {
		if got := cachedPageSize(tt.limit); got != tt.want {
			t.Errorf("cachedPageSize(%d) = %v, want %v", tt.limit, got, tt.want)
		}
	}
}

func TestUnreadCount(t *testing.T) {
	env := newTestEnv()
	admin := env.user(t, "Rahul")
	group := env.group(t, admin, CreateGroupInput{})

	var latest *models.Message
	for i := 0; i < 3; i++ {
		m, err := env.messageService.PostGroupMessage(group.ID, admin.ID, "", "ping")
		if err != nil {
			t.Fatalf("PostGroupMessage() error = %v", err)
		}
		latest = m
	}

	if err := env.messageService.MarkGroupRead(group.ID, admin.ID, latest.ID); err != nil {
		t.Fatalf("MarkGroupRead() error = %v", err)
	}
	count, err := env.messageService.UnreadCount(group.ID, admin.ID)
	if err != nil {
		t.Fatalf("UnreadCount() error = %v", err)
	}
	if count != 0 {
		t.Errorf("UnreadCount after reading everything = %d, want 0", count)
	}

	if _, err := env.messageService.PostGroupMessage(group.ID, admin.ID, "", "one more"); err != nil {
		t.Fatalf("PostGroupMessage() error = %v", err)
	}
	if count, _ = env.messageService.UnreadCount(group.ID, admin.ID); count != 1 {
		t.Errorf("UnreadCount = %d, want 1", count)
	}
}

func TestSendDirectMessageFriendsOnly(t *testing.T) {
	env := newTestEnv()
	a := env.user(t, "Rahul")
	b := env.user(t, "Priya")

	if _, err := env.messageService.SendDirectMessage(a.ID, b.ID, "", "hey"); !errors.Is(err, ErrPermission) {
		t.Errorf("DM between strangers error = %v, want ErrPermission", err)
	}
	if _, err := env.messageService.SendDirectMessage(a.ID, a.ID, "", "hey"); !errors.Is(err, ErrValidation) {
		t.Errorf("DM to self error = %v, want ErrValidation", err)
	}

	if err := env.friends.CreateFriendship(a.ID, b.ID); err != nil {
		t.Fatalf("create friendship: %v", err)
	}
	msg, err := env.messageService.SendDirectMessage(a.ID, b.ID, "", "hey")
	if err != nil {
		t.Fatalf("SendDirectMessage() error = %v", err)
	}
	if msg.RecipientID == nil || *msg.RecipientID != b.ID {
		t.Errorf("RecipientID = %v, want %d", msg.RecipientID, b.ID)
	}
	if msg.GroupID != nil {
		t.Error("direct message carries a group ID")
	}

	convo, err := env.messageService.GetConversation(a.ID, b.ID, 50)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if len(convo) != 1 {
		t.Errorf("conversation length = %d, want 1", len(convo))
	}
}

func TestChatFanOut(t *testing.T) {
	env := newTestEnv()
	pub := &capturePublisher{}
	env.messageService.SetPublisher(pub)

	admin := env.user(t, "Rahul")
	group := env.group(t, admin, CreateGroupInput{})
	member := env.user(t, "Priya")
	env.join(t, group.ID, member)

	if _, err := env.messageService.PostGroupMessage(group.ID, admin.ID, "", "hello"); err != nil {
		t.Fatalf("PostGroupMessage() error = %v", err)
	}

	events := pub.byType(EventChatMessage)
	if len(events) != 1 {
		t.Fatalf("chat.message events = %d, want 1", len(events))
	}
	if len(events[0].UserIDs) != 2 {
		t.Errorf("fan-out reached %d users, want 2", len(events[0].UserIDs))
	}
	if events[0].Priority != PriorityChat {
		t.Errorf("priority = %d, want PriorityChat", events[0].Priority)
	}
}
