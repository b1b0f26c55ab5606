package handlers

import (
	"github.com/Symmetry7/KIITstudy/internal/handlers/ws"
	"github.com/Symmetry7/KIITstudy/internal/notify"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

// HubNotifier pushes notifications through the websocket hub, so they
// share the offline queue with every other event.
type HubNotifier struct {
	hub *ws.Hub
}

func NewHubNotifier(hub *ws.Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) Notify(userID uint, notification notify.Notification) {
	n.hub.PublishToUsers([]uint{userID}, "notification", notification, service.PrioritySystem)
}
