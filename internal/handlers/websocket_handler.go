package handlers

import (
	"log"
	"os"

	"github.com/gofiber/websocket/v2"

	"github.com/Symmetry7/KIITstudy/internal/handlers/ws"
	"github.com/Symmetry7/KIITstudy/internal/repository"
	"github.com/Symmetry7/KIITstudy/internal/service"
)

type WebSocketHandler struct {
	messageService *service.MessageService
	ledgerService  *service.LedgerService
	userService    *service.UserService
	hub            *ws.Hub
}

func NewWebSocketHandler(messageService *service.MessageService, ledgerService *service.LedgerService, userService *service.UserService, pendingRepo repository.PendingEventRepositoryInterface) *WebSocketHandler {
	return &WebSocketHandler{
		messageService: messageService,
		ledgerService:  ledgerService,
		userService:    userService,
		hub:            ws.NewHub(pendingRepo),
	}
}

// GetHub returns the hub instance so services can publish through it
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	userID := c.Locals("userID").(uint)
	wsDebug := os.Getenv("WS_DEBUG") == "true"

	// Check if client supports gzip compression (via query param or header)
	supportsGzip := c.Query("gzip") == "1" || c.Headers("X-Supports-Gzip") == "1"

	h.hub.Register(userID, c, supportsGzip)

	// Presence snapshot so the client can render online badges at once
	if err := c.WriteJSON(map[string]interface{}{
		"type":   "presence_snapshot",
		"online": h.hub.GetOnlineUsers(),
	}); err != nil {
		log.Printf("Failed to send presence snapshot to user %d: %v", userID, err)
	}

	go func() {
		if err := h.userService.SetOnline(userID, true); err != nil {
			log.Printf("Failed to set user %d online: %v", userID, err)
		}
	}()

	// Replay queued events after successful connection
	go func() {
		if err := h.hub.FlushPendingEvents(userID); err != nil {
			log.Printf("Failed to flush pending events for user %d: %v", userID, err)
		}
	}()

	defer func() {
		h.hub.Unregister(userID)
		go func() {
			if err := h.userService.SetOnline(userID, false); err != nil {
				log.Printf("Failed to set user %d offline: %v", userID, err)
			}
		}()
	}()

	log.Printf("User %d connected via WebSocket", userID)

	ctx := &ws.MessageContext{
		UserID:   userID,
		Conn:     c,
		Hub:      h.hub,
		Messages: h.messageService,
		Ledger:   h.ledgerService,
		Users:    h.userService,
	}

	for {
		messageType, messageBytes, err := c.ReadMessage()
		if err != nil {
			log.Printf("Error reading message from user %d: %v", userID, err)
			break
		}

		if wsDebug {
			log.Printf("ws_recv user_id=%d frame_type=%d size=%d", userID, messageType, len(messageBytes))
		}

		// Binary frames are gzip compressed
		if messageType == websocket.BinaryMessage {
			decompressed, err := ws.DecompressMessage(messageBytes)
			if err != nil {
				log.Printf("Error decompressing message from user %d: %v", userID, err)
				ws.SendError(c, "decompression_failed", "Failed to decompress message", err.Error())
				continue
			}
			messageBytes = decompressed
		}

		msg, err := ws.Deserialize(messageBytes)
		if err != nil {
			log.Printf("Error deserializing message from user %d: %v", userID, err)
			ws.SendError(c, "invalid_message", "Invalid message format", err.Error())
			continue
		}

		if err := msg.Process(ctx); err != nil {
			log.Printf("Error processing message %s from user %d: %v", msg.GetType(), userID, err)
			ws.SendError(c, "processing_failed", "Failed to process message", err.Error())
		}
	}

	log.Printf("User %d disconnected from WebSocket", userID)
}
