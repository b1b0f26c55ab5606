package ws

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/Symmetry7/KIITstudy/internal/repository"
)

// ClientConnection wraps a WebSocket connection with metadata
type ClientConnection struct {
	Conn         *websocket.Conn
	UserID       uint
	LastPong     time.Time
	SupportsGzip bool
	PingTicker   *time.Ticker
	CloseChan    chan struct{}
}

// Hub manages all active WebSocket connections. It implements the
// event publisher the services fan out through: online users get the
// event immediately, offline users get it queued for replay.
type Hub struct {
	clients          map[uint]*ClientConnection
	clientsMux       sync.RWMutex
	pendingEventRepo repository.PendingEventRepositoryInterface
	maxRetries       int
	baseRetryDelay   time.Duration
	pingInterval     time.Duration
	pongTimeout      time.Duration
}

// NewHub creates a new Hub instance and starts its background workers
func NewHub(pendingRepo repository.PendingEventRepositoryInterface) *Hub {
	hub := &Hub{
		clients:          make(map[uint]*ClientConnection),
		pendingEventRepo: pendingRepo,
		maxRetries:       5,
		baseRetryDelay:   2 * time.Second,
		pingInterval:     30 * time.Second,
		pongTimeout:      90 * time.Second,
	}

	go hub.retryWorker()
	go hub.connectionHealthChecker()

	return hub
}

// Register adds a client connection with health monitoring
func (h *Hub) Register(userID uint, conn *websocket.Conn, supportsGzip bool) {
	clientConn := &ClientConnection{
		Conn:         conn,
		UserID:       userID,
		LastPong:     time.Now(),
		SupportsGzip: supportsGzip,
		PingTicker:   time.NewTicker(h.pingInterval),
		CloseChan:    make(chan struct{}),
	}

	conn.SetPongHandler(func(appData string) error {
		h.clientsMux.Lock()
		if client, exists := h.clients[userID]; exists {
			client.LastPong = time.Now()
		}
		h.clientsMux.Unlock()
		return nil
	})

	conn.SetReadDeadline(time.Now().Add(h.pongTimeout))

	h.clientsMux.Lock()
	h.clients[userID] = clientConn
	h.clientsMux.Unlock()

	go h.pingRoutine(clientConn)

	log.Printf("User %d connected to hub (total: %d, gzip: %v)", userID, len(h.clients), supportsGzip)
}

// Unregister removes a client connection
func (h *Hub) Unregister(userID uint) {
	h.clientsMux.Lock()
	if client, exists := h.clients[userID]; exists {
		if client.PingTicker != nil {
			client.PingTicker.Stop()
		}
		close(client.CloseChan)
	}
	delete(h.clients, userID)
	count := len(h.clients)
	h.clientsMux.Unlock()
	log.Printf("User %d disconnected from hub (total: %d)", userID, count)
}

// IsOnline checks if a user is connected
func (h *Hub) IsOnline(userID uint) bool {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	_, exists := h.clients[userID]
	return exists
}

// PublishToUsers fans an event out to a set of users. Offline
// recipients get the event queued; failed writes tear down the
// connection and queue as well, so nothing is silently dropped.
func (h *Hub) PublishToUsers(userIDs []uint, eventType string, payload interface{}, priority int) {
	envelope := map[string]interface{}{
		"type":     eventType,
		"event_id": uuid.NewString(),
		"payload":  payload,
	}
	jsonData, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}

	for _, userID := range userIDs {
		h.clientsMux.RLock()
		clientConn, exists := h.clients[userID]
		h.clientsMux.RUnlock()

		if !exists {
			h.queueEvent(userID, envelope, jsonData, priority)
			continue
		}
		if err := h.writeFrame(clientConn, jsonData); err != nil {
			log.Printf("Error sending %s to user %d: %v", eventType, userID, err)
			h.Unregister(userID)
			h.queueEvent(userID, envelope, jsonData, priority)
		}
	}
}

// writeFrame sends one frame, gzip-compressed when the client supports
// it and the payload is big enough to benefit (> 512 bytes)
func (h *Hub) writeFrame(clientConn *ClientConnection, jsonData []byte) error {
	finalData := jsonData
	frameType := websocket.TextMessage
	if clientConn.SupportsGzip && len(jsonData) > 512 {
		if compressed, err := h.compressData(jsonData); err == nil && len(compressed) < len(jsonData) {
			finalData = compressed
			frameType = websocket.BinaryMessage
		}
	}
	return clientConn.Conn.WriteMessage(frameType, finalData)
}

// queueEvent stores an event for offline or failed delivery
func (h *Hub) queueEvent(userID uint, envelope map[string]interface{}, jsonData []byte, priority int) {
	if h.pendingEventRepo == nil {
		return
	}

	// ephemeral traffic is never queued
	if msgType, _ := envelope["type"].(string); msgType == "typing" || msgType == "ping" || msgType == "pong" {
		return
	}

	eventID, _ := envelope["event_id"].(string)
	if err := h.pendingEventRepo.Enqueue(userID, eventID, string(jsonData), priority); err != nil {
		log.Printf("Error queueing event for user %d: %v", userID, err)
	}
}

// Broadcast sends data to all connected users
func (h *Hub) Broadcast(data interface{}) {
	h.clientsMux.RLock()
	clients := make(map[uint]*ClientConnection, len(h.clients))
	for id, conn := range h.clients {
		clients[id] = conn
	}
	h.clientsMux.RUnlock()

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error marshaling broadcast data: %v", err)
		return
	}

	for userID, clientConn := range clients {
		if err := clientConn.Conn.WriteMessage(websocket.TextMessage, jsonData); err != nil {
			log.Printf("Error broadcasting to user %d: %v", userID, err)
			h.Unregister(userID)
		}
	}
}

// GetOnlineUsers returns list of currently connected user IDs
func (h *Hub) GetOnlineUsers() []uint {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()

	users := make([]uint, 0, len(h.clients))
	for userID := range h.clients {
		users = append(users, userID)
	}
	return users
}

// Count returns the number of connected clients
func (h *Hub) Count() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}

// FlushPendingEvents replays queued events to a newly connected user
func (h *Hub) FlushPendingEvents(userID uint) error {
	if h.pendingEventRepo == nil {
		return nil
	}

	h.clientsMux.RLock()
	clientConn, exists := h.clients[userID]
	h.clientsMux.RUnlock()

	if !exists {
		return nil // disconnected already
	}

	// Cheap count first; most reconnects have nothing queued.
	if n, err := h.pendingEventRepo.CountPendingForUser(userID); err != nil || n == 0 {
		return err
	}

	batchSize := 50
	pending, err := h.pendingEventRepo.GetPendingForUser(userID, batchSize)
	if err != nil {
		log.Printf("Error fetching pending events for user %d: %v", userID, err)
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	log.Printf("Flushing %d pending events to user %d", len(pending), userID)

	batch := make([]interface{}, 0, len(pending))
	successIDs := make([]uint, 0, len(pending))

	for _, pe := range pending {
		var data interface{}
		if err := json.Unmarshal([]byte(pe.Payload), &data); err != nil {
			log.Printf("Error unmarshaling pending event %d: %v", pe.ID, err)
			continue
		}
		batch = append(batch, data)
		successIDs = append(successIDs, pe.ID)
	}

	batchMessage := map[string]interface{}{
		"type":   "batch",
		"events": batch,
		"count":  len(batch),
	}
	if err := clientConn.Conn.WriteJSON(batchMessage); err != nil {
		log.Printf("Error sending batch to user %d: %v", userID, err)
		// connection failed, events stay in queue
		return err
	}

	if err := h.pendingEventRepo.DeleteBatch(successIDs); err != nil {
		log.Printf("Error deleting delivered events: %v", err)
	}

	if len(pending) == batchSize {
		time.Sleep(100 * time.Millisecond)
		return h.FlushPendingEvents(userID)
	}
	return nil
}

// retryWorker processes failed deliveries with exponential backoff
func (h *Hub) retryWorker() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if h.pendingEventRepo == nil {
			continue
		}

		retryable, err := h.pendingEventRepo.GetRetryable(100)
		if err != nil {
			log.Printf("Error fetching retryable events: %v", err)
			continue
		}

		for _, pe := range retryable {
			h.clientsMux.RLock()
			clientConn, isOnline := h.clients[pe.UserID]
			h.clientsMux.RUnlock()

			if !isOnline {
				attempts := pe.Attempts + 1
				if attempts >= h.maxRetries {
					// max retries reached, back off for a while
					nextRetry := time.Now().Add(1 * time.Hour)
					h.pendingEventRepo.MarkAttempted(pe.ID, attempts, &nextRetry)
					continue
				}

				// exponential backoff: 2s, 4s, 8s, 16s, 32s
				delay := h.baseRetryDelay * time.Duration(1<<uint(attempts))
				nextRetry := time.Now().Add(delay)
				h.pendingEventRepo.MarkAttempted(pe.ID, attempts, &nextRetry)
				continue
			}

			if err := clientConn.Conn.WriteMessage(websocket.TextMessage, []byte(pe.Payload)); err != nil {
				log.Printf("Retry delivery failed for user %d: %v", pe.UserID, err)
				attempts := pe.Attempts + 1
				delay := h.baseRetryDelay * time.Duration(1<<uint(attempts))
				nextRetry := time.Now().Add(delay)
				h.pendingEventRepo.MarkAttempted(pe.ID, attempts, &nextRetry)
			} else {
				h.pendingEventRepo.Delete(pe.ID)
			}
		}
	}
}

// pingRoutine sends periodic ping messages to keep connection alive
func (h *Hub) pingRoutine(client *ClientConnection) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Ping routine recovered from panic for user %d: %v", client.UserID, r)
		}
	}()

	for {
		select {
		case <-client.CloseChan:
			return
		case <-client.PingTicker.C:
			h.clientsMux.RLock()
			_, exists := h.clients[client.UserID]
			h.clientsMux.RUnlock()

			if !exists {
				return
			}

			if err := client.Conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				log.Printf("Ping failed for user %d: %v", client.UserID, err)
				h.Unregister(client.UserID)
				return
			}
		}
	}
}

// connectionHealthChecker removes connections that stopped answering pings
func (h *Hub) connectionHealthChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		h.clientsMux.RLock()
		deadConnections := make([]uint, 0)
		now := time.Now()

		for userID, client := range h.clients {
			if now.Sub(client.LastPong) > h.pongTimeout {
				deadConnections = append(deadConnections, userID)
			}
		}
		h.clientsMux.RUnlock()

		for _, userID := range deadConnections {
			log.Printf("Removing dead connection for user %d (no pong received)", userID)
			h.Unregister(userID)
		}
	}
}

// compressData compresses data using gzip
func (h *Hub) compressData(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)

	if _, err := gzipWriter.Write(data); err != nil {
		return nil, err
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecompressMessage decompresses a gzip frame from a client
func DecompressMessage(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
