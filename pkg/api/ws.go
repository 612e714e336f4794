// Package api pkg/api/ws.go
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/carverauto/fleetmon/pkg/models"
)

const writeTimeout = 5 * time.Second

// alertEvent is the message pushed to websocket subscribers for every alert
// creation or escalation.
type alertEvent struct {
	Type   string        `json:"type"`
	Alert  *models.Alert `json:"alert"`
	Device struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		IPAddress string `json:"ip_address"`
	} `json:"device"`
}

// AlertHub fans alert events out to connected websocket clients. It
// implements the alerting notifier interface; a slow or dead client is
// dropped, never waited on.
type AlertHub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewAlertHub creates an empty hub.
func NewAlertHub() *AlertHub {
	return &AlertHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The HTTP layer already allows any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// HandleWS upgrades the connection and keeps it registered until the client
// goes away.
func (h *AlertHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	clients := len(h.conns)
	h.mu.Unlock()

	log.Printf("Alert stream client connected (%d active)", clients)

	// Reads are discarded; the read loop only detects disconnects.
	go func() {
		defer h.drop(conn)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Notify implements the alerting notifier interface.
func (h *AlertHub) Notify(_ context.Context, alert *models.Alert, device *models.Device) error {
	event := alertEvent{Type: "alert", Alert: alert}
	event.Device.ID = device.ID
	event.Device.Name = device.Name
	event.Device.IPAddress = device.IPAddress

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))

	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))

		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.drop(conn)
		}
	}

	return nil
}

// Close disconnects all clients.
func (h *AlertHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.conns {
		_ = conn.Close()
		delete(h.conns, conn)
	}
}

func (h *AlertHub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[conn]; ok {
		_ = conn.Close()
		delete(h.conns, conn)
	}
}
