package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/woundguard/internal/sensor"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// SensorsHandler broadcasts live probe readings via WebSocket.
type SensorsHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex

	paused    bool
	latest    sensor.Reading
	hasLatest bool
}

// NewSensorsHandler creates a SensorsHandler fed by the given source and
// starts the broadcast pump.
func NewSensorsHandler(src sensor.Source) *SensorsHandler {
	h := &SensorsHandler{
		clients: make(map[*websocket.Conn]bool),
	}
	go h.pump(src.Run(context.Background()))
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *SensorsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.RLock()
	latest, hasLatest := h.latest, h.hasLatest
	h.mu.RUnlock()

	// New dashboards get the last reading right away instead of waiting
	// out the probe's reporting interval. The replay must finish before
	// the connection joins the broadcast set: the pump is the only other
	// writer, and a connection may have at most one writer at a time.
	if hasLatest {
		if msg, err := json.Marshal(latest); err == nil {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
	}

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Latest returns the most recent reading.
func (h *SensorsHandler) Latest() (sensor.Reading, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest, h.hasLatest
}

// Pause stops broadcasting readings. Readings are still consumed and
// recorded as the latest value.
func (h *SensorsHandler) Pause() {
	h.mu.Lock()
	h.paused = true
	h.mu.Unlock()
}

// Resume restarts broadcasting readings.
func (h *SensorsHandler) Resume() {
	h.mu.Lock()
	h.paused = false
	h.mu.Unlock()
}

// Paused reports whether broadcasting is paused.
func (h *SensorsHandler) Paused() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.paused
}

// pump forwards readings from the source to all connected clients.
func (h *SensorsHandler) pump(readings <-chan sensor.Reading) {
	for reading := range readings {
		h.mu.Lock()
		h.latest = reading
		h.hasLatest = true
		paused := h.paused
		h.mu.Unlock()

		if paused {
			continue
		}

		msg, err := json.Marshal(reading)
		if err != nil {
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.WriteMessage(websocket.TextMessage, msg)
		}
		h.mu.RUnlock()
	}
}
