package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/joker-games/joker-server/internal/registry"
)

// Handlers contains the HTTP-side handlers. Game play itself runs over
// the WebSocket; the REST surface is limited to discovery and health.
type Handlers struct {
	registry *registry.Registry
	hub      *Hub
}

// NewHandlers creates a new instance of Handlers.
func NewHandlers(reg *registry.Registry, hub *Hub) *Handlers {
	return &Handlers{
		registry: reg,
		hub:      hub,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/rooms", h.ListRooms).Methods("GET")
	r.HandleFunc("/healthz", h.Health).Methods("GET")
	r.HandleFunc("/ws", h.hub.ServeWS)
}

// response helper function to send JSON responses
func response(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ListRooms returns the live rooms with their phase and player count.
func (h *Handlers) ListRooms(w http.ResponseWriter, r *http.Request) {
	response(w, http.StatusOK, h.registry.Rooms())
}

// Health reports server liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	response(w, http.StatusOK, map[string]string{"status": "ok"})
}
