package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/trop3n/event-management-board/internal/services"
	ws "github.com/trop3n/event-management-board/internal/websocket"
)

// SyncHandler handles HTTP requests for the calendar sync subsystem.
type SyncHandler struct {
	service services.SyncServiceProvider
	hub     *ws.Hub
}

// NewSyncHandler creates a new SyncHandler.
func NewSyncHandler(service services.SyncServiceProvider, hub *ws.Hub) *SyncHandler {
	return &SyncHandler{service: service, hub: hub}
}

// SyncEvents triggers a sync run against the upstream calendar.
func (h *SyncHandler) SyncEvents(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SyncEvents()
	if err != nil {
		log.Error().Err(err).Msg("Manual sync failed")
		writeError(w, http.StatusInternalServerError, "sync failed: "+err.Error())
		return
	}

	if h.hub != nil {
		h.hub.Broadcast <- ws.EventsUpdated(0)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "events synced successfully",
		"synced":  result.Synced,
		"updated": result.Updated,
		"total":   result.Total,
	})
}

// GetRooms returns the tracked room ID to display name mapping.
func (h *SyncHandler) GetRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.GetTrackedRooms())
}
