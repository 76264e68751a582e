package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/avasquez/recordshelf-be/internal/auth"
	"github.com/avasquez/recordshelf-be/internal/models"
	"github.com/avasquez/recordshelf-be/internal/services"
	ws "github.com/avasquez/recordshelf-be/internal/websocket"
)

// CollectionHandler handles HTTP requests mutating a user's saved-album list.
type CollectionHandler struct {
	service services.CollectionServiceProvider
	hub     *ws.Hub
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(service services.CollectionServiceProvider, hub *ws.Hub) *CollectionHandler {
	return &CollectionHandler{service: service, hub: hub}
}

// PatchPayload accepts either a single album or a list; both forms go through
// the same upsert. This is the stable contract: order-preserving, idempotent
// by album id.
type PatchPayload struct {
	Album  *models.AlbumEntry  `json:"album"`
	Albums []models.AlbumEntry `json:"albums"`
}

// DeletePayload identifies the album to remove.
type DeletePayload struct {
	AlbumID string `json:"albumId"`
}

func validateEntry(e models.AlbumEntry) string {
	switch {
	case e.ID == "":
		return "album id is required"
	case e.Name == "":
		return "album name is required"
	case e.Artist == "":
		return "album artist is required"
	}
	return ""
}

// requireOwner rejects mutations against another user's collection.
func requireOwner(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := chi.URLParam(r, "userId")
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return "", false
	}
	if claims.UserID != userID {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{
			"message": "Cannot modify another user's collection",
		})
		return "", false
	}
	return userID, true
}

// Patch upserts albums into the user's collection.
func (h *CollectionHandler) Patch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var payload PatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Invalid request body",
		})
		return
	}

	entries := payload.Albums
	if payload.Album != nil {
		entries = append([]models.AlbumEntry{*payload.Album}, entries...)
	}
	if len(entries) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "No album provided",
		})
		return
	}
	for _, e := range entries {
		if msg := validateEntry(e); msg != "" {
			writeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": msg})
			return
		}
	}

	user, err := h.service.AddAlbums(userID, entries)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"message": "User not found"})
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to update albums")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"message": "Failed to update albums",
		})
		return
	}

	h.notifyInvalidation(user)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Albums updated successfully",
		"user":    user,
	})
}

// Delete removes one album from the user's collection. An id that is not in
// the collection is a no-op, not an error.
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireOwner(w, r)
	if !ok {
		return
	}

	var payload DeletePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.AlbumID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"message": "Invalid request body",
		})
		return
	}

	user, err := h.service.RemoveAlbum(userID, payload.AlbumID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]interface{}{"message": "User not found"})
			return
		}
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to delete album")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"message": "Failed to delete albums",
		})
		return
	}

	h.notifyInvalidation(user)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Albums deleted successfully",
		"user":    user,
	})
}

func (h *CollectionHandler) notifyInvalidation(user models.User) {
	if h.hub == nil {
		return
	}
	msg, err := json.Marshal(ws.Message{
		Action: "collection.invalidated",
		Payload: ws.CollectionInvalidated{
			UserID:  user.ID,
			Version: user.CollectionVersion,
		},
	})
	if err != nil {
		return
	}
	h.hub.NotifyUser(user.ID, msg)
}
