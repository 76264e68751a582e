package client

import (
	"context"
	"errors"
	"sync"

	"github.com/avasquez/recordshelf-be/internal/models"
)

var (
	// ErrAlreadySaved indicates the album is already in the collection view;
	// the server is not contacted.
	ErrAlreadySaved = errors.New("album already in collection")

	// ErrAddInFlight indicates an add for the same album id is already in
	// progress.
	ErrAddInFlight = errors.New("add already in flight for this album")

	// ErrRemoveInFlight indicates a removal for the same album id is already
	// in progress.
	ErrRemoveInFlight = errors.New("removal already in flight for this album")
)

// MutationCoordinator serializes add/remove operations against the collection
// store. Repeat requests for an album whose mutation is still in flight are
// suppressed; mutations for different albums may run concurrently. A
// successful mutation invalidates the store so the next read refetches the
// server's authoritative list. Failures surface to the caller and are never
// retried.
type MutationCoordinator struct {
	api    *Client
	store  *CollectionStore
	userID string

	mu           sync.Mutex
	addsInFly    map[string]bool
	removesInFly map[string]bool
	deletingID   string
}

// NewMutationCoordinator creates a coordinator for the given user.
func NewMutationCoordinator(api *Client, store *CollectionStore, userID string) *MutationCoordinator {
	return &MutationCoordinator{
		api:          api,
		store:        store,
		userID:       userID,
		addsInFly:    make(map[string]bool),
		removesInFly: make(map[string]bool),
	}
}

// Add projects the candidate into an entry and saves it. It rejects without a
// server call when the album is already in the view or its add is in flight.
func (m *MutationCoordinator) Add(ctx context.Context, candidate models.AlbumCandidate) error {
	if m.store.Contains(candidate.AlbumID) {
		return ErrAlreadySaved
	}

	m.mu.Lock()
	if m.addsInFly[candidate.AlbumID] {
		m.mu.Unlock()
		return ErrAddInFlight
	}
	m.addsInFly[candidate.AlbumID] = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.addsInFly, candidate.AlbumID)
		m.mu.Unlock()
	}()

	entry := models.ProjectCandidate(candidate)
	if _, err := m.api.SaveAlbum(ctx, m.userID, entry); err != nil {
		return err
	}

	m.store.Invalidate()
	return nil
}

// Remove deletes the album by id. Suppression of repeat requests is keyed by
// id for every in-flight removal; the visible marker tracks the most recent
// one for the UI layer.
func (m *MutationCoordinator) Remove(ctx context.Context, albumID string) error {
	m.mu.Lock()
	if m.removesInFly[albumID] {
		m.mu.Unlock()
		return ErrRemoveInFlight
	}
	m.removesInFly[albumID] = true
	m.deletingID = albumID
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.removesInFly, albumID)
		if m.deletingID == albumID {
			m.deletingID = ""
		}
		m.mu.Unlock()
	}()

	if _, err := m.api.DeleteAlbum(ctx, m.userID, albumID); err != nil {
		return err
	}

	m.store.Invalidate()
	return nil
}

// DeletingID reports the album id of the removal currently in progress, if
// any. The UI layer uses it to disable the matching control.
func (m *MutationCoordinator) DeletingID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletingID
}
