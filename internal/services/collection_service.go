package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avasquez/recordshelf-be/internal/models"
)

// CollectionServiceProvider defines the interface for saved-album collection services.
type CollectionServiceProvider interface {
	AddAlbums(userID string, entries []models.AlbumEntry) (models.User, error)
	RemoveAlbum(userID, albumID string) (models.User, error)
}

// CollectionService applies add/remove deltas to a user's saved-album list.
//
// Both mutations run inside a single write transaction that re-reads the
// stored list, so two concurrent mutations against the same user cannot lose
// each other's writes. Adds are set-semantics by album id: an id already in
// the collection is a no-op, never a duplicate.
type CollectionService struct {
	db *sql.DB
}

// NewCollectionService creates a new CollectionService.
func NewCollectionService(db *sql.DB) *CollectionService {
	return &CollectionService{db: db}
}

// AddAlbums upserts the given entries into the user's collection. New entries
// are prepended in submission order; entries whose id is already present are
// skipped. Returns the updated user without the password hash.
func (s *CollectionService) AddAlbums(userID string, entries []models.AlbumEntry) (models.User, error) {
	return s.mutate(userID, func(current []models.AlbumEntry) []models.AlbumEntry {
		present := make(map[string]bool, len(current))
		for _, a := range current {
			present[a.ID] = true
		}

		var added []models.AlbumEntry
		for _, e := range entries {
			if present[e.ID] {
				continue
			}
			present[e.ID] = true
			added = append(added, e)
		}
		if len(added) == 0 {
			return current
		}
		return append(added, current...)
	})
}

// RemoveAlbum filters the entry with the given id out of the user's
// collection. An absent id is a no-op, not an error.
func (s *CollectionService) RemoveAlbum(userID, albumID string) (models.User, error) {
	return s.mutate(userID, func(current []models.AlbumEntry) []models.AlbumEntry {
		updated := make([]models.AlbumEntry, 0, len(current))
		for _, a := range current {
			if a.ID != albumID {
				updated = append(updated, a)
			}
		}
		return updated
	})
}

// mutate runs a read-modify-write of the albums column under one transaction
// and bumps collection_version.
func (s *CollectionService) mutate(userID string, apply func([]models.AlbumEntry) []models.AlbumEntry) (models.User, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback()

	var albumsJSON string
	err = tx.QueryRow("SELECT albums FROM users WHERE id = ?", userID).Scan(&albumsJSON)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}

	var current []models.AlbumEntry
	if err := json.Unmarshal([]byte(albumsJSON), &current); err != nil {
		return models.User{}, fmt.Errorf("decoding albums for user %s: %w", userID, err)
	}

	updated := apply(current)

	encoded, err := json.Marshal(updated)
	if err != nil {
		return models.User{}, err
	}

	_, err = tx.Exec(
		"UPDATE users SET albums = ?, collection_version = collection_version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		string(encoded), userID)
	if err != nil {
		return models.User{}, err
	}

	row := tx.QueryRow("SELECT "+userColumns+" FROM users WHERE id = ?", userID)
	user, err := scanUser(row)
	if err != nil {
		return models.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.User{}, err
	}

	user.PasswordHash = ""
	return user, nil
}
