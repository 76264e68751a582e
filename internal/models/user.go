package models

import "time"

// User represents a registered account and its saved-album collection.
type User struct {
	ID                string       `json:"id"`
	Username          string       `json:"username"`
	Email             string       `json:"email"`
	PasswordHash      string       `json:"-"` // Never expose this to the client
	Image             *string      `json:"image"`
	Albums            []AlbumEntry `json:"albums"`
	CollectionVersion int64        `json:"collectionVersion"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}
