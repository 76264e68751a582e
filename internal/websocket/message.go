package websocket

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// CollectionInvalidated is broadcast to a user's connections after a
// successful add or remove, so other tabs refetch the collection.
type CollectionInvalidated struct {
	UserID  string `json:"userId"`
	Version int64  `json:"version"`
}
