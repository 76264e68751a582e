package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/avasquez/recordshelf-be/internal/models"
)

// DefaultStaleAfter bounds how long a fetched collection is served without a
// refetch. Same-session mutations bypass it via Invalidate.
const DefaultStaleAfter = 10 * time.Second

// ErrSignedOut indicates the server no longer knows the session's user; the
// session has been terminated.
var ErrSignedOut = errors.New("signed out")

// CollectionStore is the client's read-through view of the authenticated
// user and their saved-album collection. It holds the most recently fetched
// copy, refetching when the copy is stale or has been invalidated after a
// mutation.
type CollectionStore struct {
	api        *Client
	staleAfter time.Duration

	// onSignOut, when set, runs once when the server reports the user gone.
	onSignOut func()

	mu        sync.Mutex
	user      *models.User
	fetchedAt time.Time
	gen       uint64 // bumped by Invalidate; stamps each fetch
	now       func() time.Time
}

// NewCollectionStore creates a store bound to the given API client.
func NewCollectionStore(api *Client, onSignOut func()) *CollectionStore {
	return &CollectionStore{
		api:        api,
		staleAfter: DefaultStaleAfter,
		onSignOut:  onSignOut,
		now:        time.Now,
	}
}

// Current returns the user and collection, fetching from the server when no
// fresh copy is held. If the account has been deleted server-side the cached
// copy is dropped, the sign-out hook runs, and ErrSignedOut is returned.
func (s *CollectionStore) Current(ctx context.Context) (models.User, error) {
	s.mu.Lock()
	if s.user != nil && s.now().Sub(s.fetchedAt) < s.staleAfter {
		user := *s.user
		s.mu.Unlock()
		return user, nil
	}
	gen := s.gen
	s.mu.Unlock()

	user, err := s.api.Me(ctx)
	if err != nil {
		if errors.Is(err, ErrUserGone) {
			s.mu.Lock()
			s.user = nil
			s.mu.Unlock()
			if s.onSignOut != nil {
				s.onSignOut()
			}
			return models.User{}, ErrSignedOut
		}
		return models.User{}, err
	}

	s.mu.Lock()
	s.user = &user
	// An invalidation that landed while this fetch was in flight means the
	// copy may predate a settled mutation: keep the store invalidated so the
	// next read refetches.
	if s.gen == gen {
		s.fetchedAt = s.now()
	}
	s.mu.Unlock()
	return user, nil
}

// Invalidate drops the freshness of the held copy so the next Current call
// refetches, regardless of the staleness window.
func (s *CollectionStore) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchedAt = time.Time{}
	s.gen++
}

// Contains reports whether the held view includes the given album id. It does
// not trigger a fetch; an empty store contains nothing.
func (s *CollectionStore) Contains(albumID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return false
	}
	for _, a := range s.user.Albums {
		if a.ID == albumID {
			return true
		}
	}
	return false
}
