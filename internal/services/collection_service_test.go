package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasquez/recordshelf-be/internal/models"
)

func intPtr(v int) *int { return &v }

func entry(id, name string) models.AlbumEntry {
	return models.AlbumEntry{
		ID:     id,
		Name:   name,
		Artist: "The " + name + "s",
		Cover:  "https://img.example/" + id + ".jpg",
		Year:   intPtr(1969),
	}
}

func TestAddAlbumsPrependsNewEntries(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	collection := NewCollectionService(db)

	user, err := users.CreateUser("alice", "alice@example.com", "correct horse")
	require.NoError(t, err)

	first, err := collection.AddAlbums(user.ID, []models.AlbumEntry{entry("a1", "Abbey Road")})
	require.NoError(t, err)
	require.Len(t, first.Albums, 1)
	assert.Equal(t, int64(1), first.CollectionVersion)

	second, err := collection.AddAlbums(user.ID, []models.AlbumEntry{entry("a2", "Revolver")})
	require.NoError(t, err)
	require.Len(t, second.Albums, 2)
	assert.Equal(t, "a2", second.Albums[0].ID, "newest entries go to the front")
	assert.Equal(t, "a1", second.Albums[1].ID)
	assert.Equal(t, int64(2), second.CollectionVersion)
	assert.Empty(t, second.PasswordHash)
}

func TestAddAlbumsIsSetSemantics(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	collection := NewCollectionService(db)

	user, err := users.CreateUser("alice", "alice@example.com", "correct horse")
	require.NoError(t, err)

	_, err = collection.AddAlbums(user.ID, []models.AlbumEntry{entry("a1", "Abbey Road")})
	require.NoError(t, err)

	// A duplicate id is a no-op, never a second entry.
	updated, err := collection.AddAlbums(user.ID, []models.AlbumEntry{entry("a1", "Abbey Road")})
	require.NoError(t, err)
	assert.Len(t, updated.Albums, 1)

	// Duplicates inside one batch collapse too.
	updated, err = collection.AddAlbums(user.ID, []models.AlbumEntry{
		entry("a2", "Revolver"), entry("a2", "Revolver"), entry("a3", "Help"),
	})
	require.NoError(t, err)
	assert.Len(t, updated.Albums, 3)
	assert.Equal(t, "a2", updated.Albums[0].ID, "batch order is preserved")
	assert.Equal(t, "a3", updated.Albums[1].ID)
}

func TestRemoveAlbum(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	collection := NewCollectionService(db)

	user, err := users.CreateUser("alice", "alice@example.com", "correct horse")
	require.NoError(t, err)

	_, err = collection.AddAlbums(user.ID, []models.AlbumEntry{entry("a1", "Abbey Road"), entry("a2", "Revolver")})
	require.NoError(t, err)

	updated, err := collection.RemoveAlbum(user.ID, "a1")
	require.NoError(t, err)
	require.Len(t, updated.Albums, 1)
	assert.Equal(t, "a2", updated.Albums[0].ID)
}

func TestRemoveAlbumIsNoOpOnAbsence(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	collection := NewCollectionService(db)

	user, err := users.CreateUser("alice", "alice@example.com", "correct horse")
	require.NoError(t, err)

	_, err = collection.AddAlbums(user.ID, []models.AlbumEntry{entry("a1", "Abbey Road")})
	require.NoError(t, err)

	updated, err := collection.RemoveAlbum(user.ID, "never-saved")
	require.NoError(t, err)
	assert.Len(t, updated.Albums, 1, "removing an absent id must not change the list")
}

func TestMutationsAgainstMissingUser(t *testing.T) {
	collection := NewCollectionService(newTestDB(t))

	_, err := collection.AddAlbums("missing", []models.AlbumEntry{entry("a1", "Abbey Road")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = collection.RemoveAlbum("missing", "a1")
	assert.ErrorIs(t, err, ErrNotFound)
}

// Two concurrent adds of different albums must both persist; the transactional
// read-modify-write removes the lost-update race.
func TestConcurrentAddsBothPersist(t *testing.T) {
	db := newTestDB(t)
	users := NewUserService(db)
	collection := NewCollectionService(db)

	user, err := users.CreateUser("alice", "alice@example.com", "correct horse")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, e := range []models.AlbumEntry{entry("x", "Album X"), entry("y", "Album Y")} {
		wg.Add(1)
		go func(i int, e models.AlbumEntry) {
			defer wg.Done()
			_, errs[i] = collection.AddAlbums(user.ID, []models.AlbumEntry{e})
		}(i, e)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	final, err := users.GetUserByID(user.ID)
	require.NoError(t, err)
	require.Len(t, final.Albums, 2, "neither concurrent add may be lost")
	assert.Equal(t, int64(2), final.CollectionVersion)
}
