package musicsearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasquez/recordshelf-be/internal/models"
)

func TestSearchAlbums(t *testing.T) {
	year := 1969

	tests := []struct {
		name       string
		status     int
		body       any
		wantErr    bool
		wantAlbums int
	}{
		{
			name:   "parses candidates",
			status: http.StatusOK,
			body: []models.AlbumCandidate{
				{
					AlbumID: "MPREb_1",
					Name:    "Abbey Road",
					Artist:  models.Artist{ArtistID: "UC1", Name: "The Beatles"},
					Thumbnails: []models.Thumbnail{
						{URL: "https://img/60.jpg", Width: 60, Height: 60},
						{URL: "https://img/120.jpg", Width: 120, Height: 120},
						{URL: "https://img/226.jpg", Width: 226, Height: 226},
						{URL: "https://img/544.jpg", Width: 544, Height: 544},
					},
					Year: &year,
				},
			},
			wantAlbums: 1,
		},
		{
			name:       "null body becomes empty list",
			status:     http.StatusOK,
			body:       nil,
			wantAlbums: 0,
		},
		{
			name:    "provider error",
			status:  http.StatusBadGateway,
			body:    map[string]string{"error": "upstream broke"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/search/albums", r.URL.Path)
				assert.Equal(t, "beatles", r.URL.Query().Get("q"))
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			client := NewClient(srv.URL)
			albums, err := client.SearchAlbums(context.Background(), "beatles")

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUpstream)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, albums)
			assert.Len(t, albums, tt.wantAlbums)
		})
	}
}

func TestSearchAlbumsUnreachableProvider(t *testing.T) {
	client := NewClient("http://127.0.0.1:0")
	_, err := client.SearchAlbums(context.Background(), "beatles")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstream)
}
