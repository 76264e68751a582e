package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectCandidate(t *testing.T) {
	year := 1969
	thumbs := []Thumbnail{
		{URL: "https://img/60.jpg", Width: 60},
		{URL: "https://img/120.jpg", Width: 120},
		{URL: "https://img/226.jpg", Width: 226},
		{URL: "https://img/544.jpg", Width: 544},
		{URL: "https://img/1000.jpg", Width: 1000},
	}

	tests := []struct {
		name      string
		candidate AlbumCandidate
		wantCover string
	}{
		{
			name: "picks the fourth thumbnail tier",
			candidate: AlbumCandidate{
				AlbumID: "MPREb_1", Name: "Abbey Road",
				Artist: Artist{Name: "The Beatles"}, Thumbnails: thumbs, Year: &year,
			},
			wantCover: "https://img/544.jpg",
		},
		{
			name: "falls back to the last tier when fewer are offered",
			candidate: AlbumCandidate{
				AlbumID: "MPREb_2", Name: "Revolver",
				Artist: Artist{Name: "The Beatles"}, Thumbnails: thumbs[:2],
			},
			wantCover: "https://img/120.jpg",
		},
		{
			name: "no thumbnails yields no cover",
			candidate: AlbumCandidate{
				AlbumID: "MPREb_3", Name: "Help",
				Artist: Artist{Name: "The Beatles"},
			},
			wantCover: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := ProjectCandidate(tt.candidate)
			assert.Equal(t, tt.candidate.AlbumID, entry.ID)
			assert.Equal(t, tt.candidate.Name, entry.Name)
			assert.Equal(t, tt.candidate.Artist.Name, entry.Artist)
			assert.Equal(t, tt.candidate.Year, entry.Year)
			assert.Equal(t, tt.wantCover, entry.Cover)
		})
	}
}
