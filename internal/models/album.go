package models

// AlbumEntry is a saved album inside a user's collection. The ID comes from
// the search provider, not from the database, and is unique within one
// collection.
type AlbumEntry struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
	Cover  string `json:"cover"`
	Year   *int   `json:"year"`
}

// Thumbnail is one resolution tier of an album cover.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Artist identifies the performer of an album candidate.
type Artist struct {
	ArtistID string `json:"artistId"`
	Name     string `json:"name"`
}

// AlbumCandidate is a transient search result from the music catalog. It is
// never persisted directly; it is projected into an AlbumEntry before saving.
type AlbumCandidate struct {
	AlbumID    string      `json:"albumId"`
	Name       string      `json:"name"`
	Artist     Artist      `json:"artist"`
	Thumbnails []Thumbnail `json:"thumbnails"`
	Year       *int        `json:"year"`
}

// coverThumbnailIndex selects the resolution tier used as the saved cover.
const coverThumbnailIndex = 3

// ProjectCandidate converts a search result into the entry shape stored in a
// collection. The cover is taken from the fourth thumbnail tier, falling back
// to the last available one for providers that return fewer.
func ProjectCandidate(c AlbumCandidate) AlbumEntry {
	var cover string
	if len(c.Thumbnails) > coverThumbnailIndex {
		cover = c.Thumbnails[coverThumbnailIndex].URL
	} else if len(c.Thumbnails) > 0 {
		cover = c.Thumbnails[len(c.Thumbnails)-1].URL
	}

	return AlbumEntry{
		ID:     c.AlbumID,
		Name:   c.Name,
		Artist: c.Artist.Name,
		Cover:  cover,
		Year:   c.Year,
	}
}
