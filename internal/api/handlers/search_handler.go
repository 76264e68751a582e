package handlers

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/avasquez/recordshelf-be/internal/musicsearch"
)

// SearchHandler proxies album searches to the music catalog through the
// memoizing cache.
type SearchHandler struct {
	searcher musicsearch.Searcher
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(searcher musicsearch.Searcher) *SearchHandler {
	return &SearchHandler{searcher: searcher}
}

// Search handles GET /api/search?q=<string>.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": "query parameter missing",
		})
		return
	}

	candidates, err := h.searcher.SearchAlbums(r.Context(), query)
	if err != nil {
		log.Error().Err(err).Str("query", query).Msg("Album search failed")
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, candidates)
}
