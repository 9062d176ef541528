package api

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/dmarreira/tankobon/internal/covers"
)

func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.ListSeries()
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, all)
}

func (s *Server) handleGetSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.store.ReadByName(chi.URLParam(r, "seriesName"))
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, series)
}

// handleGetCover serves the series cover image. With ?thumb=1 the image is
// resized on the fly.
func (s *Server) handleGetCover(w http.ResponseWriter, r *http.Request) {
	series, err := s.store.ReadByName(chi.URLParam(r, "seriesName"))
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	if series.CoverImage == "" {
		RespondWithError(w, http.StatusNotFound, "Series has no cover")
		return
	}

	if r.URL.Query().Get("thumb") != "1" {
		http.ServeFile(w, r, series.CoverImage)
		return
	}

	data, err := os.ReadFile(series.CoverImage)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to read cover")
		return
	}
	thumb, err := covers.Thumbnail(data)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to generate thumbnail")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	w.Write(thumb)
}

func (s *Server) handleReturnPage(w http.ResponseWriter, r *http.Request) {
	url, err := s.users.ReturnPage(chi.URLParam(r, "seriesName"))
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"url": url})
}
