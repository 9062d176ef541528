package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// handleIngest extracts the next batch of chapters for a series.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Quantity < 0 {
		RespondWithError(w, http.StatusBadRequest, "Quantity must not be negative")
		return
	}

	name := chi.URLParam(r, "seriesName")
	lastPath, err := s.pipeline.Ingest(r.Context(), name, payload.Quantity)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	if lastPath == "" {
		RespondWithSuccess(w, http.StatusOK, "Series is already up to date.")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"message":   fmt.Sprintf("Ingested chapters up to %s", lastPath),
		"last_path": lastPath,
	})
}

// handleIngestChapter extracts one chapter by its id.
func (s *Server) handleIngestChapter(w http.ResponseWriter, r *http.Request) {
	chapterID, err := strconv.ParseInt(chi.URLParam(r, "chapterID"), 10, 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid chapter id")
		return
	}

	series, err := s.store.ReadByName(chi.URLParam(r, "seriesName"))
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	chapterPath, err := s.pipeline.IngestByID(r.Context(), series.DataPath, chapterID)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      fmt.Sprintf("Ingested chapter %d", chapterID),
		"chapter_path": chapterPath,
	})
}
