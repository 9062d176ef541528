package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleRateSeries(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Rating float64 `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	series, err := s.users.RateSeries(chi.URLParam(r, "seriesName"), payload.Rating)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, series)
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	series, err := s.users.ToggleFavorite(chi.URLParam(r, "seriesName"))
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, series)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	series, err := s.users.SetStatus(chi.URLParam(r, "seriesName"), payload.Status)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, series)
}

func (s *Server) handleAddSeriesComment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Comment == "" {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	series, err := s.users.AddComment(chi.URLParam(r, "seriesName"), payload.Comment)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, series)
}

func (s *Server) handleMarkChapterRead(w http.ResponseWriter, r *http.Request) {
	chapterID, err := strconv.ParseInt(chi.URLParam(r, "chapterID"), 10, 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid chapter id")
		return
	}
	var payload struct {
		Page int `json:"page"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	series, err := s.users.MarkChapterRead(chi.URLParam(r, "seriesName"), chapterID, payload.Page)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, series)
}
