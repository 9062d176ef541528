package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request) {
	all, err := s.collections.List()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusOK, all)
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	c, err := s.collections.Create(payload.Name, payload.Description)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusCreated, c)
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request) {
	c, err := s.collections.Get(chi.URLParam(r, "collectionName"))
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := s.collections.Delete(chi.URLParam(r, "collectionName")); err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithSuccess(w, http.StatusOK, "Collection deleted.")
}

func (s *Server) handleCollectionAddSeries(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SeriesName string `json:"series_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.SeriesName == "" {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	c, err := s.collections.AddSeries(chi.URLParam(r, "collectionName"), payload.SeriesName)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, c)
}

func (s *Server) handleCollectionRemoveSeries(w http.ResponseWriter, r *http.Request) {
	c, err := s.collections.RemoveSeries(chi.URLParam(r, "collectionName"), chi.URLParam(r, "seriesName"))
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, c)
}

func (s *Server) handleAddCollectionComment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Comment == "" {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	c, err := s.collections.AddComment(chi.URLParam(r, "collectionName"), payload.Comment)
	if err != nil {
		respondWithStoreError(w, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, c)
}
