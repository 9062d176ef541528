// Helper functions for sending standardized JSON responses.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmarreira/tankobon/internal/ingest"
	"github.com/dmarreira/tankobon/internal/library"
	"github.com/dmarreira/tankobon/internal/store"
	"github.com/dmarreira/tankobon/internal/user"
)

// RespondWithJSON writes a JSON response with the given status code and payload.
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to marshal response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithError writes a standardized JSON error response.
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]interface{}{"success": false, "message": message})
}

// RespondWithSuccess writes the standard result shape for mutations.
func RespondWithSuccess(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]interface{}{"success": true, "message": message})
}

// respondWithStoreError maps the storage and ingestion sentinel errors onto
// HTTP status codes.
func respondWithStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ingest.ErrInvalidChapterID), errors.Is(err, user.ErrInvalidInput):
		RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, library.ErrInvalidChapterName):
		RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		RespondWithError(w, http.StatusInternalServerError, err.Error())
	}
}
