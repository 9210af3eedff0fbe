package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/ijlaln/footycount-app/internal/matches"
	"github.com/ijlaln/footycount-app/internal/players"
)

// Machine-readable error kinds returned alongside every failure message.
const (
	errKindValidation        = "validation_error"
	errKindUnauthenticated   = "unauthenticated"
	errKindForbidden         = "forbidden"
	errKindDuplicateUsername = "duplicate_username"
	errKindDuplicateJersey   = "duplicate_jersey"
	errKindAdminExists       = "admin_exists"
	errKindNotFound          = "not_found"
	errKindStoreError        = "store_error"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, kind, message string) {
	respondJSON(w, status, errorResponse{Error: kind, Message: message})
}

// respondStoreError maps domain sentinels onto status codes and error
// kinds. Unknown errors surface as a generic 500 with the detail logged,
// not leaked.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, players.ErrDuplicateUsername):
		respondError(w, http.StatusConflict, errKindDuplicateUsername, err.Error())
	case errors.Is(err, players.ErrDuplicateJersey):
		respondError(w, http.StatusConflict, errKindDuplicateJersey, err.Error())
	case errors.Is(err, players.ErrAdminExists):
		respondError(w, http.StatusConflict, errKindAdminExists, err.Error())
	case errors.Is(err, players.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, errKindUnauthenticated, err.Error())
	case errors.Is(err, players.ErrWeakPassword):
		respondError(w, http.StatusBadRequest, errKindValidation, err.Error())
	case errors.Is(err, players.ErrNotFound), errors.Is(err, matches.ErrNotFound):
		respondError(w, http.StatusNotFound, errKindNotFound, err.Error())
	case errors.Is(err, players.ErrValidation), errors.Is(err, matches.ErrValidation):
		respondError(w, http.StatusBadRequest, errKindValidation, err.Error())
	default:
		log.Error("Store operation failed", "error", err)
		respondError(w, http.StatusInternalServerError, errKindStoreError, "internal error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, errKindValidation, "invalid request body")
		return false
	}
	return true
}

// pathID parses the {id} wildcard of the matched route.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, errKindValidation, "invalid id")
		return 0, false
	}
	return id, true
}
