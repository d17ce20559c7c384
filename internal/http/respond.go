package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Mega4Real/ednascollectionnew/internal/notify"
	"github.com/Mega4Real/ednascollectionnew/internal/repository"
	"github.com/Mega4Real/ednascollectionnew/internal/service"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// handleServiceError maps the service error taxonomy onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProductNotFound),
		errors.Is(err, repository.ErrOrderNotFound),
		errors.Is(err, repository.ErrDiscountNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, notify.ErrRegistryFull):
		respondError(w, http.StatusServiceUnavailable, "too many connections")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "server error")
	}
}
