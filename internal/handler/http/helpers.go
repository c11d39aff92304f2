package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/lucashenrq/pedeja/internal/order"
	"github.com/lucashenrq/pedeja/internal/product"
	"github.com/lucashenrq/pedeja/internal/store"
	"github.com/lucashenrq/pedeja/internal/user"
)

// respondWithError sends the flat {"error": ...} body every route uses.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		log.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// mapErrorToStatusCode keeps the original's flat taxonomy: 401 for bad
// credentials, 400 for anything the caller got wrong, 500 for the rest.
func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, user.ErrPhoneExists),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, store.ErrOwnerExists),
		errors.Is(err, store.ErrInvalidStatus),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, order.ErrOrderNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondValidationError(w http.ResponseWriter, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		respondWithError(w, http.StatusBadRequest, "validation failed: "+validationErrors.Error())
		return
	}
	log.Error().Err(err).Type("validation_error_type", err).Msg("Unexpected error type during validation")
	respondWithError(w, http.StatusInternalServerError, "internal validation error")
}
