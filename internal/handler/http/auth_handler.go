package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/lucashenrq/pedeja/internal/store"
	"github.com/lucashenrq/pedeja/internal/user"
)

type RegisterRequest struct {
	Name      string  `json:"name" validate:"required"`
	Phone     string  `json:"phone" validate:"required"`
	Email     *string `json:"email,omitempty"`
	PIN       string  `json:"pin" validate:"required,numeric"`
	Address   *string `json:"address,omitempty"`
	Reference *string `json:"reference,omitempty"`
	Role      string  `json:"role" validate:"required,oneof=client partner"`
}

type LoginRequest struct {
	Phone string `json:"phone" validate:"required"`
	PIN   string `json:"pin" validate:"required"`
}

// LoginResponse carries the user plus their store, which is null for clients
// and for partners who have not created one yet.
type LoginResponse struct {
	User  *user.User   `json:"user"`
	Store *store.Store `json:"store"`
}

type AuthHandler struct {
	userService  user.Service
	storeService store.Service
	validate     *validator.Validate
}

func NewAuthHandler(userService user.Service, storeService store.Service) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		storeService: storeService,
		validate:     validator.New(),
	}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/register", h.handleRegister)
	router.Post("/auth/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var requestPayload RegisterRequest

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode register request body")
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondValidationError(w, err)
		return
	}

	domainUser := user.User{
		Name:      requestPayload.Name,
		Phone:     requestPayload.Phone,
		Email:     requestPayload.Email,
		PIN:       requestPayload.PIN,
		Address:   requestPayload.Address,
		Reference: requestPayload.Reference,
		Role:      user.Role(requestPayload.Role),
	}

	id, err := h.userService.Register(r.Context(), &domainUser)
	if err != nil {
		log.Error().Err(err).Msg("Failed to register user via service")

		clientMessage := "failed to register user"
		if errors.Is(err, user.ErrPhoneExists) {
			clientMessage = "phone already registered"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"id": id})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var requestPayload LoginRequest

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode login request body")
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondValidationError(w, err)
		return
	}

	loggedIn, err := h.userService.Login(r.Context(), requestPayload.Phone, requestPayload.PIN)
	if err != nil {
		// One message for unknown phone and wrong PIN alike.
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Error().Err(err).Msg("Failed to log in via service")
		respondWithError(w, mapErrorToStatusCode(err), "failed to log in")
		return
	}

	responsePayload := LoginResponse{User: loggedIn}

	ownedStore, err := h.storeService.GetByOwnerID(r.Context(), loggedIn.ID)
	if err == nil {
		responsePayload.Store = ownedStore
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Stringer("user_id", loggedIn.ID).Msg("Failed to fetch store for login response")
		respondWithError(w, mapErrorToStatusCode(err), "failed to log in")
		return
	}

	respondWithJSON(w, http.StatusOK, responsePayload)
}
