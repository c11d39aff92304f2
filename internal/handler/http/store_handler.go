package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lucashenrq/pedeja/internal/storage"
	"github.com/lucashenrq/pedeja/internal/store"
)

const maxUploadSize = 10 << 20

type StoreStatusRequest struct {
	Status string `json:"status"`
}

type StoreHandler struct {
	service store.Service
	photos  *storage.Bucket
}

func NewStoreHandler(service store.Service, photos *storage.Bucket) *StoreHandler {
	return &StoreHandler{service: service, photos: photos}
}

func (h *StoreHandler) RegisterRoutes(router chi.Router) {
	router.Get("/stores", h.handleListStores)
	router.Post("/partner/store", h.handleCreateStore)
	router.Patch("/partner/store/{id}/status", h.handleSetStatus)
}

// handleListStores returns the public marketplace listing: online stores only.
func (h *StoreHandler) handleListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.service.ListOnline(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list stores via service")
		respondWithError(w, mapErrorToStatusCode(err), "failed to list stores")
		return
	}

	respondWithJSON(w, http.StatusOK, stores)
}

// handleCreateStore accepts a multipart form with the store fields plus the
// optional parking and interior photo files.
func (h *StoreHandler) handleCreateStore(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	ownerID, err := uuid.FromString(r.FormValue("owner_id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid owner_id")
		return
	}

	deliveryFee, err := strconv.ParseFloat(r.FormValue("delivery_fee"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid delivery_fee")
		return
	}

	domainStore := store.Store{
		OwnerID:     ownerID,
		Name:        r.FormValue("name"),
		Phone:       r.FormValue("phone"),
		Address:     r.FormValue("address"),
		Email:       optionalFormValue(r, "email"),
		WhatsApp:    optionalFormValue(r, "whatsapp"),
		Category:    r.FormValue("category"),
		DeliveryFee: deliveryFee,
	}

	if raw := r.FormValue("min_free_delivery"); raw != "" {
		minFree, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid min_free_delivery")
			return
		}
		domainStore.MinFreeDelivery = &minFree
	}

	if url, ok := h.savePhotoField(r, "parking"); ok {
		domainStore.ParkingPhoto = &url
	}
	if url, ok := h.savePhotoField(r, "interior"); ok {
		domainStore.InteriorPhoto = &url
	}

	created, err := h.service.Create(r.Context(), &domainStore)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create store via service")

		clientMessage := "failed to create store"
		if errors.Is(err, store.ErrOwnerExists) {
			clientMessage = "owner already has a store"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, created)
}

func (h *StoreHandler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	storeID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("store_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var requestPayload StoreStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	err = h.service.SetStatus(r.Context(), storeID, store.Status(requestPayload.Status))
	if err != nil {
		log.Error().Err(err).Stringer("store_id", storeID).Msg("Failed to update store status via service")
		respondWithError(w, mapErrorToStatusCode(err), "failed to update store status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// savePhotoField stores an optional multipart file field in the photos bucket
// and returns its public URL.
func (h *StoreHandler) savePhotoField(r *http.Request, field string) (string, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", false
	}
	defer file.Close()

	url, err := h.photos.Save(file, header.Filename)
	if err != nil {
		log.Error().Err(err).Str("field", field).Msg("Failed to save uploaded photo")
		return "", false
	}
	return url, true
}

func optionalFormValue(r *http.Request, field string) *string {
	if v := r.FormValue(field); v != "" {
		return &v
	}
	return nil
}
