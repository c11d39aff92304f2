package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lucashenrq/pedeja/internal/product"
	"github.com/lucashenrq/pedeja/internal/storage"
)

type ProductHandler struct {
	service product.Service
	photos  *storage.Bucket
}

func NewProductHandler(service product.Service, photos *storage.Bucket) *ProductHandler {
	return &ProductHandler{service: service, photos: photos}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router) {
	router.Get("/stores/{id}/products", h.handleListByStore)
	router.Post("/partner/products", h.handleCreateProduct)
	router.Delete("/partner/products/{id}", h.handleDeleteProduct)
}

// handleListByStore returns only products currently available for ordering.
func (h *ProductHandler) handleListByStore(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	storeID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("store_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	products, err := h.service.ListAvailableByStore(r.Context(), storeID)
	if err != nil {
		log.Error().Err(err).Stringer("store_id", storeID).Msg("Failed to list products via service")
		respondWithError(w, mapErrorToStatusCode(err), "failed to list products")
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	storeID, err := uuid.FromString(r.FormValue("store_id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid store_id")
		return
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid price")
		return
	}

	domainProduct := product.Product{
		StoreID:     storeID,
		Name:        r.FormValue("name"),
		Description: optionalFormValue(r, "description"),
		Price:       price,
		Category:    r.FormValue("category"),
	}

	if file, header, err := r.FormFile("photo"); err == nil {
		defer file.Close()
		if url, saveErr := h.photos.Save(file, header.Filename); saveErr == nil {
			domainProduct.Photo = &url
		} else {
			log.Error().Err(saveErr).Msg("Failed to save uploaded product photo")
		}
	}

	created, err := h.service.Create(r.Context(), &domainProduct)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create product via service")
		respondWithError(w, mapErrorToStatusCode(err), "failed to create product")
		return
	}

	respondWithJSON(w, http.StatusOK, created)
}

func (h *ProductHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	productID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("product_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	// The photo object is left behind on purpose: the bucket never deletes.
	err = h.service.Delete(r.Context(), productID)
	if err != nil {
		log.Error().Err(err).Stringer("product_id", productID).Msg("Failed to delete product via service")

		clientMessage := "failed to delete product"
		if errors.Is(err, product.ErrNotFound) {
			clientMessage = "product not found"
		}
		respondWithError(w, mapErrorToStatusCode(err), clientMessage)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
