package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/lucashenrq/pedeja/internal/order"
)

type OrderItemRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid4"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"gte=0"`
}

type CreateOrderRequest struct {
	ClientID      string             `json:"client_id" validate:"required,uuid4"`
	StoreID       string             `json:"store_id" validate:"required,uuid4"`
	Total         float64            `json:"total" validate:"gte=0"`
	PaymentMethod string             `json:"payment_method" validate:"required,oneof=pix card cash"`
	ChangeFor     *float64           `json:"change_for,omitempty"`
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderHandler struct {
	service  order.Service
	validate *validator.Validate
}

func NewOrderHandler(service order.Service) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Post("/orders", h.handleCreateOrder)
	router.Get("/orders/client/{id}", h.handleListByClient)
	router.Get("/orders/store/{id}", h.handleListByStore)
	router.Patch("/orders/{id}/status", h.handleSetStatus)
}

func (h *OrderHandler) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var requestPayload CreateOrderRequest

	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode order request body")
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondValidationError(w, err)
		return
	}

	clientID, _ := uuid.FromString(requestPayload.ClientID)
	storeID, _ := uuid.FromString(requestPayload.StoreID)

	domainOrder := order.Order{
		ClientID:      clientID,
		StoreID:       storeID,
		Total:         requestPayload.Total,
		PaymentMethod: order.PaymentMethod(requestPayload.PaymentMethod),
		ChangeFor:     requestPayload.ChangeFor,
	}

	for _, item := range requestPayload.Items {
		productID, _ := uuid.FromString(item.ProductID)
		domainOrder.Items = append(domainOrder.Items, order.OrderItem{
			ProductID: productID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	orderID, err := h.service.CreateOrder(r.Context(), &domainOrder)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create order via service")
		respondWithError(w, mapErrorToStatusCode(err), "failed to create order")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"orderId": orderID})
}

func (h *OrderHandler) handleListByClient(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	clientID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("client_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	orders, err := h.service.ListByClientID(r.Context(), clientID)
	if err != nil {
		log.Error().Err(err).Stringer("client_id", clientID).Msg("Failed to list client orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleListByStore(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	storeID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("store_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	orders, err := h.service.ListByStoreID(r.Context(), storeID)
	if err != nil {
		log.Error().Err(err).Stringer("store_id", storeID).Msg("Failed to list store orders via service")
		respondWithError(w, mapErrorToStatusCode(err), "failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

// handleSetStatus overwrites the order's status with whatever label was sent.
// Ownership of the order's store is not checked here; only the owning
// partner's dashboard exposes the control.
func (h *OrderHandler) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")
	orderID, err := uuid.FromString(idParam)
	if err != nil {
		log.Warn().Err(err).Str("order_id", idParam).Msg("Failed to parse id parameter from URL")
		respondWithError(w, http.StatusBadRequest, "invalid id parameter")
		return
	}

	var requestPayload OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondValidationError(w, err)
		return
	}

	err = h.service.SetStatus(r.Context(), orderID, order.Status(requestPayload.Status))
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusBadRequest, "order not found")
			return
		}
		log.Error().Err(err).Stringer("order_id", orderID).Msg("Failed to update order status via service")
		respondWithError(w, mapErrorToStatusCode(err), "failed to update order status")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
