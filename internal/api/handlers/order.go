package handlers

import (
	"log/slog"
	"net/http"

	"github.com/carbonmarket/carbon-marketplace/internal/api/middleware"
	"github.com/carbonmarket/carbon-marketplace/internal/backing"
	apperrors "github.com/carbonmarket/carbon-marketplace/internal/errors"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
	"github.com/carbonmarket/carbon-marketplace/internal/utils"
	"github.com/carbonmarket/carbon-marketplace/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	service   backing.Service
	validator *validator.Validate
}

func NewOrderHandler(service backing.Service) *OrderHandler {
	return &OrderHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := models.OrderFilters{
			Status:    models.OrderStatus(r.URL.Query().Get("status")),
			BuyerName: r.URL.Query().Get("buyerName"),
		}

		orders, err := h.service.ListOrders(r.Context(), filters)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.WriteJSON(w, http.StatusOK, orders)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			response.Error(w, apperrors.BadRequestError("Order ID is required"))

			return
		}

		order, err := h.service.GetOrder(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.WriteJSON(w, http.StatusOK, order)
	}
}

// CreateOrder creates one PENDING order per item, reserving each batch. The
// price in each item is the caller's add-to-cart snapshot and is billed as
// sent.
func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		orders, err := h.service.CreateOrder(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create order", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Orders created", slog.Int("count", len(orders)), slog.String("buyerName", req.BuyerName))
		response.WriteJSON(w, http.StatusCreated, orders)
	}
}

// UpdateOrder only supports the CANCELLED transition; cancelling a
// non-PENDING order is rejected with a conflict, never silently ignored.
func (h *OrderHandler) UpdateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, apperrors.BadRequestError("Order ID is required"))

			return
		}

		var req models.UpdateOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		order, err := h.service.CancelOrder(r.Context(), id)
		if err != nil {
			logger.Warn("Order cancellation rejected", slog.String("orderId", id), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Order cancelled", slog.String("orderId", id))
		response.WriteJSON(w, http.StatusOK, order)
	}
}
