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

type BatchHandler struct {
	service   backing.Service
	validator *validator.Validate
}

func NewBatchHandler(service backing.Service) *BatchHandler {
	return &BatchHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *BatchHandler) ListBatches() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := models.BatchFilters{
			Status:    models.BatchStatus(r.URL.Query().Get("status")),
			ProjectID: r.URL.Query().Get("projectId"),
		}

		batches, err := h.service.ListBatches(r.Context(), filters)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.WriteJSON(w, http.StatusOK, batches)
	}
}

func (h *BatchHandler) GetBatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			response.Error(w, apperrors.BadRequestError("Batch ID is required"))

			return
		}

		batch, err := h.service.GetBatch(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.WriteJSON(w, http.StatusOK, batch)
	}
}

func (h *BatchHandler) CreateBatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateBatchRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		batch, err := h.service.CreateBatch(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create batch", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Batch created", slog.String("batchId", batch.ID), slog.String("projectId", batch.ProjectID))
		response.WriteJSON(w, http.StatusCreated, batch)
	}
}

func (h *BatchHandler) UpdateBatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, apperrors.BadRequestError("Batch ID is required"))

			return
		}

		var req models.UpdateBatchRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		batch, err := h.service.UpdateBatch(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update batch", slog.String("batchId", id), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.WriteJSON(w, http.StatusOK, batch)
	}
}

func (h *BatchHandler) DeleteBatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, apperrors.BadRequestError("Batch ID is required"))

			return
		}

		if err := h.service.DeleteBatch(r.Context(), id); err != nil {
			logger.Error("Failed to delete batch", slog.String("batchId", id), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.WriteJSON(w, http.StatusNoContent, nil)
	}
}
