package handlers

import (
	"log/slog"
	"net/http"

	"github.com/carbonmarket/carbon-marketplace/internal/api/middleware"
	"github.com/carbonmarket/carbon-marketplace/internal/backing"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
	"github.com/carbonmarket/carbon-marketplace/internal/utils"
	"github.com/carbonmarket/carbon-marketplace/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type EventHandler struct {
	service   backing.Service
	validator *validator.Validate
}

func NewEventHandler(service backing.Service) *EventHandler {
	return &EventHandler{
		service:   service,
		validator: validator.New(),
	}
}

// Ingest accepts the asynchronous creation path: a project and its first
// batch in one submission.
func (h *EventHandler) Ingest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var event models.IngestEvent
		if !utils.ParseAndValidate(r, w, &event, h.validator) {
			return
		}

		result, err := h.service.Ingest(r.Context(), &event)
		if err != nil {
			logger.Error("Failed to ingest event", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Ingest event accepted",
			slog.String("projectId", result.ProjectID),
			slog.String("batchId", result.BatchID),
		)
		response.WriteJSON(w, http.StatusAccepted, result)
	}
}
