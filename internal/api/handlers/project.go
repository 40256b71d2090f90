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

type ProjectHandler struct {
	service   backing.Service
	validator *validator.Validate
}

func NewProjectHandler(service backing.Service) *ProjectHandler {
	return &ProjectHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *ProjectHandler) ListProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.service.ListProjects(r.Context())
		if err != nil {
			response.Error(w, err)

			return
		}

		response.WriteJSON(w, http.StatusOK, projects)
	}
}

func (h *ProjectHandler) GetProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			response.Error(w, apperrors.BadRequestError("Project ID is required"))

			return
		}

		project, err := h.service.GetProject(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.WriteJSON(w, http.StatusOK, project)
	}
}

// GetAggregate serves the detail-page view: the project plus its batches and
// up to five most recent orders.
func (h *ProjectHandler) GetAggregate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			response.Error(w, apperrors.BadRequestError("Project ID is required"))

			return
		}

		aggregate, err := h.service.GetProjectAggregate(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.WriteJSON(w, http.StatusOK, aggregate)
	}
}

func (h *ProjectHandler) CreateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProjectRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		project, err := h.service.CreateProject(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create project", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Project created", slog.String("projectId", project.ID))
		response.WriteJSON(w, http.StatusCreated, project)
	}
}

func (h *ProjectHandler) UpdateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, apperrors.BadRequestError("Project ID is required"))

			return
		}

		var req models.UpdateProjectRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		project, err := h.service.UpdateProject(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update project", slog.String("projectId", id), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.WriteJSON(w, http.StatusOK, project)
	}
}

func (h *ProjectHandler) DeleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id := r.PathValue("id")
		if id == "" {
			response.Error(w, apperrors.BadRequestError("Project ID is required"))

			return
		}

		if err := h.service.DeleteProject(r.Context(), id); err != nil {
			logger.Error("Failed to delete project", slog.String("projectId", id), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Project deleted", slog.String("projectId", id))
		response.WriteJSON(w, http.StatusNoContent, nil)
	}
}
