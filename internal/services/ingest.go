package service

import (
	"context"

	"github.com/carbonmarket/carbon-marketplace/internal/backing"
	apperrors "github.com/carbonmarket/carbon-marketplace/internal/errors"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
	"github.com/go-playground/validator/v10"
)

// IngestService submits ingestion events: the asynchronous path that creates
// a project together with its first batch in one request.
type IngestService struct {
	backing  backing.Service
	validate *validator.Validate
}

func NewIngestService(backingService backing.Service) *IngestService {
	return &IngestService{
		backing:  backingService,
		validate: validator.New(),
	}
}

func (s *IngestService) Ingest(ctx context.Context, event *models.IngestEvent) (*models.IngestResult, error) {
	if err := s.validate.Struct(event); err != nil {
		return nil, apperrors.ValidationError("Invalid ingestion event").WithError(err)
	}

	return s.backing.Ingest(ctx, event)
}
