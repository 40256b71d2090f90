package service

import (
	"context"

	"github.com/carbonmarket/carbon-marketplace/internal/backing"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
	"github.com/stretchr/testify/mock"
)

// mockBacking stubs the methods the services under test reach for; everything
// else panics through the embedded interface.
type mockBacking struct {
	mock.Mock
	backing.Service
}

func (m *mockBacking) ListProjects(ctx context.Context) ([]models.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Project), args.Error(1)
}

func (m *mockBacking) ListBatches(ctx context.Context, filters models.BatchFilters) ([]models.Batch, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Batch), args.Error(1)
}

func (m *mockBacking) GetProjectAggregate(ctx context.Context, id string) (*models.AggregateProject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.AggregateProject), args.Error(1)
}

func (m *mockBacking) CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Project), args.Error(1)
}

func (m *mockBacking) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) ([]models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *mockBacking) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *mockBacking) Ingest(ctx context.Context, event *models.IngestEvent) (*models.IngestResult, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.IngestResult), args.Error(1)
}
