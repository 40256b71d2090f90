// Package backing defines the data/order service contract the client depends
// on. Two implementations exist: a REST client for the real API and an
// in-memory fixture store for offline development. Configuration picks one at
// startup; the two are never mixed within a session.
package backing

import (
	"context"

	"github.com/carbonmarket/carbon-marketplace/internal/models"
)

type Service interface {
	ListProjects(ctx context.Context) ([]models.Project, error)
	GetProject(ctx context.Context, id string) (*models.Project, error)
	GetProjectAggregate(ctx context.Context, id string) (*models.AggregateProject, error)
	CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error)
	UpdateProject(ctx context.Context, id string, req *models.UpdateProjectRequest) (*models.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListBatches(ctx context.Context, filters models.BatchFilters) ([]models.Batch, error)
	GetBatch(ctx context.Context, id string) (*models.Batch, error)
	CreateBatch(ctx context.Context, req *models.CreateBatchRequest) (*models.Batch, error)
	UpdateBatch(ctx context.Context, id string, req *models.UpdateBatchRequest) (*models.Batch, error)
	DeleteBatch(ctx context.Context, id string) error

	ListOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	// CreateOrder creates one order per item in the request. The checkout flow
	// always submits a single-item request per cart line so a partial failure
	// never spans lines.
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest) ([]models.Order, error)
	// CancelOrder transitions a PENDING order to CANCELLED. Cancelling an
	// order in any other status is rejected with a conflict error.
	CancelOrder(ctx context.Context, id string) (*models.Order, error)

	Ingest(ctx context.Context, event *models.IngestEvent) (*models.IngestResult, error)
}
