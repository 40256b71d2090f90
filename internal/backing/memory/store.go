// Package memory implements the backing contract as a fixture-seeded
// in-process store. Unlike the REST backing it owns the batches collection, so
// it also performs the batch status flips a real backend would do server-side.
package memory

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carbonmarket/carbon-marketplace/internal/backing"
	apperrors "github.com/carbonmarket/carbon-marketplace/internal/errors"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
	"github.com/carbonmarket/carbon-marketplace/internal/state"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// dataset is the persisted shape of the mock store.
type dataset struct {
	Projects []models.Project `json:"projects"`
	Batches  []models.Batch   `json:"batches"`
	Orders   []models.Order   `json:"orders"`
}

type Store struct {
	mu        sync.Mutex
	projects  []models.Project
	batches   []models.Batch
	orders    []models.Order
	persist   state.Store
	sanitizer *bluemonday.Policy
	now       func() time.Time
}

var _ backing.Service = (*Store)(nil)

// NewStore seeds the store from fixtures, or from a previously persisted
// dataset when persist is non-nil and holds one. Pass nil for a throwaway
// session.
func NewStore(persist state.Store) *Store {
	s := &Store{
		persist:   persist,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
	}

	s.seed()

	return s
}

func (s *Store) seed() {
	if s.persist != nil {
		var data dataset

		found, err := s.persist.Load(state.DatasetKey, &data)
		if err != nil {
			slog.Warn("Failed to load persisted dataset, falling back to fixtures", slog.String("error", err.Error()))
		} else if found {
			s.projects, s.batches, s.orders = data.Projects, data.Batches, data.Orders

			return
		}
	}

	s.projects = fixtureProjects()
	s.batches = fixtureBatches()
	s.orders = fixtureOrders()
}

// save persists the dataset under its namespace. Persistence is best-effort
// housekeeping: a failed save is logged and the in-memory state stays valid.
func (s *Store) save() {
	if s.persist == nil {
		return
	}

	data := dataset{Projects: s.projects, Batches: s.batches, Orders: s.orders}
	if err := s.persist.Save(state.DatasetKey, data); err != nil {
		slog.Warn("Failed to persist mock dataset", slog.String("error", err.Error()))
	}
}

// Reset discards every mutation made this session and restores the fixtures.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects = fixtureProjects()
	s.batches = fixtureBatches()
	s.orders = fixtureOrders()
	s.save()
}

func (s *Store) clean(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

func (s *Store) ListProjects(_ context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Project, len(s.projects))
	copy(out, s.projects)

	return out, nil
}

func (s *Store) GetProject(_ context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findProject(id)
}

func (s *Store) findProject(id string) (*models.Project, error) {
	for i := range s.projects {
		if s.projects[i].ID == id {
			project := s.projects[i]

			return &project, nil
		}
	}

	return nil, apperrors.NotFoundError("Project not found")
}

func (s *Store) GetProjectAggregate(_ context.Context, id string) (*models.AggregateProject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, err := s.findProject(id)
	if err != nil {
		return nil, err
	}

	batches := make([]models.Batch, 0)

	for _, b := range s.batches {
		if b.ProjectID == id {
			batches = append(batches, b)
		}
	}

	lastOrders := make([]models.Order, 0)

	for _, o := range s.orders {
		if o.ProjectID == id {
			lastOrders = append(lastOrders, o)
		}
	}

	sort.Slice(lastOrders, func(i, j int) bool {
		return lastOrders[i].CreatedAt.After(lastOrders[j].CreatedAt)
	})

	if len(lastOrders) > 5 {
		lastOrders = lastOrders[:5]
	}

	return &models.AggregateProject{Project: *project, Batches: batches, LastOrders: lastOrders}, nil
}

func (s *Store) CreateProject(_ context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project := models.Project{
		ID:          "proj-" + uuid.NewString(),
		Name:        s.clean(req.Name),
		Location:    s.clean(req.Location),
		Hectares:    req.Hectares,
		Description: s.clean(req.Description),
		Certifier:   s.clean(req.Certifier),
		CreatedAt:   s.now(),
	}

	s.projects = append(s.projects, project)
	s.save()

	return &project, nil
}

func (s *Store) UpdateProject(_ context.Context, id string, req *models.UpdateProjectRequest) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.projects {
		if s.projects[i].ID != id {
			continue
		}

		if req.Name != nil {
			s.projects[i].Name = s.clean(*req.Name)
		}

		if req.Location != nil {
			s.projects[i].Location = s.clean(*req.Location)
		}

		if req.Hectares != nil {
			s.projects[i].Hectares = *req.Hectares
		}

		if req.Description != nil {
			s.projects[i].Description = s.clean(*req.Description)
		}

		if req.Certifier != nil {
			s.projects[i].Certifier = s.clean(*req.Certifier)
		}

		project := s.projects[i]
		s.save()

		return &project, nil
	}

	return nil, apperrors.NotFoundError("Project not found")
}

// DeleteProject removes the project and, as in a cascading delete, every batch
// that belongs to it. Orders are kept as historical records.
func (s *Store) DeleteProject(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findProject(id); err != nil {
		return err
	}

	projects := s.projects[:0]

	for _, p := range s.projects {
		if p.ID != id {
			projects = append(projects, p)
		}
	}

	s.projects = projects

	batches := s.batches[:0]

	for _, b := range s.batches {
		if b.ProjectID != id {
			batches = append(batches, b)
		}
	}

	s.batches = batches
	s.save()

	return nil
}

func (s *Store) ListBatches(_ context.Context, filters models.BatchFilters) ([]models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Batch, 0, len(s.batches))

	for _, b := range s.batches {
		if filters.Status != "" && b.Status != filters.Status {
			continue
		}

		if filters.ProjectID != "" && b.ProjectID != filters.ProjectID {
			continue
		}

		out = append(out, b)
	}

	return out, nil
}

func (s *Store) GetBatch(_ context.Context, id string) (*models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.findBatch(id)
}

func (s *Store) findBatch(id string) (*models.Batch, error) {
	for i := range s.batches {
		if s.batches[i].ID == id {
			batch := s.batches[i]

			return &batch, nil
		}
	}

	return nil, apperrors.NotFoundError("Batch not found")
}

func (s *Store) CreateBatch(_ context.Context, req *models.CreateBatchRequest) (*models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.findProject(req.ProjectID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.BatchStatusAvailable
	}

	batch := models.Batch{
		ID:          "batch-" + uuid.NewString(),
		ProjectID:   req.ProjectID,
		TonsCO2:     req.TonsCO2,
		PricePerTon: req.PricePerTon,
		Status:      status,
		CreatedAt:   s.now(),
	}

	s.batches = append(s.batches, batch)
	s.save()

	return &batch, nil
}

func (s *Store) UpdateBatch(_ context.Context, id string, req *models.UpdateBatchRequest) (*models.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.batches {
		if s.batches[i].ID != id {
			continue
		}

		if req.TonsCO2 != nil {
			s.batches[i].TonsCO2 = *req.TonsCO2
		}

		if req.PricePerTon != nil {
			s.batches[i].PricePerTon = *req.PricePerTon
		}

		if req.Status != nil && *req.Status != s.batches[i].Status {
			if !s.batches[i].CanTransition(*req.Status) {
				return nil, apperrors.ConflictError("Invalid batch status transition").
					WithDetail(string(s.batches[i].Status) + " to " + string(*req.Status))
			}

			s.batches[i].Status = *req.Status
		}

		batch := s.batches[i]
		s.save()

		return &batch, nil
	}

	return nil, apperrors.NotFoundError("Batch not found")
}

func (s *Store) DeleteBatch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.batches {
		if s.batches[i].ID == id {
			s.batches = append(s.batches[:i], s.batches[i+1:]...)
			s.save()

			return nil
		}
	}

	return apperrors.NotFoundError("Batch not found")
}

func (s *Store) ListOrders(_ context.Context, filters models.OrderFilters) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Order, 0, len(s.orders))

	for _, o := range s.orders {
		if filters.Status != "" && o.Status != filters.Status {
			continue
		}

		if filters.BuyerName != "" && !strings.Contains(strings.ToLower(o.BuyerName), strings.ToLower(filters.BuyerName)) {
			continue
		}

		out = append(out, o)
	}

	return out, nil
}

func (s *Store) GetOrder(_ context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == id {
			order := s.orders[i]

			return &order, nil
		}
	}

	return nil, apperrors.NotFoundError("Order not found")
}

// CreateOrder creates one PENDING order per item and reserves each item's
// batch. The request is applied atomically: if any item refers to a missing or
// unavailable batch, nothing is created.
func (s *Store) CreateOrder(_ context.Context, req *models.CreateOrderRequest) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batchIdx := make(map[string]int, len(req.Items))

	for _, item := range req.Items {
		idx := -1

		for i := range s.batches {
			if s.batches[i].ID == item.BatchID {
				idx = i

				break
			}
		}

		if idx < 0 {
			return nil, apperrors.NotFoundError("Batch not found").WithDetail("batch " + item.BatchID)
		}

		if s.batches[idx].Status != models.BatchStatusAvailable {
			return nil, apperrors.ConflictError("Batch is no longer available").WithDetail("batch " + item.BatchID)
		}

		batchIdx[item.BatchID] = idx
	}

	now := s.now()
	created := make([]models.Order, 0, len(req.Items))

	for _, item := range req.Items {
		order := models.Order{
			ID:        "ord-" + uuid.NewString()[:8],
			ProjectID: item.ProjectID,
			BatchID:   item.BatchID,
			BuyerName: s.clean(req.BuyerName),
			QtyTons:   item.QtyTons,
			Total:     item.QtyTons * item.PricePerTon,
			Status:    models.OrderStatusPending,
			CreatedAt: now,
		}

		s.batches[batchIdx[item.BatchID]].Status = models.BatchStatusReserved
		s.orders = append(s.orders, order)
		created = append(created, order)
	}

	s.save()

	return created, nil
}

func (s *Store) CancelOrder(_ context.Context, id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}

		if !s.orders[i].Cancellable() {
			return nil, apperrors.ConflictError("Only pending orders can be cancelled")
		}

		s.orders[i].Status = models.OrderStatusCancelled
		s.releaseBatch(s.orders[i].BatchID)

		order := s.orders[i]
		s.save()

		return &order, nil
	}

	return nil, apperrors.NotFoundError("Order not found")
}

func (s *Store) releaseBatch(id string) {
	for i := range s.batches {
		if s.batches[i].ID == id && s.batches[i].Status == models.BatchStatusReserved {
			s.batches[i].Status = models.BatchStatusAvailable

			return
		}
	}
}

// SettleOrder plays the role of the external payment processor: it moves a
// PENDING order to PAID and the reserved batch to SOLD. Not part of the
// backing contract; only the mock settlement worker and tests use it.
func (s *Store) SettleOrder(id string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID != id {
			continue
		}

		if s.orders[i].Status != models.OrderStatusPending {
			return nil, apperrors.ConflictError("Only pending orders can be settled")
		}

		now := s.now()
		s.orders[i].Status = models.OrderStatusPaid
		s.orders[i].ProcessedAt = &now

		for j := range s.batches {
			if s.batches[j].ID == s.orders[i].BatchID && s.batches[j].Status == models.BatchStatusReserved {
				s.batches[j].Status = models.BatchStatusSold
			}
		}

		order := s.orders[i]
		s.save()

		return &order, nil
	}

	return nil, apperrors.NotFoundError("Order not found")
}

func (s *Store) Ingest(ctx context.Context, event *models.IngestEvent) (*models.IngestResult, error) {
	project, err := s.CreateProject(ctx, &event.Project)
	if err != nil {
		return nil, err
	}

	batch, err := s.CreateBatch(ctx, &models.CreateBatchRequest{
		ProjectID:   project.ID,
		TonsCO2:     event.Batch.TonsCO2,
		PricePerTon: event.Batch.PricePerTon,
		Status:      event.Batch.Status,
	})
	if err != nil {
		return nil, err
	}

	return &models.IngestResult{
		ProjectID: project.ID,
		BatchID:   batch.ID,
		Message:   "Ingestion accepted: project and batch created",
	}, nil
}
