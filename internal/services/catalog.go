package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/carbonmarket/carbon-marketplace/internal/backing"
	"github.com/carbonmarket/carbon-marketplace/internal/cache"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
)

const projectListCacheKey = "project:all"

// CatalogService is the read/CRUD surface for projects, batches and orders.
// It passes through to the configured backing, optionally fronting the
// heavy read paths (project list, aggregates) with a cache. A nil cache
// disables caching entirely.
type CatalogService struct {
	backing  backing.Service
	cache    cache.Cache
	cacheTTL time.Duration
}

func NewCatalogService(backingService backing.Service, c cache.Cache, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		backing:  backingService,
		cache:    c,
		cacheTTL: cacheTTL,
	}
}

func (s *CatalogService) cached(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}

	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		slog.Warn("Cache read failed", slog.String("key", key), slog.String("error", err.Error()))

		return false
	}

	return found
}

func (s *CatalogService) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, key, value, s.cacheTTL); err != nil {
		slog.Warn("Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (s *CatalogService) evict(ctx context.Context, keys ...string) {
	if s.cache == nil {
		return
	}

	for _, key := range keys {
		if err := s.cache.Delete(ctx, key); err != nil {
			slog.Warn("Cache evict failed", slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

func (s *CatalogService) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if s.cached(ctx, projectListCacheKey, &projects) {
		return projects, nil
	}

	projects, err := s.backing.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	s.store(ctx, projectListCacheKey, projects)

	return projects, nil
}

// FilterProjects applies the list page's filters client-side: free-text search
// over name and description, location substring, exact certifier, and price
// range / batch status judged against each project's batches.
func (s *CatalogService) FilterProjects(ctx context.Context, filters models.ProjectFilters) ([]models.Project, error) {
	projects, err := s.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	needsBatches := filters.MinPrice > 0 || filters.MaxPrice > 0 || filters.Status != ""

	batchesByProject := make(map[string][]models.Batch)

	if needsBatches {
		batches, err := s.backing.ListBatches(ctx, models.BatchFilters{})
		if err != nil {
			return nil, err
		}

		for _, b := range batches {
			batchesByProject[b.ProjectID] = append(batchesByProject[b.ProjectID], b)
		}
	}

	out := make([]models.Project, 0, len(projects))

	for _, p := range projects {
		if !matchesProject(p, filters) {
			continue
		}

		if needsBatches && !anyBatchMatches(batchesByProject[p.ID], filters) {
			continue
		}

		out = append(out, p)
	}

	return out, nil
}

func matchesProject(p models.Project, filters models.ProjectFilters) bool {
	if filters.Search != "" {
		search := strings.ToLower(filters.Search)
		if !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			return false
		}
	}

	if filters.Location != "" && !strings.Contains(strings.ToLower(p.Location), strings.ToLower(filters.Location)) {
		return false
	}

	if filters.Certifier != "" && p.Certifier != filters.Certifier {
		return false
	}

	return true
}

func anyBatchMatches(batches []models.Batch, filters models.ProjectFilters) bool {
	for _, b := range batches {
		if filters.Status != "" && b.Status != filters.Status {
			continue
		}

		if filters.MinPrice > 0 && b.PricePerTon < filters.MinPrice {
			continue
		}

		if filters.MaxPrice > 0 && b.PricePerTon > filters.MaxPrice {
			continue
		}

		return true
	}

	return false
}

func (s *CatalogService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return s.backing.GetProject(ctx, id)
}

func (s *CatalogService) GetProjectAggregate(ctx context.Context, id string) (*models.AggregateProject, error) {
	key := cache.Key(cache.AggregateKeyPrefix, id)

	var aggregate models.AggregateProject
	if s.cached(ctx, key, &aggregate) {
		return &aggregate, nil
	}

	result, err := s.backing.GetProjectAggregate(ctx, id)
	if err != nil {
		return nil, err
	}

	s.store(ctx, key, result)

	return result, nil
}

func (s *CatalogService) CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	project, err := s.backing.CreateProject(ctx, req)
	if err != nil {
		return nil, err
	}

	s.evict(ctx, projectListCacheKey)

	return project, nil
}

func (s *CatalogService) UpdateProject(ctx context.Context, id string, req *models.UpdateProjectRequest) (*models.Project, error) {
	project, err := s.backing.UpdateProject(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.evict(ctx, projectListCacheKey, cache.Key(cache.AggregateKeyPrefix, id))

	return project, nil
}

func (s *CatalogService) DeleteProject(ctx context.Context, id string) error {
	if err := s.backing.DeleteProject(ctx, id); err != nil {
		return err
	}

	s.evict(ctx, projectListCacheKey, cache.Key(cache.AggregateKeyPrefix, id))

	return nil
}

func (s *CatalogService) ListBatches(ctx context.Context, filters models.BatchFilters) ([]models.Batch, error) {
	return s.backing.ListBatches(ctx, filters)
}

func (s *CatalogService) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	return s.backing.GetBatch(ctx, id)
}

func (s *CatalogService) CreateBatch(ctx context.Context, req *models.CreateBatchRequest) (*models.Batch, error) {
	batch, err := s.backing.CreateBatch(ctx, req)
	if err != nil {
		return nil, err
	}

	s.evict(ctx, cache.Key(cache.AggregateKeyPrefix, req.ProjectID))

	return batch, nil
}

func (s *CatalogService) UpdateBatch(ctx context.Context, id string, req *models.UpdateBatchRequest) (*models.Batch, error) {
	batch, err := s.backing.UpdateBatch(ctx, id, req)
	if err != nil {
		return nil, err
	}

	s.evict(ctx, cache.Key(cache.AggregateKeyPrefix, batch.ProjectID))

	return batch, nil
}

func (s *CatalogService) DeleteBatch(ctx context.Context, id string) error {
	return s.backing.DeleteBatch(ctx, id)
}

func (s *CatalogService) ListOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	return s.backing.ListOrders(ctx, filters)
}

func (s *CatalogService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.backing.GetOrder(ctx, id)
}

// CancelOrder asks the backing to cancel a PENDING order. The backing owns
// the batch status rollback; this client only drops its stale aggregate view
// so the next fetch reflects the released batch.
func (s *CatalogService) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.backing.CancelOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	s.evict(ctx, cache.Key(cache.AggregateKeyPrefix, order.ProjectID))

	return order, nil
}
