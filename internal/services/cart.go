package service

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/carbonmarket/carbon-marketplace/internal/metrics"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
	"github.com/carbonmarket/carbon-marketplace/internal/state"
)

const (
	DefaultCartTTL       = 15 * time.Minute
	DefaultSweepInterval = 30 * time.Second
)

// CartStore holds the session's batch reservations. Items are keyed by batch
// id: re-adding a batch merges quantities and refreshes the hold instead of
// creating a second line. Every mutation is a synchronous read-modify-write
// under the lock, so no operation can observe a half-applied cart.
type CartStore struct {
	mu      sync.Mutex
	items   map[string]models.CartItem
	persist state.Store
	ttl     time.Duration
	sweep   time.Duration
	now     func() time.Time

	sweeperOnce sync.Once
	stopOnce    sync.Once
	stop        chan struct{}
}

type CartOption func(*CartStore)

// WithClock replaces the wall clock, letting tests drive expiry
// deterministically.
func WithClock(now func() time.Time) CartOption {
	return func(s *CartStore) {
		s.now = now
	}
}

// NewCartStore loads any cart persisted under the carbon-cart namespace and
// applies the given hold TTL and sweep interval (zero values fall back to the
// 15m/30s defaults).
func NewCartStore(persist state.Store, ttl, sweep time.Duration, opts ...CartOption) *CartStore {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}

	if sweep <= 0 {
		sweep = DefaultSweepInterval
	}

	s := &CartStore{
		items:   make(map[string]models.CartItem),
		persist: persist,
		ttl:     ttl,
		sweep:   sweep,
		now:     time.Now,
		stop:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.load()

	return s
}

func (s *CartStore) load() {
	if s.persist == nil {
		return
	}

	var items []models.CartItem

	found, err := s.persist.Load(state.CartKey, &items)
	if err != nil {
		slog.Warn("Failed to load persisted cart", slog.String("error", err.Error()))

		return
	}

	if !found {
		return
	}

	for _, item := range items {
		s.items[item.BatchID] = item
	}

	metrics.SetCartItems(len(s.items))
}

// persistLocked saves the cart under its namespace. The cart's own mutations
// are local-only and never fail; a failed save is logged and the in-memory
// state stands.
func (s *CartStore) persistLocked() {
	metrics.SetCartItems(len(s.items))

	if s.persist == nil {
		return
	}

	if err := s.persist.Save(state.CartKey, s.itemsLocked()); err != nil {
		slog.Warn("Failed to persist cart", slog.String("error", err.Error()))
	}
}

func (s *CartStore) itemsLocked() []models.CartItem {
	items := make([]models.CartItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].BatchID < items[j].BatchID })

	return items
}

// Now exposes the store's clock so collaborators (checkout, displays) judge
// expiry against the same time source.
func (s *CartStore) Now() time.Time {
	return s.now()
}

func (s *CartStore) TTL() time.Duration {
	return s.ttl
}

// AddItem reserves a quantity of a batch for the hold TTL. Adding a batch that
// is already in the cart sums the quantities, recomputes the subtotal from the
// originally captured price and refreshes the hold to now+TTL. The captured
// price never changes on merge: the cart keeps its add-time snapshot.
func (s *CartStore) AddItem(req *models.AddItemRequest) models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(s.ttl)

	item, exists := s.items[req.BatchID]
	if exists {
		item.QtyTons += req.QtyTons
		item.Subtotal = item.QtyTons * item.PricePerTon
		item.ExpiresAt = expiresAt
	} else {
		item = models.CartItem{
			BatchID:     req.BatchID,
			ProjectID:   req.ProjectID,
			ProjectName: req.ProjectName,
			QtyTons:     req.QtyTons,
			PricePerTon: req.PricePerTon,
			Subtotal:    req.QtyTons * req.PricePerTon,
			ExpiresAt:   expiresAt,
		}
	}

	s.items[req.BatchID] = item
	s.persistLocked()

	return item
}

// RemoveItem drops the matching line. Removing an absent batch is a no-op, so
// a late expiry sweep or a concurrent checkout removal stays harmless.
func (s *CartStore) RemoveItem(batchID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[batchID]; !exists {
		return
	}

	delete(s.items, batchID)
	s.persistLocked()
}

// UpdateQuantity sets the quantity of an existing line and recomputes its
// subtotal. Unknown batches are ignored.
func (s *CartStore) UpdateQuantity(batchID string, qtyTons float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[batchID]
	if !exists {
		return
	}

	item.QtyTons = qtyTons
	item.Subtotal = qtyTons * item.PricePerTon
	s.items[batchID] = item
	s.persistLocked()
}

// Clear empties the cart, typically after a successful checkout.
func (s *CartStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]models.CartItem)
	s.persistLocked()
}

// RemoveExpired drops every item whose hold has lapsed and reports how many
// were dropped. The sweeper calls it every sweep interval; checkout enforces
// the same rule again at submission time.
func (s *CartStore) RemoveExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0

	for batchID, item := range s.items {
		if item.Expired(now) {
			delete(s.items, batchID)

			removed++
		}
	}

	if removed > 0 {
		metrics.AddCartItemsExpired(removed)
		s.persistLocked()
	}

	return removed
}

// Items returns a snapshot of the cart ordered by batch id.
func (s *CartStore) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.itemsLocked()
}

func (s *CartStore) Get(batchID string) (models.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[batchID]

	return item, exists
}

// TimeLeft reports how long the line's hold still has to run. Zero means the
// hold has lapsed; ok is false when the batch is not in the cart.
func (s *CartStore) TimeLeft(batchID string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[batchID]
	if !exists {
		return 0, false
	}

	left := item.ExpiresAt.Sub(s.now())
	if left < 0 {
		left = 0
	}

	return left, true
}

func (s *CartStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}

// Total sums the subtotals of every line currently in the cart.
func (s *CartStore) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, item := range s.items {
		total += item.Subtotal
	}

	return total
}

// StartSweeper launches the background expiry sweep. The goroutine is owned
// by this store instance and ends when ctx is cancelled or Close is called;
// a second call is a no-op.
func (s *CartStore) StartSweeper(ctx context.Context) {
	s.sweeperOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(s.sweep)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-s.stop:
					return
				case <-ticker.C:
					if removed := s.RemoveExpired(); removed > 0 {
						slog.Info("Expired cart items removed", slog.Int("count", removed))
					}
				}
			}
		}()
	})
}

// Close stops the sweeper. Safe to call multiple times and before
// StartSweeper.
func (s *CartStore) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
}
