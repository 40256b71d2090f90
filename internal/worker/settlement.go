// Package worker hosts the mock settlement loop. It stands in for the
// external payment processor the real backend talks to: PENDING orders older
// than the grace period become PAID and their reserved batches become SOLD.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/carbonmarket/carbon-marketplace/internal/backing/memory"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
)

const settleGracePeriod = time.Minute

type Settlement struct {
	store    *memory.Store
	interval time.Duration
}

func NewSettlement(store *memory.Store, interval time.Duration) *Settlement {
	if interval <= 0 {
		interval = 45 * time.Second
	}

	return &Settlement{store: store, interval: interval}
}

// Run blocks until ctx is cancelled, settling eligible orders once per
// interval.
func (s *Settlement) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.settleDue(ctx)
		}
	}
}

func (s *Settlement) settleDue(ctx context.Context) {
	orders, err := s.store.ListOrders(ctx, models.OrderFilters{Status: models.OrderStatusPending})
	if err != nil {
		slog.Error("Settlement sweep failed to list orders", slog.String("error", err.Error()))

		return
	}

	cutoff := time.Now().Add(-settleGracePeriod)

	for _, order := range orders {
		if order.CreatedAt.After(cutoff) {
			continue
		}

		if _, err := s.store.SettleOrder(order.ID); err != nil {
			slog.Warn("Failed to settle order", slog.String("orderId", order.ID), slog.String("error", err.Error()))

			continue
		}

		slog.Info("Order settled", slog.String("orderId", order.ID), slog.Float64("total", order.Total))
	}
}
