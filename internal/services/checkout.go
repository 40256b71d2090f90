package service

import (
	"context"
	"log/slog"

	"github.com/carbonmarket/carbon-marketplace/internal/backing"
	apperrors "github.com/carbonmarket/carbon-marketplace/internal/errors"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
	"github.com/go-playground/validator/v10"
)

// CheckoutService converts cart contents into orders. It submits one
// order-creation request per cart line and removes each line as its request
// resolves, so a failure partway through leaves the cart holding exactly the
// lines that were not ordered.
type CheckoutService struct {
	cart     *CartStore
	backing  backing.Service
	validate *validator.Validate
}

func NewCheckoutService(cart *CartStore, backingService backing.Service) *CheckoutService {
	return &CheckoutService{
		cart:     cart,
		backing:  backingService,
		validate: validator.New(),
	}
}

// Checkout snapshots the cart, rejects the submission outright if any line
// has expired (nothing is silently dropped), then orders line by line. On
// full success the cart is cleared and every created order id is reported;
// on failure the result still carries the ids created before the failure.
func (s *CheckoutService) Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.ValidationError("Buyer name must have at least 3 characters").WithError(err)
	}

	items := s.cart.Items()
	if len(items) == 0 {
		return nil, apperrors.ValidationError("Cart is empty")
	}

	now := s.cart.Now()

	for _, item := range items {
		if item.Expired(now) {
			return nil, apperrors.CartExpiredError("Some cart items have expired. Remove them and try again.").
				WithDetail("batch " + item.BatchID)
		}
	}

	result := &models.CheckoutResult{Total: s.cart.Total()}

	for _, item := range items {
		orders, err := s.backing.CreateOrder(ctx, &models.CreateOrderRequest{
			BuyerName: req.BuyerName,
			Items: []models.OrderItemInput{{
				BatchID:     item.BatchID,
				ProjectID:   item.ProjectID,
				QtyTons:     item.QtyTons,
				PricePerTon: item.PricePerTon,
			}},
		})
		if err != nil {
			slog.Warn("Checkout stopped on failed order creation",
				slog.String("batchId", item.BatchID),
				slog.Int("ordersCreated", len(result.OrderIDs)),
				slog.String("error", err.Error()),
			)

			if _, ok := apperrors.IsAppError(err); ok {
				return result, err
			}

			return result, apperrors.UpstreamError("Failed to create order").WithError(err)
		}

		// Drop the line as soon as its order exists, not at the end, so an
		// interruption mid-checkout cannot resubmit an already ordered line.
		s.cart.RemoveItem(item.BatchID)

		for _, order := range orders {
			result.OrderIDs = append(result.OrderIDs, order.ID)
		}
	}

	s.cart.Clear()

	slog.Info("Checkout completed",
		slog.Int("orders", len(result.OrderIDs)),
		slog.Float64("total", result.Total),
	)

	return result, nil
}
