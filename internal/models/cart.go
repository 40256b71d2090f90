package models

import "time"

// CartItem is a time-limited reservation of a quantity from one batch. BatchID
// is unique within a cart: re-adding the same batch merges quantities and
// refreshes the hold instead of creating a second line.
type CartItem struct {
	BatchID     string    `json:"batchId"`
	ProjectID   string    `json:"projectId"`
	ProjectName string    `json:"projectName"`
	QtyTons     float64   `json:"qtyTons"`
	PricePerTon float64   `json:"pricePerTon"`
	Subtotal    float64   `json:"subtotal"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// Expired reports whether the hold has lapsed at the given instant.
func (i CartItem) Expired(now time.Time) bool {
	return !i.ExpiresAt.After(now)
}

type AddItemRequest struct {
	BatchID     string  `json:"batchId"     validate:"required"`
	ProjectID   string  `json:"projectId"   validate:"required"`
	ProjectName string  `json:"projectName" validate:"required"`
	QtyTons     float64 `json:"qtyTons"     validate:"required,gt=0"`
	PricePerTon float64 `json:"pricePerTon" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	BuyerName string `json:"buyerName" validate:"required,min=3"`
}

// CheckoutResult reports the orders created by a checkout. On partial failure
// OrderIDs still lists the orders that were created before the failing line.
type CheckoutResult struct {
	OrderIDs []string `json:"orderIds"`
	Total    float64  `json:"total"`
}
