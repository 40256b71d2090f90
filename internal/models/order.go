package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is a confirmed or pending purchase of a quantity from one batch.
// PENDING→PAID is driven by an external settlement process; PENDING→CANCELLED
// by explicit user cancellation. No other transitions exist.
type Order struct {
	ID          string      `json:"id"`
	ProjectID   string      `json:"projectId"`
	BatchID     string      `json:"batchId"`
	BuyerName   string      `json:"buyerName"`
	QtyTons     float64     `json:"qtyTons"`
	Total       float64     `json:"total"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt,omitempty"`
	ProcessedAt *time.Time  `json:"processedAt,omitempty"`
}

// Cancellable reports whether the order may still be cancelled by the buyer.
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending
}

// OrderItemInput carries the price snapshot captured at add-to-cart time; the
// backing must honor it rather than re-pricing against the current batch.
type OrderItemInput struct {
	BatchID     string  `json:"batchId"     validate:"required"`
	ProjectID   string  `json:"projectId"   validate:"required"`
	QtyTons     float64 `json:"qtyTons"     validate:"required,gt=0"`
	PricePerTon float64 `json:"pricePerTon" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	BuyerName string           `json:"buyerName" validate:"required,min=3"`
	Items     []OrderItemInput `json:"items"     validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=CANCELLED"`
}

type OrderFilters struct {
	Status    OrderStatus
	BuyerName string
}
