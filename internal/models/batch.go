package models

import "time"

type BatchStatus string

const (
	BatchStatusAvailable BatchStatus = "AVAILABLE"
	BatchStatusReserved  BatchStatus = "RESERVED"
	BatchStatusSold      BatchStatus = "SOLD"
)

// Batch is a sellable lot of credits from one project. Status moves
// AVAILABLE→RESERVED when an order is created, RESERVED→SOLD on settlement
// and RESERVED→AVAILABLE on cancellation. SOLD is terminal.
type Batch struct {
	ID          string      `json:"id"`
	ProjectID   string      `json:"projectId"`
	TonsCO2     float64     `json:"tonsCO2"`
	PricePerTon float64     `json:"pricePerTon"`
	Status      BatchStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt,omitempty"`
}

// CanTransition reports whether the status change is legal.
func (b *Batch) CanTransition(to BatchStatus) bool {
	switch b.Status {
	case BatchStatusAvailable:
		return to == BatchStatusReserved
	case BatchStatusReserved:
		return to == BatchStatusAvailable || to == BatchStatusSold
	default:
		return false
	}
}

type CreateBatchRequest struct {
	ProjectID   string      `json:"projectId"   validate:"required"`
	TonsCO2     float64     `json:"tonsCO2"     validate:"required,gt=0"`
	PricePerTon float64     `json:"pricePerTon" validate:"required,gt=0"`
	Status      BatchStatus `json:"status"      validate:"omitempty,oneof=AVAILABLE RESERVED SOLD"`
}

type UpdateBatchRequest struct {
	TonsCO2     *float64     `json:"tonsCO2,omitempty"     validate:"omitempty,gt=0"`
	PricePerTon *float64     `json:"pricePerTon,omitempty" validate:"omitempty,gt=0"`
	Status      *BatchStatus `json:"status,omitempty"      validate:"omitempty,oneof=AVAILABLE RESERVED SOLD"`
}

type BatchFilters struct {
	ProjectID string
	Status    BatchStatus
}
