package models

// IngestBatchInput is the batch half of an ingestion event. It omits the
// project id: the batch is attached to the project created by the same event.
type IngestBatchInput struct {
	TonsCO2     float64     `json:"tonsCO2"     validate:"required,gt=0"`
	PricePerTon float64     `json:"pricePerTon" validate:"required,gt=0"`
	Status      BatchStatus `json:"status"      validate:"omitempty,oneof=AVAILABLE RESERVED SOLD"`
}

// IngestEvent creates a project and its first batch in one asynchronous
// submission, distinct from the synchronous project/batch CRUD.
type IngestEvent struct {
	Project CreateProjectRequest `json:"project" validate:"required"`
	Batch   IngestBatchInput     `json:"batch"   validate:"required"`
}

type IngestResult struct {
	ProjectID string `json:"projectId"`
	BatchID   string `json:"batchId"`
	Message   string `json:"message"`
}
