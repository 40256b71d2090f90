package models

import "time"

// Project is a certified carbon-offset initiative. Its sellable inventory
// lives in batches; the project itself carries only descriptive data.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	Hectares    float64   `json:"hectares"`
	Description string    `json:"description"`
	Certifier   string    `json:"certifier"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// AggregateProject is the detail-page view: the project, all of its batches
// and its most recent orders (at most five, newest first).
type AggregateProject struct {
	Project    Project `json:"project"`
	Batches    []Batch `json:"batches"`
	LastOrders []Order `json:"lastOrders"`
}

type CreateProjectRequest struct {
	Name        string  `json:"name"        validate:"required,min=3"`
	Location    string  `json:"location"    validate:"required,min=2"`
	Hectares    float64 `json:"hectares"    validate:"required,gt=0"`
	Description string  `json:"description" validate:"required"`
	Certifier   string  `json:"certifier"   validate:"required"`
}

// UpdateProjectRequest uses pointers so absent fields are left untouched.
type UpdateProjectRequest struct {
	Name        *string  `json:"name,omitempty"        validate:"omitempty,min=3"`
	Location    *string  `json:"location,omitempty"    validate:"omitempty,min=2"`
	Hectares    *float64 `json:"hectares,omitempty"    validate:"omitempty,gt=0"`
	Description *string  `json:"description,omitempty"`
	Certifier   *string  `json:"certifier,omitempty"`
}

// ProjectFilters are the list page's filters. Price and status constraints
// are judged against a project's batches: a project matches when at least one
// batch does.
type ProjectFilters struct {
	Search    string
	Location  string
	Certifier string
	MinPrice  float64
	MaxPrice  float64
	Status    BatchStatus
}
