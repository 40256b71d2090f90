// Package rest implements the backing contract against the marketplace API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carbonmarket/carbon-marketplace/internal/backing"
	apperrors "github.com/carbonmarket/carbon-marketplace/internal/errors"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// errorEnvelope is the API's error body. Either field may be absent; callers
// fall back to a generic message when both are.
type errorEnvelope struct {
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

const genericErrorMessage = "The marketplace service returned an error. Please try again."

type client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a backing.Service that talks to the API under baseURL
// (including the /api/v1 prefix). Every request is bounded by timeout and
// every mutating request carries a fresh Idempotency-Key so retries cannot
// double-create resources.
func NewClient(baseURL string, timeout time.Duration) backing.Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.InternalError("Failed to encode request").WithError(err)
		}

		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperrors.InternalError("Failed to build request").WithError(err)
	}

	req.Header.Set("Content-Type", "application/json")

	if method != http.MethodGet {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return apperrors.TimeoutError("The marketplace service did not respond in time").WithError(err)
		}

		return apperrors.UpstreamError(genericErrorMessage).WithError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.errorFromResponse(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.UpstreamError("Failed to decode service response").WithError(err)
	}

	return nil
}

func (c *client) errorFromResponse(resp *http.Response) error {
	message := genericErrorMessage

	var envelope errorEnvelope

	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		switch {
		case envelope.Message != "":
			message = envelope.Message
		case envelope.Detail != "":
			message = envelope.Detail
		}
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return apperrors.BadRequestError(message)
	case http.StatusNotFound:
		return apperrors.NotFoundError(message)
	case http.StatusConflict:
		return apperrors.ConflictError(message)
	default:
		return apperrors.UpstreamError(message).WithDetail(fmt.Sprintf("status %d", resp.StatusCode))
	}
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }

	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}

func (c *client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &projects); err != nil {
		return nil, err
	}

	return projects, nil
}

func (c *client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, nil, &project); err != nil {
		return nil, err
	}

	return &project, nil
}

func (c *client) GetProjectAggregate(ctx context.Context, id string) (*models.AggregateProject, error) {
	var aggregate models.AggregateProject
	if err := c.do(ctx, http.MethodGet, "/aggregate/project/"+url.PathEscape(id), nil, nil, &aggregate); err != nil {
		return nil, err
	}

	return &aggregate, nil
}

func (c *client) CreateProject(ctx context.Context, req *models.CreateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, http.MethodPost, "/projects", nil, req, &project); err != nil {
		return nil, err
	}

	return &project, nil
}

func (c *client) UpdateProject(ctx context.Context, id string, req *models.UpdateProjectRequest) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, http.MethodPut, "/projects/"+url.PathEscape(id), nil, req, &project); err != nil {
		return nil, err
	}

	return &project, nil
}

func (c *client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil, nil)
}

func (c *client) ListBatches(ctx context.Context, filters models.BatchFilters) ([]models.Batch, error) {
	query := url.Values{}
	if filters.Status != "" {
		query.Set("status", string(filters.Status))
	}

	if filters.ProjectID != "" {
		query.Set("projectId", filters.ProjectID)
	}

	var batches []models.Batch
	if err := c.do(ctx, http.MethodGet, "/batches", query, nil, &batches); err != nil {
		return nil, err
	}

	return batches, nil
}

func (c *client) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	var batch models.Batch
	if err := c.do(ctx, http.MethodGet, "/batches/"+url.PathEscape(id), nil, nil, &batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

func (c *client) CreateBatch(ctx context.Context, req *models.CreateBatchRequest) (*models.Batch, error) {
	var batch models.Batch
	if err := c.do(ctx, http.MethodPost, "/batches", nil, req, &batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

func (c *client) UpdateBatch(ctx context.Context, id string, req *models.UpdateBatchRequest) (*models.Batch, error) {
	var batch models.Batch
	if err := c.do(ctx, http.MethodPut, "/batches/"+url.PathEscape(id), nil, req, &batch); err != nil {
		return nil, err
	}

	return &batch, nil
}

func (c *client) DeleteBatch(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/batches/"+url.PathEscape(id), nil, nil, nil)
}

func (c *client) ListOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	query := url.Values{}
	if filters.Status != "" {
		query.Set("status", string(filters.Status))
	}

	if filters.BuyerName != "" {
		query.Set("buyerName", filters.BuyerName)
	}

	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, "/orders", query, nil, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (c *client) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodGet, "/orders/"+url.PathEscape(id), nil, nil, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (c *client) CreateOrder(ctx context.Context, req *models.CreateOrderRequest) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodPost, "/orders", nil, req, &orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (c *client) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	body := models.UpdateOrderRequest{Status: models.OrderStatusCancelled}

	var order models.Order
	if err := c.do(ctx, http.MethodPut, "/orders/"+url.PathEscape(id), nil, body, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

func (c *client) Ingest(ctx context.Context, event *models.IngestEvent) (*models.IngestResult, error) {
	var result models.IngestResult
	if err := c.do(ctx, http.MethodPost, "/events/ingest", nil, event, &result); err != nil {
		return nil, err
	}

	return &result, nil
}
