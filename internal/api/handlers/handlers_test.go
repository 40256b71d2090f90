package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/carbonmarket/carbon-marketplace/internal/backing/memory"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
	"github.com/carbonmarket/carbon-marketplace/internal/utils/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestMux wires the handlers onto the route patterns the server uses, over
// a fresh fixture-seeded store.
func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	store := memory.NewStore(nil)

	projectHandler := NewProjectHandler(store)
	batchHandler := NewBatchHandler(store)
	orderHandler := NewOrderHandler(store)
	eventHandler := NewEventHandler(store)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/projects", projectHandler.ListProjects())
	mux.HandleFunc("POST /api/v1/projects", projectHandler.CreateProject())
	mux.HandleFunc("GET /api/v1/projects/{id}", projectHandler.GetProject())
	mux.HandleFunc("PUT /api/v1/projects/{id}", projectHandler.UpdateProject())
	mux.HandleFunc("DELETE /api/v1/projects/{id}", projectHandler.DeleteProject())
	mux.HandleFunc("GET /api/v1/aggregate/project/{id}", projectHandler.GetAggregate())
	mux.HandleFunc("GET /api/v1/batches", batchHandler.ListBatches())
	mux.HandleFunc("POST /api/v1/batches", batchHandler.CreateBatch())
	mux.HandleFunc("GET /api/v1/batches/{id}", batchHandler.GetBatch())
	mux.HandleFunc("GET /api/v1/orders", orderHandler.ListOrders())
	mux.HandleFunc("POST /api/v1/orders", orderHandler.CreateOrder())
	mux.HandleFunc("GET /api/v1/orders/{id}", orderHandler.GetOrder())
	mux.HandleFunc("PUT /api/v1/orders/{id}", orderHandler.UpdateOrder())
	mux.HandleFunc("POST /api/v1/events/ingest", eventHandler.Ingest())

	return mux
}

func doRequest(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	return rec
}

func TestListProjects(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(mux, http.MethodGet, "/api/v1/projects", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var projects []models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &projects))
	assert.Len(t, projects, 9)
}

func TestGetProject_NotFound(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(mux, http.MethodGet, "/api/v1/projects/999", "")

	require.Equal(t, http.StatusNotFound, rec.Code)

	var envelope response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Project not found", envelope.Message)
}

func TestCreateProject(t *testing.T) {
	mux := newTestMux(t)

	body := `{"name":"Novo Projeto Teste","location":"Bahia, Brasil","hectares":120,"description":"d","certifier":"Verra VCS"}`

	rec := doRequest(mux, http.MethodPost, "/api/v1/projects", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var project models.Project
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &project))
	assert.NotEmpty(t, project.ID)
	assert.Equal(t, "Novo Projeto Teste", project.Name)
}

func TestCreateProject_ValidationFailure(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(mux, http.MethodPost, "/api/v1/projects", `{"name":"ab","location":"Bahia, Brasil"}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Validation failed", envelope.Message)
	assert.NotEmpty(t, envelope.Detail)
}

func TestGetAggregate(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(mux, http.MethodGet, "/api/v1/aggregate/project/1", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var aggregate models.AggregateProject
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &aggregate))
	assert.Equal(t, "1", aggregate.Project.ID)
	assert.Len(t, aggregate.Batches, 3)
	assert.NotEmpty(t, aggregate.LastOrders)
}

func TestDeleteProject(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(mux, http.MethodDelete, "/api/v1/projects/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(mux, http.MethodGet, "/api/v1/projects/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListBatches_Filtered(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(mux, http.MethodGet, "/api/v1/batches?projectId=1&status=AVAILABLE", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var batches []models.Batch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batches))
	assert.Len(t, batches, 2)
}

func TestCreateOrder(t *testing.T) {
	mux := newTestMux(t)

	body := `{"buyerName":"Empresa Verde","items":[{"batchId":"1-1","projectId":"1","qtyTons":10,"pricePerTon":85}]}`

	rec := doRequest(mux, http.MethodPost, "/api/v1/orders", body)

	require.Equal(t, http.StatusCreated, rec.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusPending, orders[0].Status)
	assert.Equal(t, 850.0, orders[0].Total)

	rec = doRequest(mux, http.MethodGet, "/api/v1/batches/1-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var batch models.Batch
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &batch))
	assert.Equal(t, models.BatchStatusReserved, batch.Status)
}

func TestCreateOrder_UnavailableBatchConflict(t *testing.T) {
	mux := newTestMux(t)

	body := `{"buyerName":"Empresa Verde","items":[{"batchId":"1-3","projectId":"1","qtyTons":10,"pricePerTon":90}]}`

	rec := doRequest(mux, http.MethodPost, "/api/v1/orders", body)

	require.Equal(t, http.StatusConflict, rec.Code)

	var envelope response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Batch is no longer available", envelope.Message)
	assert.Equal(t, "batch 1-3", envelope.Detail)
}

func TestUpdateOrder_CancelPending(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(mux, http.MethodPut, "/api/v1/orders/ord-003", `{"status":"CANCELLED"}`)

	require.Equal(t, http.StatusOK, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
}

func TestUpdateOrder_CancelPaidConflict(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(mux, http.MethodPut, "/api/v1/orders/ord-001", `{"status":"CANCELLED"}`)

	require.Equal(t, http.StatusConflict, rec.Code)

	var envelope response.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "Only pending orders can be cancelled", envelope.Message)
}

func TestUpdateOrder_RejectsOtherStatuses(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(mux, http.MethodPut, "/api/v1/orders/ord-003", `{"status":"PAID"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOrders_Filtered(t *testing.T) {
	mux := newTestMux(t)

	rec := doRequest(mux, http.MethodGet, "/api/v1/orders?status=PENDING", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var orders []models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
	require.Len(t, orders, 2)

	for _, order := range orders {
		assert.Equal(t, models.OrderStatusPending, order.Status)
	}
}

func TestIngest(t *testing.T) {
	mux := newTestMux(t)

	body := `{"project":{"name":"Reflorestamento Chapada","location":"Bahia, Brasil","hectares":1200,"description":"d","certifier":"Verra VCS"},"batch":{"tonsCO2":350,"pricePerTon":82}}`

	rec := doRequest(mux, http.MethodPost, "/api/v1/events/ingest", body)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var result models.IngestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.NotEmpty(t, result.ProjectID)
	assert.NotEmpty(t, result.BatchID)

	rec = doRequest(mux, http.MethodGet, "/api/v1/projects/"+result.ProjectID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIngest_ValidationFailure(t *testing.T) {
	mux := newTestMux(t)

	body := `{"project":{"name":"ab"},"batch":{"tonsCO2":0,"pricePerTon":0}}`

	rec := doRequest(mux, http.MethodPost, "/api/v1/events/ingest", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
