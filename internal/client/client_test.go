package client

import (
	"context"
	"testing"

	"github.com/carbonmarket/carbon-marketplace/internal/backing/memory"
	"github.com/carbonmarket/carbon-marketplace/internal/config"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, kind string) *config.Config {
	t.Helper()

	return &config.Config{
		Backing: config.Backing{Kind: kind, BaseURL: "http://localhost:8000/api/v1"},
		State:   config.State{Dir: t.TempDir()},
	}
}

func TestNew_MemoryBacking(t *testing.T) {
	c, err := New(testConfig(t, config.BackingMemory))
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Backing.(*memory.Store)
	assert.True(t, ok)

	projects, err := c.Catalog.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Len(t, projects, 9)
}

func TestNew_RestBacking(t *testing.T) {
	c, err := New(testConfig(t, config.BackingRest))
	require.NoError(t, err)
	defer c.Close()

	_, ok := c.Backing.(*memory.Store)
	assert.False(t, ok, "rest backing must not fall back to the fixture store")
}

func TestNew_UnknownBackingKind(t *testing.T) {
	_, err := New(testConfig(t, "dynamo"))

	require.Error(t, err)
}

func TestClient_EndToEndCheckout(t *testing.T) {
	c, err := New(testConfig(t, config.BackingMemory))
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()

	c.Cart.AddItem(&models.AddItemRequest{
		BatchID: "1-1", ProjectID: "1", ProjectName: "Reflorestamento Amazônia Sul",
		QtyTons: 10, PricePerTon: 85,
	})

	result, err := c.Checkout.Checkout(ctx, &models.CheckoutRequest{BuyerName: "Empresa Verde"})
	require.NoError(t, err)
	require.Len(t, result.OrderIDs, 1)
	assert.Equal(t, 850.0, result.Total)
	assert.Equal(t, 0, c.Cart.Len())

	order, err := c.Catalog.GetOrder(ctx, result.OrderIDs[0])
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)

	batch, err := c.Catalog.GetBatch(ctx, "1-1")
	require.NoError(t, err)
	assert.Equal(t, models.BatchStatusReserved, batch.Status)
}
