package service

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/carbonmarket/carbon-marketplace/internal/errors"
	"github.com/carbonmarket/carbon-marketplace/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func forBatch(batchID string) any {
	return mock.MatchedBy(func(req *models.CreateOrderRequest) bool {
		return len(req.Items) == 1 && req.Items[0].BatchID == batchID
	})
}

func TestCheckout_RejectsShortBuyerName(t *testing.T) {
	backingMock := new(mockBacking)
	cart := NewCartStore(nil, 0, 0)
	cart.AddItem(addReq("b1", 10, 50))

	svc := NewCheckoutService(cart, backingMock)

	result, err := svc.Checkout(context.Background(), &models.CheckoutRequest{BuyerName: "ab"})

	require.Error(t, err)
	assert.Nil(t, result)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)

	backingMock.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	assert.Equal(t, 1, cart.Len())
}

func TestCheckout_RejectsEmptyCart(t *testing.T) {
	backingMock := new(mockBacking)
	cart := NewCartStore(nil, 0, 0)

	svc := NewCheckoutService(cart, backingMock)

	_, err := svc.Checkout(context.Background(), &models.CheckoutRequest{BuyerName: "Empresa Verde"})

	require.Error(t, err)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
	assert.Equal(t, "Cart is empty", appErr.Message)
}

func TestCheckout_RejectsWhenAnyItemExpired(t *testing.T) {
	clock := newFakeClock(time.Date(2024, 3, 25, 12, 0, 0, 0, time.UTC))
	backingMock := new(mockBacking)
	cart := NewCartStore(nil, 15*time.Minute, 30*time.Second, WithClock(clock.Now))

	cart.AddItem(addReq("b1", 10, 50))

	clock.Advance(10 * time.Minute)
	cart.AddItem(addReq("b2", 4, 25))

	clock.Advance(6 * time.Minute)

	svc := NewCheckoutService(cart, backingMock)

	result, err := svc.Checkout(context.Background(), &models.CheckoutRequest{BuyerName: "Empresa Verde"})

	require.Error(t, err)
	assert.Nil(t, result)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeCartExpired, appErr.Code)
	assert.Equal(t, "batch b1", appErr.Detail)

	backingMock.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	assert.Equal(t, 2, cart.Len(), "a rejected checkout must not touch the cart")
}

func TestCheckout_CreatesOneOrderPerLine(t *testing.T) {
	backingMock := new(mockBacking)
	cart := NewCartStore(nil, 0, 0)

	cart.AddItem(addReq("b1", 10, 50))
	cart.AddItem(addReq("b2", 4, 25))

	backingMock.On("CreateOrder", mock.Anything, forBatch("b1")).
		Return([]models.Order{{ID: "ord-aaa", BatchID: "b1"}}, nil).Once()
	backingMock.On("CreateOrder", mock.Anything, forBatch("b2")).
		Return([]models.Order{{ID: "ord-bbb", BatchID: "b2"}}, nil).Once()

	svc := NewCheckoutService(cart, backingMock)

	result, err := svc.Checkout(context.Background(), &models.CheckoutRequest{BuyerName: "Empresa Verde"})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, []string{"ord-aaa", "ord-bbb"}, result.OrderIDs)
	assert.Equal(t, 600.0, result.Total)
	assert.Equal(t, 0, cart.Len())

	backingMock.AssertExpectations(t)
}

func TestCheckout_PartialFailureKeepsUnorderedLines(t *testing.T) {
	backingMock := new(mockBacking)
	cart := NewCartStore(nil, 0, 0)

	cart.AddItem(addReq("b1", 10, 50))
	cart.AddItem(addReq("b2", 4, 25))

	backingMock.On("CreateOrder", mock.Anything, forBatch("b1")).
		Return([]models.Order{{ID: "ord-aaa", BatchID: "b1"}}, nil).Once()
	backingMock.On("CreateOrder", mock.Anything, forBatch("b2")).
		Return(nil, apperrors.ConflictError("Batch is no longer available")).Once()

	svc := NewCheckoutService(cart, backingMock)

	result, err := svc.Checkout(context.Background(), &models.CheckoutRequest{BuyerName: "Empresa Verde"})

	require.Error(t, err)
	require.NotNil(t, result, "ids created before the failure must be reported")
	assert.Equal(t, []string{"ord-aaa"}, result.OrderIDs)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeConflict, appErr.Code)

	// The ordered line is gone, the failed one stays for the user to resolve.
	assert.Equal(t, 1, cart.Len())

	_, ok = cart.Get("b2")
	assert.True(t, ok)

	backingMock.AssertExpectations(t)
}

func TestCheckout_WrapsUnknownBackingErrors(t *testing.T) {
	backingMock := new(mockBacking)
	cart := NewCartStore(nil, 0, 0)
	cart.AddItem(addReq("b1", 10, 50))

	backingMock.On("CreateOrder", mock.Anything, forBatch("b1")).
		Return(nil, assert.AnError).Once()

	svc := NewCheckoutService(cart, backingMock)

	_, err := svc.Checkout(context.Background(), &models.CheckoutRequest{BuyerName: "Empresa Verde"})

	require.Error(t, err)

	appErr, ok := apperrors.IsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeUpstream, appErr.Code)
	assert.ErrorIs(t, err, assert.AnError)
}
