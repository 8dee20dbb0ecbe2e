package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"heritage-api/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_Create(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	svc.On("PlaceOrder", mock.Anything, int64(1)).Return(&model.OrderDetail{
		ID:          uuid.New(),
		Status:      model.OrderStatusCompleted,
		TotalAmount: decimal.RequireFromString("85.00"),
	}, nil)

	w := httptest.NewRecorder()
	h.Create(w, authedRequest(http.MethodPost, "/api/orders", ""))

	assert.Equal(t, http.StatusCreated, w.Code)

	var detail model.OrderDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, model.OrderStatusCompleted, detail.Status)
}

func TestOrderHandler_Create_EmptyCart(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	svc.On("PlaceOrder", mock.Anything, int64(1)).Return(nil, model.ErrEmptyCart)

	w := httptest.NewRecorder()
	h.Create(w, authedRequest(http.MethodPost, "/api/orders", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrCodeEmptyCart, resp.Error)
}

func TestOrderHandler_Create_InsufficientStock(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	svc.On("PlaceOrder", mock.Anything, int64(1)).Return(nil,
		&model.InsufficientStockError{ProductID: 7, ProductName: "Portrait Print", Available: 1})

	w := httptest.NewRecorder()
	h.Create(w, authedRequest(http.MethodPost, "/api/orders", ""))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_List(t *testing.T) {
	svc := new(MockOrderService)
	h := NewOrderHandler(svc, zerolog.Nop())

	svc.On("ListOrders", mock.Anything, int64(1)).Return([]model.OrderDetail{
		{ID: uuid.New(), Status: model.OrderStatusCompleted},
		{ID: uuid.New(), Status: model.OrderStatusPending},
	}, nil)

	w := httptest.NewRecorder()
	h.List(w, authedRequest(http.MethodGet, "/api/orders", ""))

	assert.Equal(t, http.StatusOK, w.Code)

	var orders []model.OrderDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 2)
}
