package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/app/store/entity"
	"storefront/internal/app/store/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockOrderService мок для OrderService в тестах handler
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req *entity.CreateOrderRequest) (*entity.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) GetAllOrders(ctx context.Context) ([]entity.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockOrderService) GetOrdersByCustomerEmail(ctx context.Context, email string) ([]entity.Order, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockOrderService) GetOrdersByStatus(ctx context.Context, status string) ([]entity.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*entity.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Order), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderService) CountOrders(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func newTestOrderResponse(id uuid.UUID, status entity.OrderStatus) *entity.Order {
	return &entity.Order{
		ID:           id,
		OrderNumber:  "ORD-20260826-DEADBEEF",
		CustomerName: "Ivan Petrov",
		Status:       status,
		TotalAmount:  decimal.RequireFromString("76.50"),
		OrderDate:    time.Now(),
	}
}

// ===================== CreateOrder Handler Tests =====================

func TestCreateOrderHandler_Success(t *testing.T) {
	router := setupTestRouter()

	orderID := uuid.New()
	productID := uuid.New()
	order := newTestOrderResponse(orderID, entity.OrderStatusPending)

	mockService := new(MockOrderService)
	mockService.On("CreateOrder", mock.Anything, mock.AnythingOfType("*entity.CreateOrderRequest")).Return(order, nil)

	h := NewOrderHandler(mockService)
	router.POST("/orders", h.CreateOrder)

	reqBody := entity.CreateOrderRequest{
		CustomerName: "Ivan Petrov",
		Items:        map[string]int{productID.String(): 3},
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response entity.Order
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, orderID, response.ID)
	assert.Equal(t, entity.OrderStatusPending, response.Status)
	assert.Equal(t, "ORD-20260826-DEADBEEF", response.OrderNumber)
}

func TestCreateOrderHandler_InvalidJSON(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService)
	router.POST("/orders", h.CreateOrder)

	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateOrder")
}

func TestCreateOrderHandler_EmptyItems(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService)
	router.POST("/orders", h.CreateOrder)

	reqBody := entity.CreateOrderRequest{
		CustomerName: "Ivan Petrov",
		Items:        map[string]int{},
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateOrder")
}

func TestCreateOrderHandler_InsufficientStock(t *testing.T) {
	router := setupTestRouter()

	productID := uuid.New()

	mockService := new(MockOrderService)
	mockService.On("CreateOrder", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: product Laptop has 2 in stock, requested 5", service.ErrInsufficientStock))

	h := NewOrderHandler(mockService)
	router.POST("/orders", h.CreateOrder)

	reqBody := entity.CreateOrderRequest{
		CustomerName: "Ivan Petrov",
		Items:        map[string]int{productID.String(): 5},
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Детали нехватки уходят клиенту, чтобы он мог поправить корзину
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "requested 5")
}

func TestCreateOrderHandler_ProductNotFound(t *testing.T) {
	router := setupTestRouter()

	productID := uuid.New()

	mockService := new(MockOrderService)
	mockService.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, service.ErrProductNotFound)

	h := NewOrderHandler(mockService)
	router.POST("/orders", h.CreateOrder)

	reqBody := entity.CreateOrderRequest{
		CustomerName: "Ivan Petrov",
		Items:        map[string]int{productID.String(): 1},
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequest(http.MethodPost, "/orders", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===================== GetOrder Handler Tests =====================

func TestGetOrderHandler_Success(t *testing.T) {
	router := setupTestRouter()

	orderID := uuid.New()
	order := newTestOrderResponse(orderID, entity.OrderStatusConfirmed)

	mockService := new(MockOrderService)
	mockService.On("GetOrder", mock.Anything, orderID).Return(order, nil)

	h := NewOrderHandler(mockService)
	router.GET("/orders/:id", h.GetOrder)

	req, _ := http.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.Order
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, orderID, response.ID)
	assert.Equal(t, entity.OrderStatusConfirmed, response.Status)
}

func TestGetOrderHandler_InvalidID(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService)
	router.GET("/orders/:id", h.GetOrder)

	req, _ := http.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "GetOrder")
}

func TestGetOrderHandler_NotFound(t *testing.T) {
	router := setupTestRouter()

	orderID := uuid.New()

	mockService := new(MockOrderService)
	mockService.On("GetOrder", mock.Anything, orderID).Return(nil, service.ErrOrderNotFound)

	h := NewOrderHandler(mockService)
	router.GET("/orders/:id", h.GetOrder)

	req, _ := http.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===================== GetOrdersByEmail Handler Tests =====================

func TestGetOrdersByEmailHandler_Success(t *testing.T) {
	router := setupTestRouter()

	orders := []entity.Order{
		*newTestOrderResponse(uuid.New(), entity.OrderStatusPending),
		*newTestOrderResponse(uuid.New(), entity.OrderStatusDelivered),
	}

	mockService := new(MockOrderService)
	mockService.On("GetOrdersByCustomerEmail", mock.Anything, "ivan@example.com").Return(orders, nil)

	h := NewOrderHandler(mockService)
	router.GET("/orders/by-email", h.GetOrdersByEmail)

	req, _ := http.NewRequest(http.MethodGet, "/orders/by-email?email=ivan@example.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.OrderListResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 2, response.Total)
}

func TestGetOrdersByEmailHandler_MissingEmail(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	mockService.On("GetOrdersByCustomerEmail", mock.Anything, "").Return(nil, service.ErrValidation)

	h := NewOrderHandler(mockService)
	router.GET("/orders/by-email", h.GetOrdersByEmail)

	req, _ := http.NewRequest(http.MethodGet, "/orders/by-email", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===================== GetOrdersByStatus Handler Tests =====================

func TestGetOrdersByStatusHandler_Success(t *testing.T) {
	router := setupTestRouter()

	orders := []entity.Order{*newTestOrderResponse(uuid.New(), entity.OrderStatusShipped)}

	mockService := new(MockOrderService)
	mockService.On("GetOrdersByStatus", mock.Anything, "SHIPPED").Return(orders, nil)

	h := NewOrderHandler(mockService)
	router.GET("/orders/by-status/:status", h.GetOrdersByStatus)

	req, _ := http.NewRequest(http.MethodGet, "/orders/by-status/SHIPPED", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.OrderListResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 1, response.Total)
}

func TestGetOrdersByStatusHandler_UnknownStatus(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	mockService.On("GetOrdersByStatus", mock.Anything, "CANCELLED").Return(nil, service.ErrValidation)

	h := NewOrderHandler(mockService)
	router.GET("/orders/by-status/:status", h.GetOrdersByStatus)

	req, _ := http.NewRequest(http.MethodGet, "/orders/by-status/CANCELLED", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===================== UpdateOrderStatus Handler Tests =====================

func TestUpdateOrderStatusHandler_Success(t *testing.T) {
	router := setupTestRouter()

	orderID := uuid.New()
	order := newTestOrderResponse(orderID, entity.OrderStatusConfirmed)

	mockService := new(MockOrderService)
	mockService.On("UpdateOrderStatus", mock.Anything, orderID, "CONFIRMED").Return(order, nil)

	h := NewOrderHandler(mockService)
	router.PATCH("/orders/:id/status", h.UpdateOrderStatus)

	body, _ := json.Marshal(entity.UpdateOrderStatusRequest{Status: "CONFIRMED"})
	req, _ := http.NewRequest(http.MethodPatch, "/orders/"+orderID.String()+"/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.Order
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, entity.OrderStatusConfirmed, response.Status)
}

func TestUpdateOrderStatusHandler_InvalidTransition(t *testing.T) {
	router := setupTestRouter()

	orderID := uuid.New()

	mockService := new(MockOrderService)
	mockService.On("UpdateOrderStatus", mock.Anything, orderID, "SHIPPED").
		Return(nil, fmt.Errorf("%w: PENDING -> SHIPPED", service.ErrInvalidStatusTransition))

	h := NewOrderHandler(mockService)
	router.PATCH("/orders/:id/status", h.UpdateOrderStatus)

	body, _ := json.Marshal(entity.UpdateOrderStatusRequest{Status: "SHIPPED"})
	req, _ := http.NewRequest(http.MethodPatch, "/orders/"+orderID.String()+"/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "PENDING -> SHIPPED")
}

func TestUpdateOrderStatusHandler_MissingStatus(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	h := NewOrderHandler(mockService)
	router.PATCH("/orders/:id/status", h.UpdateOrderStatus)

	body, _ := json.Marshal(map[string]string{})
	req, _ := http.NewRequest(http.MethodPatch, "/orders/"+uuid.New().String()+"/status", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Status is required")
	mockService.AssertNotCalled(t, "UpdateOrderStatus")
}

// ===================== DeleteOrder Handler Tests =====================

func TestDeleteOrderHandler_Success(t *testing.T) {
	router := setupTestRouter()

	orderID := uuid.New()

	mockService := new(MockOrderService)
	mockService.On("DeleteOrder", mock.Anything, orderID).Return(nil)

	h := NewOrderHandler(mockService)
	router.DELETE("/orders/:id", h.DeleteOrder)

	req, _ := http.NewRequest(http.MethodDelete, "/orders/"+orderID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeleteOrderHandler_NotFound(t *testing.T) {
	router := setupTestRouter()

	orderID := uuid.New()

	mockService := new(MockOrderService)
	mockService.On("DeleteOrder", mock.Anything, orderID).Return(service.ErrOrderNotFound)

	h := NewOrderHandler(mockService)
	router.DELETE("/orders/:id", h.DeleteOrder)

	req, _ := http.NewRequest(http.MethodDelete, "/orders/"+orderID.String(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===================== CountOrders Handler Tests =====================

func TestCountOrdersHandler_Success(t *testing.T) {
	router := setupTestRouter()

	mockService := new(MockOrderService)
	mockService.On("CountOrders", mock.Anything).Return(int64(7), nil)

	h := NewOrderHandler(mockService)
	router.GET("/orders/count", h.CountOrders)

	req, _ := http.NewRequest(http.MethodGet, "/orders/count", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, float64(7), response["count"])
}
