package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ArachnoVa-id/roetix-reservation/internal/domain"
	"github.com/ArachnoVa-id/roetix-reservation/internal/dto"
	"github.com/ArachnoVa-id/roetix-reservation/internal/gateway"
	"github.com/ArachnoVa-id/roetix-reservation/internal/service"
)

// MockOrderService is a mock implementation of OrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, userID string, req *dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.OrderResponse), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.OrderResponse), args.Error(1)
}

func (m *MockOrderService) EditOrder(ctx context.Context, orderID string, req *dto.EditOrderRequest) (*dto.OrderResponse, error) {
	args := m.Called(ctx, orderID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.OrderResponse), args.Error(1)
}

func (m *MockOrderService) CancelOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderService) CompleteOrder(ctx context.Context, orderID string) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *MockOrderService) HandlePaymentCallback(ctx context.Context, orderCode string, status gateway.PaymentStatus) error {
	args := m.Called(ctx, orderCode, status)
	return args.Error(0)
}

func (m *MockOrderService) ScanTicket(ctx context.Context, req *dto.ScanTicketRequest) (*dto.TicketOrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TicketOrderResponse), args.Error(1)
}

func (m *MockOrderService) SweepExpiredOrders(ctx context.Context, limit int) (int, error) {
	args := m.Called(ctx, limit)
	return args.Int(0), args.Error(1)
}

var _ service.OrderService = (*MockOrderService)(nil)

func setupOrderRouter(svc service.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(svc)
	r := gin.New()
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/:id", h.GetOrder)
	r.POST("/orders/:id/cancel", h.CancelOrder)
	r.POST("/payments/callback", h.PaymentCallback)
	return r
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	t.Run("returns 201 with the created order", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		mockSvc.On("CreateOrder", mock.Anything, "user-1", mock.AnythingOfType("*dto.CreateOrderRequest")).
			Return(&dto.OrderResponse{ID: "order-1", Status: "pending", TotalPrice: 450}, nil)

		body, _ := json.Marshal(dto.CreateOrderRequest{
			EventID:   "event-1",
			VenueCode: "VENUE",
			TicketIDs: []string{"t1", "t2"},
		})
		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
		req.Header.Set("X-User-ID", "user-1")
		w := httptest.NewRecorder()
		setupOrderRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "order-1")
		mockSvc.AssertExpectations(t)
	})

	t.Run("returns 400 without user header", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte("{}")))
		w := httptest.NewRecorder()
		setupOrderRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockSvc.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("returns 409 when a ticket is taken", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		mockSvc.On("CreateOrder", mock.Anything, "user-1", mock.Anything).
			Return(nil, domain.ErrTicketUnavailable)

		body, _ := json.Marshal(dto.CreateOrderRequest{
			EventID:   "event-1",
			VenueCode: "VENUE",
			TicketIDs: []string{"t1"},
		})
		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
		req.Header.Set("X-User-ID", "user-1")
		w := httptest.NewRecorder()
		setupOrderRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("returns 422 for an empty ticket list", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		mockSvc.On("CreateOrder", mock.Anything, "user-1", mock.Anything).
			Return(nil, domain.ErrEmptyTicketList)

		body, _ := json.Marshal(dto.CreateOrderRequest{
			EventID:   "event-1",
			VenueCode: "VENUE",
			TicketIDs: []string{""},
		})
		req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
		req.Header.Set("X-User-ID", "user-1")
		w := httptest.NewRecorder()
		setupOrderRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	t.Run("returns 404 for an unknown order", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		mockSvc.On("GetOrder", mock.Anything, "nope").Return(nil, domain.ErrOrderNotFound)

		req := httptest.NewRequest(http.MethodGet, "/orders/nope", nil)
		w := httptest.NewRecorder()
		setupOrderRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_PaymentCallback(t *testing.T) {
	t.Run("maps settlement to a paid callback", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		mockSvc.On("HandlePaymentCallback", mock.Anything, "VENUE/20260901/ABCD1234", gateway.PaymentStatusPaid).
			Return(nil)

		body, _ := json.Marshal(dto.PaymentCallbackRequest{
			OrderCode:         "VENUE/20260901/ABCD1234",
			TransactionStatus: "settlement",
		})
		req := httptest.NewRequest(http.MethodPost, "/payments/callback", bytes.NewReader(body))
		w := httptest.NewRecorder()
		setupOrderRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("maps expire to an unpaid callback", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		mockSvc.On("HandlePaymentCallback", mock.Anything, "VENUE/20260901/ABCD1234", gateway.PaymentStatusUnpaid).
			Return(nil)

		body, _ := json.Marshal(dto.PaymentCallbackRequest{
			OrderCode:         "VENUE/20260901/ABCD1234",
			TransactionStatus: "expire",
		})
		req := httptest.NewRequest(http.MethodPost, "/payments/callback", bytes.NewReader(body))
		w := httptest.NewRecorder()
		setupOrderRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockSvc.AssertExpectations(t)
	})
}

func TestOrderHandler_CancelOrder(t *testing.T) {
	t.Run("returns 409 for an already completed order", func(t *testing.T) {
		mockSvc := new(MockOrderService)
		mockSvc.On("CancelOrder", mock.Anything, "order-1").Return(domain.ErrOrderAlreadyCompleted)

		req := httptest.NewRequest(http.MethodPost, "/orders/order-1/cancel", nil)
		w := httptest.NewRecorder()
		setupOrderRouter(mockSvc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
