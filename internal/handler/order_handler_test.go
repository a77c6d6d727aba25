package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"event-ticket-system/internal/handler"
	"event-ticket-system/internal/mocks"
	"event-ticket-system/internal/model"
	apperrors "event-ticket-system/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupOrderTestRouter(mockService *mocks.OrderServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler.NewOrderHandler(mockService).RegisterRoutes(router)
	return router
}

func createJSONRequest(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, url, bytes.NewBuffer(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateOrderEndpoint(t *testing.T) {
	validRequest := model.CreateOrderRequest{
		CustomerID: 7,
		EventID:    1,
		Lines:      []model.OrderLineRequest{{TicketTypeID: 1, Quantity: 2}},
	}

	t.Run("Created", func(t *testing.T) {
		mockService := mocks.NewOrderServiceMock()
		router := setupOrderTestRouter(mockService)

		mockService.On("CreateOrder", mock.Anything, mock.Anything).Return(&model.CreateOrderResponse{
			Order: &model.Order{
				ID:       1,
				OrderID:  uuid.New(),
				Status:   model.OrderStatusPending,
				NetTotal: 200,
			},
			PaymentURL: "https://pay.test/abc",
		}, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, createJSONRequest(t, "POST", "/api/v1/orders", validRequest))

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp model.CreateOrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "https://pay.test/abc", resp.PaymentURL)
		assert.Equal(t, model.OrderStatusPending, resp.Order.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		mockService := mocks.NewOrderServiceMock()
		router := setupOrderTestRouter(mockService)

		req := httptest.NewRequest("POST", "/api/v1/orders", bytes.NewBufferString("{not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	})

	statusCases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"EmptyOrder", apperrors.ErrEmptyOrder, http.StatusBadRequest},
		{"InvalidQuantity", apperrors.ErrInvalidQuantity, http.StatusBadRequest},
		{"TicketNotInEvent", apperrors.ErrTicketNotInEvent, http.StatusBadRequest},
		{"SaleNotOpen", apperrors.ErrSaleNotOpen, http.StatusBadRequest},
		{"DiscountExpired", apperrors.ErrDiscountExpired, http.StatusBadRequest},
		{"DiscountWrongEvent", apperrors.ErrDiscountWrongEvent, http.StatusBadRequest},
		{"DiscountNotFound", apperrors.ErrDiscountNotFound, http.StatusNotFound},
		{"TicketTypeNotFound", apperrors.ErrTicketTypeNotFound, http.StatusNotFound},
		{"InsufficientStock", apperrors.ErrInsufficientStock, http.StatusConflict},
		{"DiscountUsageExceeded", apperrors.ErrDiscountUsageExceeded, http.StatusConflict},
		{"PersistenceFailed", apperrors.ErrPersistenceFailed, http.StatusServiceUnavailable},
		{"Internal", apperrors.ErrInternalServerError, http.StatusInternalServerError},
	}

	for _, tc := range statusCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := mocks.NewOrderServiceMock()
			router := setupOrderTestRouter(mockService)

			mockService.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, createJSONRequest(t, "POST", "/api/v1/orders", validRequest))

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}

func TestGetOrderEndpoint(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		mockService := mocks.NewOrderServiceMock()
		router := setupOrderTestRouter(mockService)

		mockService.On("GetOrderByID", mock.Anything, 42).Return(&model.Order{
			ID:     42,
			Status: model.OrderStatusPaid,
		}, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/orders/42", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := mocks.NewOrderServiceMock()
		router := setupOrderTestRouter(mockService)

		mockService.On("GetOrderByID", mock.Anything, 42).Return(nil, apperrors.ErrOrderNotFound).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/orders/42", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("NonNumericID", func(t *testing.T) {
		mockService := mocks.NewOrderServiceMock()
		router := setupOrderTestRouter(mockService)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/orders/abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCancelOrderEndpoint(t *testing.T) {
	t.Run("Cancelled", func(t *testing.T) {
		mockService := mocks.NewOrderServiceMock()
		router := setupOrderTestRouter(mockService)

		mockService.On("CancelOrder", mock.Anything, 42, "changed plans").Return(nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, createJSONRequest(t, "PUT", "/api/v1/orders/42/cancel",
			handler.CancelOrderRequest{Reason: "changed plans"}))

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("EmptyReasonGetsDefault", func(t *testing.T) {
		mockService := mocks.NewOrderServiceMock()
		router := setupOrderTestRouter(mockService)

		mockService.On("CancelOrder", mock.Anything, 42, "cancelled by customer").Return(nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, createJSONRequest(t, "PUT", "/api/v1/orders/42/cancel",
			handler.CancelOrderRequest{}))

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("PaidOrderConflicts", func(t *testing.T) {
		mockService := mocks.NewOrderServiceMock()
		router := setupOrderTestRouter(mockService)

		mockService.On("CancelOrder", mock.Anything, 42, mock.Anything).
			Return(apperrors.ErrInvalidTransition).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, createJSONRequest(t, "PUT", "/api/v1/orders/42/cancel",
			handler.CancelOrderRequest{Reason: "too late"}))

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
