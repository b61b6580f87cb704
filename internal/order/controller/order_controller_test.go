package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cafetab/internal/admission"
	"cafetab/internal/domain"
	"cafetab/internal/dto"
	apperrors "cafetab/internal/errors"
	"cafetab/internal/order/repository"
)

type mockCreateUC struct {
	CreateFunc func(ctx context.Context, req dto.CreateOrderRequest, adm admission.Request) (*domain.Order, error)
}

func (m *mockCreateUC) Create(ctx context.Context, req dto.CreateOrderRequest, adm admission.Request) (*domain.Order, error) {
	return m.CreateFunc(ctx, req, adm)
}

type mockUpdateUC struct {
	UpdateFunc func(ctx context.Context, orderID uint, req dto.UpdateOrderRequest) (*domain.Order, error)
}

func (m *mockUpdateUC) Update(ctx context.Context, orderID uint, req dto.UpdateOrderRequest) (*domain.Order, error) {
	return m.UpdateFunc(ctx, orderID, req)
}

type mockPayUC struct {
	PayFunc func(ctx context.Context, orderID uint, paymentType string) (*domain.Order, error)
}

func (m *mockPayUC) Pay(ctx context.Context, orderID uint, paymentType string) (*domain.Order, error) {
	return m.PayFunc(ctx, orderID, paymentType)
}

type mockReader struct {
	FindByIDFunc func(ctx context.Context, id uint) (*domain.Order, error)
	FindAllFunc  func(ctx context.Context, filter repository.Filter) ([]domain.Order, error)
}

func (m *mockReader) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockReader) FindAll(ctx context.Context, filter repository.Filter) ([]domain.Order, error) {
	return m.FindAllFunc(ctx, filter)
}

func newTestRouter(c *OrderController) http.Handler {
	r := chi.NewRouter()
	r.Post("/orders", c.Create)
	r.Patch("/orders/{orderId}", c.Update)
	r.Patch("/orders/{orderId}/pay", c.Pay)
	r.Get("/orders/{orderId}", c.GetByID)
	return r
}

func TestCreate_StaffHeaderSetsAdmissionFlag(t *testing.T) {
	var gotAdm admission.Request
	createUC := &mockCreateUC{
		CreateFunc: func(ctx context.Context, req dto.CreateOrderRequest, adm admission.Request) (*domain.Order, error) {
			gotAdm = adm
			return &domain.Order{ID: 1, Status: domain.OrderStatusPending, TableID: req.TableID}, nil
		},
	}
	c := NewOrderController(createUC, nil, nil, nil, "waiter-secret", zap.NewNop())

	body := `{"tableId": 3, "items": [{"itemId": 1}]}`
	req := httptest.NewRequest("POST", "/orders", strings.NewReader(body))
	req.Header.Set(staffTokenHeader, "waiter-secret")
	rec := httptest.NewRecorder()

	newTestRouter(c).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, gotAdm.Staff)
}

func TestCreate_WrongStaffTokenIsNotStaff(t *testing.T) {
	var gotAdm admission.Request
	createUC := &mockCreateUC{
		CreateFunc: func(ctx context.Context, req dto.CreateOrderRequest, adm admission.Request) (*domain.Order, error) {
			gotAdm = adm
			return nil, apperrors.NewForbiddenError("outside service area")
		},
	}
	c := NewOrderController(createUC, nil, nil, nil, "waiter-secret", zap.NewNop())

	body := `{"tableId": 3, "items": [{"itemId": 1}]}`
	req := httptest.NewRequest("POST", "/orders", strings.NewReader(body))
	req.Header.Set(staffTokenHeader, "guessed")
	rec := httptest.NewRecorder()

	newTestRouter(c).ServeHTTP(rec, req)

	assert.False(t, gotAdm.Staff)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "FORBIDDEN")
}

func TestCreate_InvalidJSON(t *testing.T) {
	c := NewOrderController(&mockCreateUC{}, nil, nil, nil, "", zap.NewNop())

	req := httptest.NewRequest("POST", "/orders", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	newTestRouter(c).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestUpdate_ConflictMapsTo409(t *testing.T) {
	updateUC := &mockUpdateUC{
		UpdateFunc: func(ctx context.Context, orderID uint, req dto.UpdateOrderRequest) (*domain.Order, error) {
			return nil, apperrors.NewConflictError("order is not pending")
		},
	}
	c := NewOrderController(nil, updateUC, nil, nil, "", zap.NewNop())

	req := httptest.NewRequest("PATCH", "/orders/5", strings.NewReader(`{"items":[{"itemId":1}]}`))
	rec := httptest.NewRecorder()

	newTestRouter(c).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TRANSITION")
}

func TestPay_NotFoundMapsTo404(t *testing.T) {
	payUC := &mockPayUC{
		PayFunc: func(ctx context.Context, orderID uint, paymentType string) (*domain.Order, error) {
			return nil, apperrors.NewNotFoundError("order with id 5 not found")
		},
	}
	c := NewOrderController(nil, nil, payUC, nil, "", zap.NewNop())

	req := httptest.NewRequest("PATCH", "/orders/5/pay", strings.NewReader(`{"paymentType":"Cash"}`))
	rec := httptest.NewRecorder()

	newTestRouter(c).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestPay_UnavailableMapsTo503(t *testing.T) {
	payUC := &mockPayUC{
		PayFunc: func(ctx context.Context, orderID uint, paymentType string) (*domain.Order, error) {
			return nil, apperrors.NewUnavailableError("order store timed out", nil)
		},
	}
	c := NewOrderController(nil, nil, payUC, nil, "", zap.NewNop())

	req := httptest.NewRequest("PATCH", "/orders/5/pay", strings.NewReader(`{"paymentType":"Cash"}`))
	rec := httptest.NewRecorder()

	newTestRouter(c).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	// The store's own error text must not leak.
	assert.NotContains(t, rec.Body.String(), "timed out")
}

func TestGetByID_BadPathParam(t *testing.T) {
	c := NewOrderController(nil, nil, nil, &mockReader{}, "", zap.NewNop())

	req := httptest.NewRequest("GET", "/orders/abc", nil)
	rec := httptest.NewRecorder()

	newTestRouter(c).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetByID_Success(t *testing.T) {
	reader := &mockReader{
		FindByIDFunc: func(ctx context.Context, id uint) (*domain.Order, error) {
			require.Equal(t, uint(5), id)
			return &domain.Order{
				ID:          5,
				OrderNumber: "ORD-20260830-A1B2C3",
				Status:      domain.OrderStatusPending,
				Items:       []domain.OrderLine{{Name: "Latte", Price: 4.5, Quantity: 2}},
			}, nil
		},
	}
	c := NewOrderController(nil, nil, nil, reader, "", zap.NewNop())

	req := httptest.NewRequest("GET", "/orders/5", nil)
	rec := httptest.NewRecorder()

	newTestRouter(c).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORD-20260830-A1B2C3")
	assert.Contains(t, rec.Body.String(), `"total":9`)
}
