package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cafetab/internal/admission"
	"cafetab/internal/domain"
	"cafetab/internal/dto"
	apperrors "cafetab/internal/errors"
	"cafetab/internal/order/repository"
)

const staffTokenHeader = "X-Staff-Token"

type CreateOrderUseCase interface {
	Create(ctx context.Context, req dto.CreateOrderRequest, adm admission.Request) (*domain.Order, error)
}

type UpdateOrderUseCase interface {
	Update(ctx context.Context, orderID uint, req dto.UpdateOrderRequest) (*domain.Order, error)
}

type PayOrderUseCase interface {
	Pay(ctx context.Context, orderID uint, paymentType string) (*domain.Order, error)
}

type OrderReader interface {
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	FindAll(ctx context.Context, filter repository.Filter) ([]domain.Order, error)
}

type OrderController struct {
	createUC   CreateOrderUseCase
	updateUC   UpdateOrderUseCase
	payUC      PayOrderUseCase
	reader     OrderReader
	staffToken string
	logger     *zap.Logger
}

func NewOrderController(
	createUC CreateOrderUseCase,
	updateUC UpdateOrderUseCase,
	payUC PayOrderUseCase,
	reader OrderReader,
	staffToken string,
	logger *zap.Logger,
) *OrderController {
	return &OrderController{
		createUC:   createUC,
		updateUC:   updateUC,
		payUC:      payUC,
		reader:     reader,
		staffToken: staffToken,
		logger:     logger,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.TableID == 0 {
		c.writeValidationError(w, "validation failed", apperrors.ValidationDetail{
			Field:   "tableId",
			Message: "tableId is required",
		})
		return
	}

	adm := admission.Request{
		Staff:     c.isStaff(r),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		ClientIP:  admission.ClientIP(r),
	}

	order, err := c.createUC.Create(r.Context(), req, adm)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.NewOrderResponse(order))
}

func (c *OrderController) Update(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.orderIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.updateUC.Update(r.Context(), orderID, req)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.NewOrderResponse(order))
}

func (c *OrderController) Pay(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.orderIDFromPath(w, r)
	if !ok {
		return
	}

	var req dto.PayOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	order, err := c.payUC.Pay(r.Context(), orderID, req.PaymentType)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.NewOrderResponse(order))
}

func (c *OrderController) GetByID(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID, ok := c.orderIDFromPath(w, r)
	if !ok {
		return
	}

	order, err := c.reader.FindByID(r.Context(), orderID)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.NewOrderResponse(order))
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	filter := repository.Filter{Status: r.URL.Query().Get("status")}

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.writeValidationError(w, "validation failed", apperrors.ValidationDetail{
				Field:   "startDate",
				Message: "must be formatted YYYY-MM-DD",
			})
			return
		}
		filter.From = &from
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.writeValidationError(w, "validation failed", apperrors.ValidationDetail{
				Field:   "endDate",
				Message: "must be formatted YYYY-MM-DD",
			})
			return
		}
		to := parsed.Add(24*time.Hour - time.Nanosecond)
		filter.To = &to
	}

	orders, err := c.reader.FindAll(r.Context(), filter)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	responses := make([]dto.OrderResponse, len(orders))
	for i := range orders {
		responses[i] = dto.NewOrderResponse(&orders[i])
	}

	c.writeJSON(w, http.StatusOK, responses)
}

func (c *OrderController) isStaff(r *http.Request) bool {
	return c.staffToken != "" && r.Header.Get(staffTokenHeader) == c.staffToken
}

func (c *OrderController) orderIDFromPath(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "orderId")
	orderID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || orderID == 0 {
		c.writeValidationError(w, "invalid orderId", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId must be a positive integer",
		})
		return 0, false
	}
	return uint(orderID), true
}

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}

// handleError maps the error taxonomy onto HTTP statuses. Store errors are
// never echoed verbatim to callers.
func (c *OrderController) handleError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}
	if ire, ok := apperrors.IsInvalidReferenceError(err); ok {
		c.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "INVALID_REFERENCE", Message: ire.Message})
		return
	}
	if fe, ok := apperrors.IsForbiddenError(err); ok {
		c.writeJSON(w, http.StatusForbidden, errorResponse{Error: "FORBIDDEN", Message: fe.Message})
		return
	}
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, errorResponse{Error: "NOT_FOUND", Message: nfe.Message})
		return
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		c.writeJSON(w, http.StatusConflict, errorResponse{Error: "INVALID_TRANSITION", Message: ce.Message})
		return
	}
	if _, ok := apperrors.IsUnavailableError(err); ok {
		logger.Error("upstream store unavailable", zap.Error(err))
		c.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "UPSTREAM_UNAVAILABLE", Message: "a backing service is unavailable"})
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "INTERNAL_ERROR", Message: "an unexpected error occurred"})
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
