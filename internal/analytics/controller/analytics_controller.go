package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cafetab/internal/dto"
	apperrors "cafetab/internal/errors"
)

type Aggregator interface {
	Window(startDate, endDate string) (time.Time, time.Time, error)
	Summary(ctx context.Context, from, to time.Time) (*dto.AnalyticsSummary, error)
}

type AnalyticsController struct {
	aggregator Aggregator
	logger     *zap.Logger
}

func NewAnalyticsController(aggregator Aggregator, logger *zap.Logger) *AnalyticsController {
	return &AnalyticsController{
		aggregator: aggregator,
		logger:     logger,
	}
}

func (c *AnalyticsController) GetMetric(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	metric := chi.URLParam(r, "metric")

	from, to, err := c.aggregator.Window(
		r.URL.Query().Get("startDate"),
		r.URL.Query().Get("endDate"),
	)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	summary, err := c.aggregator.Summary(r.Context(), from, to)
	if err != nil {
		c.handleError(w, err, logger)
		return
	}

	switch metric {
	case "summary":
		c.writeJSON(w, http.StatusOK, summary)
	case "total-orders":
		c.writeJSON(w, http.StatusOK, map[string]int{"totalOrders": summary.TotalOrders})
	case "total-revenue":
		c.writeJSON(w, http.StatusOK, map[string]float64{"totalRevenue": summary.TotalRevenue})
	case "average-order-value":
		c.writeJSON(w, http.StatusOK, map[string]float64{"averageOrderValue": summary.AverageOrderValue})
	case "most-sold-item":
		c.writeJSON(w, http.StatusOK, summary.MostSoldItem)
	case "peak-hour":
		c.writeJSON(w, http.StatusOK, map[string]string{"peakHour": summary.PeakHour})
	case "total-items-sold":
		c.writeJSON(w, http.StatusOK, map[string]int{"totalItemsSold": summary.TotalItemsSold})
	default:
		c.writeJSON(w, http.StatusNotFound, errorResponse{
			Error:   "NOT_FOUND",
			Message: "unknown analytics metric " + metric,
		})
	}
}

type errorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details,omitempty"`
}

func (c *AnalyticsController) handleError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "VALIDATION_ERROR",
			Message: ve.Message,
			Details: ve.Details,
		})
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

func (c *AnalyticsController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
