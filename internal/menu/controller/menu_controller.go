package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"cafetab/internal/domain"
	"cafetab/internal/dto"
	apperrors "cafetab/internal/errors"
)

type MenuReader interface {
	ListAvailable(ctx context.Context) ([]domain.MenuItem, error)
}

type MenuController struct {
	reader MenuReader
	logger *zap.Logger
}

func NewMenuController(reader MenuReader, logger *zap.Logger) *MenuController {
	return &MenuController{
		reader: reader,
		logger: logger,
	}
}

func (c *MenuController) List(w http.ResponseWriter, r *http.Request) {
	items, err := c.reader.ListAvailable(r.Context())
	if err != nil {
		status := http.StatusInternalServerError
		message := "an unexpected error occurred"
		if _, ok := apperrors.IsUnavailableError(err); ok {
			status = http.StatusServiceUnavailable
			message = "a backing service is unavailable"
		}
		c.logger.Error("failed to list menu", zap.Error(err))
		c.writeJSON(w, status, map[string]string{"error": message})
		return
	}

	responses := make([]dto.MenuItemResponse, len(items))
	for i, item := range items {
		responses[i] = dto.NewMenuItemResponse(item)
	}

	c.writeJSON(w, http.StatusOK, responses)
}

func (c *MenuController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
