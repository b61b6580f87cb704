package usecase

import (
	"context"

	"go.uber.org/zap"

	"cafetab/internal/domain"
	"cafetab/internal/dto"
	apperrors "cafetab/internal/errors"
)

// UpdateOrderUseCase is the only mutation path for a pending order's
// contents. Paid orders are immutable.
type UpdateOrderUseCase struct {
	validator OrderValidator
	orderRepo OrderRepository
	logger    *zap.Logger
}

func NewUpdateOrderUseCase(validator OrderValidator, orderRepo OrderRepository, logger *zap.Logger) *UpdateOrderUseCase {
	return &UpdateOrderUseCase{
		validator: validator,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

func (uc *UpdateOrderUseCase) Update(ctx context.Context, orderID uint, req dto.UpdateOrderRequest) (*domain.Order, error) {
	order, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != domain.OrderStatusPending {
		return nil, apperrors.NewConflictError("order is not pending")
	}

	lines, err := uc.validator.Validate(ctx, order.TableID, req.Items)
	if err != nil {
		return nil, err
	}

	// The repository re-checks the pending precondition in the same
	// statement, so a concurrent markPaid cannot race this replace.
	updated, err := uc.orderRepo.UpdateItems(ctx, orderID, lines, req.Notes)
	if err != nil {
		uc.logger.Error("failed to update order", zap.Uint("orderId", orderID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("order updated",
		zap.String("orderNumber", updated.OrderNumber),
		zap.Int("itemCount", updated.ItemCount()),
	)

	return updated, nil
}
