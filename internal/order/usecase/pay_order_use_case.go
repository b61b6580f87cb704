package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cafetab/internal/domain"
	apperrors "cafetab/internal/errors"
)

// PayOrderUseCase transitions an order from pending to paid, the terminal
// state. A second pay attempt is a hard conflict rather than a silent no-op:
// the order stays exactly as the first payment left it, and the caller learns
// it raced.
type PayOrderUseCase struct {
	orderRepo OrderRepository
	publisher EventPublisher
	logger    *zap.Logger
}

func NewPayOrderUseCase(orderRepo OrderRepository, publisher EventPublisher, logger *zap.Logger) *PayOrderUseCase {
	return &PayOrderUseCase{
		orderRepo: orderRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *PayOrderUseCase) Pay(ctx context.Context, orderID uint, paymentType string) (*domain.Order, error) {
	if !domain.IsValidPaymentType(paymentType) {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("invalid payment type %q", paymentType),
			apperrors.ValidationDetail{Field: "paymentType", Message: "must be one of UPI, Cash, Bank, Card"},
		)
	}

	paid, err := uc.orderRepo.SetPaid(ctx, orderID, paymentType)
	if err != nil {
		if _, ok := apperrors.IsConflictError(err); ok {
			uc.logger.Warn("pay attempt on non-pending order", zap.Uint("orderId", orderID))
		} else {
			uc.logger.Error("failed to mark order paid", zap.Uint("orderId", orderID), zap.Error(err))
		}
		return nil, err
	}

	uc.logger.Info("order paid",
		zap.String("orderNumber", paid.OrderNumber),
		zap.String("paymentType", paymentType),
		zap.Float64("total", paid.Total()),
	)
	uc.publisher.OrderPaid(ctx, paid)

	return paid, nil
}
