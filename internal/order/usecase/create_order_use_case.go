package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cafetab/internal/admission"
	"cafetab/internal/domain"
	"cafetab/internal/dto"
)

type OrderValidator interface {
	Validate(ctx context.Context, tableID uint, items []dto.OrderItemRequest) ([]domain.OrderLine, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id uint) (*domain.Order, error)
	UpdateItems(ctx context.Context, id uint, items []domain.OrderLine, notes *string) (*domain.Order, error)
	SetPaid(ctx context.Context, id uint, paymentType string) (*domain.Order, error)
}

type EventPublisher interface {
	OrderCreated(ctx context.Context, order *domain.Order)
	OrderPaid(ctx context.Context, order *domain.Order)
}

type CreateOrderUseCase struct {
	guard     admission.Guard
	validator OrderValidator
	orderRepo OrderRepository
	publisher EventPublisher
	logger    *zap.Logger
}

func NewCreateOrderUseCase(
	guard admission.Guard,
	validator OrderValidator,
	orderRepo OrderRepository,
	publisher EventPublisher,
	logger *zap.Logger,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		guard:     guard,
		validator: validator,
		orderRepo: orderRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *CreateOrderUseCase) Create(ctx context.Context, req dto.CreateOrderRequest, adm admission.Request) (*domain.Order, error) {
	if err := uc.guard.Admit(ctx, adm); err != nil {
		return nil, err
	}

	lines, err := uc.validator.Validate(ctx, req.TableID, req.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &domain.Order{
		OrderNumber: newOrderNumber(now),
		TableID:     req.TableID,
		Items:       lines,
		Status:      domain.OrderStatusPending,
		Notes:       req.Notes,
		CreatedAt:   now,
	}

	created, err := uc.orderRepo.Insert(ctx, order)
	if err != nil {
		uc.logger.Error("failed to insert order", zap.Uint("tableId", req.TableID), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("order created",
		zap.String("orderNumber", created.OrderNumber),
		zap.Uint("tableId", created.TableID),
		zap.Int("itemCount", created.ItemCount()),
	)
	uc.publisher.OrderCreated(ctx, created)

	return created, nil
}

// newOrderNumber builds a display code with no shared counter; concurrent
// creations stay independent.
func newOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), suffix)
}
