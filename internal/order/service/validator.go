package service

import (
	"context"

	"go.uber.org/zap"

	"cafetab/internal/domain"
	"cafetab/internal/dto"
	apperrors "cafetab/internal/errors"
)

type TableRepository interface {
	FindByID(ctx context.Context, id uint) (*domain.Table, error)
}

type MenuRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]domain.MenuItem, error)
}

// OrderValidator checks referential integrity of a proposed order and
// produces normalized lines. The catalog is authoritative: client-supplied
// name/price/category are discarded, which closes the price-tampering hole.
type OrderValidator struct {
	tableRepo TableRepository
	menuRepo  MenuRepository
	logger    *zap.Logger
}

func NewOrderValidator(tableRepo TableRepository, menuRepo MenuRepository, logger *zap.Logger) *OrderValidator {
	return &OrderValidator{
		tableRepo: tableRepo,
		menuRepo:  menuRepo,
		logger:    logger,
	}
}

func (v *OrderValidator) Validate(ctx context.Context, tableID uint, items []dto.OrderItemRequest) ([]domain.OrderLine, error) {
	if _, err := v.tableRepo.FindByID(ctx, tableID); err != nil {
		if _, ok := apperrors.IsNotFoundError(err); ok {
			return nil, apperrors.NewInvalidReferenceError("table", "table does not exist")
		}
		return nil, err
	}

	if len(items) == 0 {
		return nil, apperrors.NewValidationError("items must not be empty")
	}

	distinct := make(map[uint]bool, len(items))
	var ids []uint
	for _, item := range items {
		if item.ItemID == 0 {
			return nil, apperrors.NewInvalidReferenceError("items", "every item needs an itemId")
		}
		if !distinct[item.ItemID] {
			distinct[item.ItemID] = true
			ids = append(ids, item.ItemID)
		}
	}

	catalogItems, err := v.menuRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	catalog := make(map[uint]domain.MenuItem, len(catalogItems))
	for _, item := range catalogItems {
		catalog[item.ID] = item
	}

	if len(catalog) != len(ids) {
		v.logger.Warn("order references unknown menu items",
			zap.Int("requested", len(ids)),
			zap.Int("resolved", len(catalog)),
		)
		return nil, apperrors.NewInvalidReferenceError("items", "one or more items do not exist")
	}

	lines := make([]domain.OrderLine, len(items))
	for i, item := range items {
		menuItem := catalog[item.ItemID]

		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}

		lines[i] = domain.OrderLine{
			ItemID:   menuItem.ID,
			Name:     menuItem.Name,
			Price:    menuItem.Price,
			Quantity: quantity,
			Category: menuItem.Category,
			ImageURL: menuItem.ImageURL,
			Note:     item.Note,
		}
	}

	return lines, nil
}
