package order

import (
	"database/sql"

	"go.uber.org/zap"

	"cafetab/internal/admission"
	"cafetab/internal/config"
	menurepo "cafetab/internal/menu/repository"
	"cafetab/internal/order/controller"
	orderrepo "cafetab/internal/order/repository"
	"cafetab/internal/order/service"
	"cafetab/internal/order/usecase"
	tablerepo "cafetab/internal/table/repository"
)

func NewModule(
	db *sql.DB,
	cfg *config.Config,
	guard admission.Guard,
	publisher usecase.EventPublisher,
	logger *zap.Logger,
) *controller.OrderController {
	timeout := cfg.Database.QueryTimeout

	orderRepo := orderrepo.NewMySQLOrderRepository(db, timeout)
	tableRepo := tablerepo.NewMySQLTableRepository(db, timeout)
	menuRepo := menurepo.NewMySQLMenuRepository(db, timeout)

	validator := service.NewOrderValidator(tableRepo, menuRepo, logger)

	createUC := usecase.NewCreateOrderUseCase(guard, validator, orderRepo, publisher, logger)
	updateUC := usecase.NewUpdateOrderUseCase(validator, orderRepo, logger)
	payUC := usecase.NewPayOrderUseCase(orderRepo, publisher, logger)

	return controller.NewOrderController(createUC, updateUC, payUC, orderRepo, cfg.Admission.StaffToken, logger)
}
