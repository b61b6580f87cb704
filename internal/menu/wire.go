package menu

import (
	"database/sql"

	"go.uber.org/zap"

	"cafetab/internal/config"
	"cafetab/internal/menu/controller"
	"cafetab/internal/menu/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.MenuController {
	repo := repository.NewMySQLMenuRepository(db, cfg.Database.QueryTimeout)
	return controller.NewMenuController(repo, logger)
}
