package analytics

import (
	"database/sql"

	"go.uber.org/zap"

	"cafetab/internal/analytics/controller"
	"cafetab/internal/analytics/service"
	"cafetab/internal/config"
	orderrepo "cafetab/internal/order/repository"
)

// NewModule returns the HTTP controller plus the aggregator itself, which
// the daily summary job reuses.
func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) (*controller.AnalyticsController, *service.Aggregator) {
	orderRepo := orderrepo.NewMySQLOrderRepository(db, cfg.Database.QueryTimeout)
	aggregator := service.NewAggregator(orderRepo, cfg.Analytics.TZOffsetMinutes, logger)
	return controller.NewAnalyticsController(aggregator, logger), aggregator
}
