package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"cafetab/internal/dto"
)

type Aggregator interface {
	Window(startDate, endDate string) (time.Time, time.Time, error)
	Summary(ctx context.Context, from, to time.Time) (*dto.AnalyticsSummary, error)
}

// DailySummaryJob logs the previous day's sales figures shortly after the
// café-local midnight.
type DailySummaryJob struct {
	aggregator Aggregator
	location   *time.Location
	cron       *cron.Cron
	logger     *zap.Logger
}

func NewDailySummaryJob(aggregator Aggregator, tzOffsetMinutes int, logger *zap.Logger) *DailySummaryJob {
	return &DailySummaryJob{
		aggregator: aggregator,
		location:   time.FixedZone("cafe", tzOffsetMinutes*60),
		cron:       cron.New(),
		logger:     logger.With(zap.String("component", "daily_summary_job")),
	}
}

func (j *DailySummaryJob) Start() error {
	_, err := j.cron.AddFunc("5 0 * * *", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("daily summary job started")
	return nil
}

func (j *DailySummaryJob) Stop() {
	j.cron.Stop()
	j.logger.Info("daily summary job stopped")
}

func (j *DailySummaryJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	yesterday := time.Now().In(j.location).AddDate(0, 0, -1).Format("2006-01-02")

	from, to, err := j.aggregator.Window(yesterday, yesterday)
	if err != nil {
		j.logger.Error("failed to resolve summary window", zap.Error(err))
		return
	}

	summary, err := j.aggregator.Summary(ctx, from, to)
	if err != nil {
		j.logger.Error("failed to compute daily summary", zap.String("date", yesterday), zap.Error(err))
		return
	}

	j.logger.Info("daily sales summary",
		zap.String("date", yesterday),
		zap.Int("totalOrders", summary.TotalOrders),
		zap.Float64("totalRevenue", summary.TotalRevenue),
		zap.Float64("averageOrderValue", summary.AverageOrderValue),
		zap.String("mostSoldItem", summary.MostSoldItem.Name),
		zap.String("peakHour", summary.PeakHour),
		zap.Int("totalItemsSold", summary.TotalItemsSold),
	)
}
