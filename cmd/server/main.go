package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cafetab/internal/admission"
	"cafetab/internal/analytics"
	"cafetab/internal/config"
	"cafetab/internal/domain"
	"cafetab/internal/events"
	"cafetab/internal/infrastructure/logger"
	"cafetab/internal/infrastructure/mysql"
	"cafetab/internal/infrastructure/rabbitmq"
	"cafetab/internal/infrastructure/redis"
	"cafetab/internal/jobs"
	"cafetab/internal/menu"
	"cafetab/internal/order"
	"cafetab/internal/server"
	settingsrepo "cafetab/internal/settings/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	guard, err := buildGuard(cfg, db, zapLogger)
	if err != nil {
		zapLogger.Fatal("building admission guard", zap.Error(err))
	}

	var limiter *admission.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := redis.Initialize(cfg.Redis.URL)
		if err != nil {
			zapLogger.Fatal("connecting to redis", zap.Error(err))
		}
		defer redisClient.Close()
		limiter = admission.NewRateLimiter(redisClient, cfg.Redis.RateLimitMax, cfg.Redis.RateLimitWindow, zapLogger)
		zapLogger.Info("rate limiter enabled",
			zap.Int("max", cfg.Redis.RateLimitMax),
			zap.Duration("window", cfg.Redis.RateLimitWindow),
		)
	}

	var broker events.Broker
	if cfg.RabbitMQ.URL != "" {
		rmqClient, err := rabbitmq.Dial(cfg.RabbitMQ.URL)
		if err != nil {
			zapLogger.Fatal("connecting to rabbitmq", zap.Error(err))
		}
		defer rmqClient.Close()

		if err := rmqClient.DeclareTopicExchange(cfg.RabbitMQ.Exchange); err != nil {
			zapLogger.Fatal("declaring exchange", zap.Error(err))
		}
		broker = rmqClient
		zapLogger.Info("kitchen event publisher enabled", zap.String("exchange", cfg.RabbitMQ.Exchange))
	}
	publisher := events.NewPublisher(broker, cfg.RabbitMQ.Exchange, zapLogger)

	orderCtrl := order.NewModule(db, cfg, guard, publisher, zapLogger)
	menuCtrl := menu.NewModule(db, cfg, zapLogger)
	analyticsCtrl, aggregator := analytics.NewModule(db, cfg, zapLogger)

	summaryJob := jobs.NewDailySummaryJob(aggregator, cfg.Analytics.TZOffsetMinutes, zapLogger)
	if err := summaryJob.Start(); err != nil {
		zapLogger.Fatal("starting daily summary job", zap.Error(err))
	}
	defer summaryJob.Stop()

	router := server.NewRouter(orderCtrl, menuCtrl, analyticsCtrl, limiter, zapLogger)
	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func buildGuard(cfg *config.Config, db *sql.DB, zapLogger *zap.Logger) (admission.Guard, error) {
	switch cfg.Admission.Strategy {
	case config.StrategySubnet:
		return admission.NewSubnetGuard(cfg.Admission.SubnetCIDR, zapLogger)
	default:
		defaults := domain.CafeSettings{
			Latitude:        cfg.Cafe.Latitude,
			Longitude:       cfg.Cafe.Longitude,
			GeofenceRadiusM: cfg.Cafe.GeofenceRadiusM,
		}
		settings := settingsrepo.NewMySQLSettingsRepository(db, defaults, cfg.Database.QueryTimeout)
		return admission.NewGeofenceGuard(settings, zapLogger), nil
	}
}
