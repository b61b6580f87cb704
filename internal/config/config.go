package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Admission AdmissionConfig
	Cafe      CafeConfig
	Analytics AnalyticsConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

type RedisConfig struct {
	URL             string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// AdmissionConfig selects which admission strategy gates order creation.
// Exactly one of geofence/subnet is active per deployment.
type AdmissionConfig struct {
	Strategy   string
	StaffToken string
	SubnetCIDR string
}

type CafeConfig struct {
	Latitude        float64
	Longitude       float64
	GeofenceRadiusM float64
}

type AnalyticsConfig struct {
	TZOffsetMinutes int
}

type LogConfig struct {
	Level string
}

const (
	StrategyGeofence = "geofence"
	StrategySubnet   = "subnet"
)

func Load() (*Config, error) {
	// Load .env if present; real env vars still win.
	godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "cafetab")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "cafetab")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("DB_QUERY_TIMEOUT", "3s")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RATE_LIMIT_MAX", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("RABBITMQ_EXCHANGE", "cafetab.orders")
	viper.SetDefault("ADMISSION_STRATEGY", StrategyGeofence)
	viper.SetDefault("STAFF_TOKEN", "")
	viper.SetDefault("ADMISSION_SUBNET_CIDR", "192.168.0.0/16")
	viper.SetDefault("CAFE_LATITUDE", 0.0)
	viper.SetDefault("CAFE_LONGITUDE", 0.0)
	viper.SetDefault("CAFE_GEOFENCE_RADIUS_M", 100.0)
	viper.SetDefault("ANALYTICS_TZ_OFFSET_MIN", 0)
	viper.SetDefault("LOG_LEVEL", "info")

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, fmt.Errorf("parsing DB_CONN_MAX_LIFETIME: %w", err)
	}

	queryTimeout, err := time.ParseDuration(viper.GetString("DB_QUERY_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parsing DB_QUERY_TIMEOUT: %w", err)
	}

	rateLimitWindow, err := time.ParseDuration(viper.GetString("RATE_LIMIT_WINDOW"))
	if err != nil {
		return nil, fmt.Errorf("parsing RATE_LIMIT_WINDOW: %w", err)
	}

	strategy := viper.GetString("ADMISSION_STRATEGY")
	if strategy != StrategyGeofence && strategy != StrategySubnet {
		return nil, fmt.Errorf("unknown ADMISSION_STRATEGY %q", strategy)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
			QueryTimeout:    queryTimeout,
		},
		Redis: RedisConfig{
			URL:             viper.GetString("REDIS_URL"),
			RateLimitMax:    viper.GetInt("RATE_LIMIT_MAX"),
			RateLimitWindow: rateLimitWindow,
		},
		RabbitMQ: RabbitMQConfig{
			URL:      viper.GetString("RABBITMQ_URL"),
			Exchange: viper.GetString("RABBITMQ_EXCHANGE"),
		},
		Admission: AdmissionConfig{
			Strategy:   strategy,
			StaffToken: viper.GetString("STAFF_TOKEN"),
			SubnetCIDR: viper.GetString("ADMISSION_SUBNET_CIDR"),
		},
		Cafe: CafeConfig{
			Latitude:        viper.GetFloat64("CAFE_LATITUDE"),
			Longitude:       viper.GetFloat64("CAFE_LONGITUDE"),
			GeofenceRadiusM: viper.GetFloat64("CAFE_GEOFENCE_RADIUS_M"),
		},
		Analytics: AnalyticsConfig{
			TZOffsetMinutes: viper.GetInt("ANALYTICS_TZ_OFFSET_MIN"),
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	return cfg, nil
}
