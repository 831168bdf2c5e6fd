package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, etc.)
// - default: Values common across all environments (timezone, weights, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Storage    StorageConfig
	CORS       CORSConfig
	Log        LogConfig
	Scheduling SchedulingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

// DBConfig is only consulted when STORAGE_DRIVER=postgres.
type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME" default:"bay_scheduler"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type StorageConfig struct {
	Driver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
	// RegistryFile points to a YAML resource registry; empty means the built-in two-bay shop.
	RegistryFile string `envconfig:"REGISTRY_FILE"`
	// ShopTimeZone is the IANA zone operating hours are expressed in.
	ShopTimeZone string `envconfig:"SHOP_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"false"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type SchedulingConfig struct {
	GranularityHours float64 `envconfig:"SCHED_GRANULARITY_HOURS" default:"0.5"`
	HorizonDays      int     `envconfig:"SCHED_HORIZON_DAYS" default:"3"`
	MinScore         float64 `envconfig:"SCHED_MIN_SCORE" default:"0.3"`
	TopK             int     `envconfig:"SCHED_TOP_K" default:"8"`

	WeightTimeOfDay   float64 `envconfig:"SCHED_WEIGHT_TIME_OF_DAY" default:"0.25"`
	WeightLoadBalance float64 `envconfig:"SCHED_WEIGHT_LOAD_BALANCE" default:"0.20"`
	WeightGap         float64 `envconfig:"SCHED_WEIGHT_GAP" default:"0.20"`
	WeightEfficiency  float64 `envconfig:"SCHED_WEIGHT_EFFICIENCY" default:"0.20"`
	WeightPreference  float64 `envconfig:"SCHED_WEIGHT_PREFERENCE" default:"0.15"`

	HighPriorityBonus      float64 `envconfig:"SCHED_HIGH_PRIORITY_BONUS" default:"0.15"`
	PreferredResourceBonus float64 `envconfig:"SCHED_PREFERRED_RESOURCE_BONUS" default:"0.1"`
	LunchPenaltyEnabled    bool    `envconfig:"SCHED_LUNCH_PENALTY_ENABLED" default:"false"`
	LunchPenalty           float64 `envconfig:"SCHED_LUNCH_PENALTY" default:"0.1"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	switch cfg.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 4,
		},
		Storage: StorageConfig{
			Driver:       StorageDriverMemory,
			ShopTimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeZone:   "UTC",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		Scheduling: SchedulingConfig{
			GranularityHours:       0.5,
			HorizonDays:            3,
			MinScore:               0.3,
			TopK:                   8,
			WeightTimeOfDay:        0.25,
			WeightLoadBalance:      0.20,
			WeightGap:              0.20,
			WeightEfficiency:       0.20,
			WeightPreference:       0.15,
			HighPriorityBonus:      0.15,
			PreferredResourceBonus: 0.1,
			LunchPenalty:           0.1,
		},
	}
}
