package config

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	TelegramToken string        `envconfig:"TELEGRAM_TOKEN"`
	PollTimeout   time.Duration `envconfig:"POLL_TIMEOUT" default:"10s"`

	DBPath string `envconfig:"DB_PATH" default:"shift.db"`
	// Время смен хранится текстом в этой зоне; зона без перехода на
	// летнее время сохраняет порядок строк совпадающим с порядком времени.
	Timezone string `envconfig:"TIMEZONE" default:"Asia/Tokyo"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// Пустой адрес отключает /healthz и /metrics.
	HTTPAddr string `envconfig:"HTTP_ADDR"`

	DefaultClosingDay int   `envconfig:"DEFAULT_CLOSING_DAY" default:"31"`
	DefaultGoalAmount int64 `envconfig:"DEFAULT_GOAL_AMOUNT" default:"80000"`
	AnnualLimit       int64 `envconfig:"ANNUAL_LIMIT" default:"1030000"`

	LedgerWorkers int `envconfig:"LEDGER_WORKERS" default:"1"`
	LedgerQueue   int `envconfig:"LEDGER_QUEUE" default:"32"`
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.TelegramToken == "" {
		return nil, ErrNoToken{}
	}
	if cfg.DefaultClosingDay < 1 || cfg.DefaultClosingDay > 31 {
		return nil, fmt.Errorf("DEFAULT_CLOSING_DAY must be within 1..31, got %d", cfg.DefaultClosingDay)
	}
	if cfg.LedgerWorkers < 1 {
		cfg.LedgerWorkers = 1
	}
	return &cfg, nil
}

// Location разбирает TIMEZONE; "Local" и пустое значение дают time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DSN для go-sqlite3: внешние ключи включаются на каждом соединении.
func (c *Config) DSN() string {
	return "file:" + c.DBPath + "?_foreign_keys=on&_busy_timeout=5000"
}

type ErrNoToken struct{}

func (e ErrNoToken) Error() string {
	return "TELEGRAM_TOKEN не задан в окружении"
}
