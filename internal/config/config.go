package config

import (
	"fmt"
	"net/url"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/sparkwash/CW-BookingService/internal/domain"
	"github.com/sparkwash/CW-BookingService/pkg/types"
)

// Config конфигурация сервиса.
// Базовые значения из config.toml; секреты перекрываются переменными
// окружения (CW_DB_PASSWORD, CW_BROKER_URL, CW_ESEWA_SECRET_KEY).
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Broker    BrokerConfig    `toml:"broker"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	Esewa     EsewaConfig     `toml:"esewa"`
	Migration MigrationConfig `toml:"migration"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL возвращает строку подключения в форме URL (для мигратора)
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User), url.QueryEscape(c.Password), c.Host, c.Port, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BrokerConfig настройки брокера live-каналов
type BrokerConfig struct {
	URL      string `toml:"url"`
	Exchange string `toml:"exchange"`
}

// ScheduleConfig рабочая сетка мойки
type ScheduleConfig struct {
	Open                    string `toml:"open"`  // "09:00"
	Close                   string `toml:"close"` // "18:00"
	SlotDurationMinutes     int    `toml:"slot_duration_minutes"`
	Capacity                int    `toml:"capacity"`
	MinBookingNoticeMinutes int    `toml:"min_booking_notice_minutes"`
}

// ToDomain конвертирует сетку в domain модель, валидируя границы
func (c *ScheduleConfig) ToDomain() (domain.ScheduleConfig, error) {
	open, err := types.ParseTimeSlot(c.Open)
	if err != nil {
		return domain.ScheduleConfig{}, fmt.Errorf("config: invalid schedule.open %q: %w", c.Open, err)
	}

	closeAt, err := types.ParseTimeSlot(c.Close)
	if err != nil {
		return domain.ScheduleConfig{}, fmt.Errorf("config: invalid schedule.close %q: %w", c.Close, err)
	}

	if !open.IsBefore(closeAt) {
		return domain.ScheduleConfig{}, fmt.Errorf("config: schedule.open %q must be before schedule.close %q", c.Open, c.Close)
	}

	duration := c.SlotDurationMinutes
	if duration == 0 {
		duration = domain.DefaultSlotDurationMinutes
	}
	if duration < domain.MinSlotDurationMinutes || duration > domain.MaxSlotDurationMinutes {
		return domain.ScheduleConfig{}, fmt.Errorf("config: schedule.slot_duration_minutes %d is out of range", duration)
	}

	capacity := c.Capacity
	if capacity == 0 {
		capacity = domain.SlotCapacity
	}

	notice := c.MinBookingNoticeMinutes
	if notice == 0 {
		notice = domain.DefaultMinBookingNoticeMinutes
	}

	return domain.ScheduleConfig{
		Open:                    open,
		Close:                   closeAt,
		SlotDurationMinutes:     duration,
		Capacity:                capacity,
		MinBookingNoticeMinutes: notice,
	}, nil
}

// EsewaConfig настройки платежного шлюза
type EsewaConfig struct {
	GatewayURL       string `toml:"gateway_url"`
	ProductCode      string `toml:"product_code"`
	SecretKey        string `toml:"secret_key"`
	SuccessURL       string `toml:"success_url"`
	FailureURL       string `toml:"failure_url"`
	RequireSignature bool   `toml:"require_signature"`
}

// MigrationConfig настройки миграций схемы
type MigrationConfig struct {
	Path string `toml:"path"`
}

// secretOverrides секреты из переменных окружения, перекрывают config.toml
type secretOverrides struct {
	DBPassword     string `envconfig:"DB_PASSWORD"`
	BrokerURL      string `envconfig:"BROKER_URL"`
	EsewaSecretKey string `envconfig:"ESEWA_SECRET_KEY"`
}

// Load загружает конфигурацию из toml файла и окружения
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	var secrets secretOverrides
	if err := envconfig.Process("cw", &secrets); err != nil {
		return nil, fmt.Errorf("config: process env overrides: %w", err)
	}

	if secrets.DBPassword != "" {
		cfg.Database.Password = secrets.DBPassword
	}
	if secrets.BrokerURL != "" {
		cfg.Broker.URL = secrets.BrokerURL
	}
	if secrets.EsewaSecretKey != "" {
		cfg.Esewa.SecretKey = secrets.EsewaSecretKey
	}

	return &cfg, nil
}
