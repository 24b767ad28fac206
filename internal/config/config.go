package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config содержит конфигурацию сервисов, читается из переменных окружения.
type Config struct {
	// Сервис
	APIPort     string `env:"API_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// PostgreSQL
	DBHost string `env:"DB_HOST" envDefault:"localhost"`
	DBPort string `env:"DB_PORT" envDefault:"5432"`
	DBUser string `env:"DB_USER" envDefault:"postgres"`
	DBPass string `env:"DB_PASS" envDefault:""`
	DBName string `env:"DB_NAME" envDefault:"gents"`

	// Telegram
	BotToken      string `env:"TELEGRAM_BOT_TOKEN"`
	AdminBotToken string `env:"ADMIN_BOT_TOKEN"`

	// Cloudinary (хранилище медиа)
	CloudinaryURL string `env:"CLOUDINARY_URL"`

	// Nominatim
	NominatimUserAgent string `env:"NOMINATIM_USER_AGENT" envDefault:"gents-travel-bot"`

	// Логи
	LoggerLevel  string `env:"LOGGER_LEVEL" envDefault:"INFO"`
	LoggerFormat string `env:"LOGGER_FORMAT" envDefault:"text"` // json, text
}

// DSN собирает строку подключения к PostgreSQL.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPass, c.DBName,
	)
}

// IsDevelopment сообщает, запущен ли сервис в окружении разработки.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load читает .env (если есть) и разбирает переменные окружения.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("не удалось разобрать конфигурацию: %w", err)
	}
	return cfg, nil
}
