package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/region23/apero/pkg/logger"
)

// DefaultDocumentPath путь к документу с информацией по умолчанию
const DefaultDocumentPath = "./apero.json"

// Config содержит всю конфигурацию приложения
type Config struct {
	Document DocumentConfig `json:"document"`
	Log      LogConfig      `json:"log"`
	History  HistoryConfig  `json:"history"`
	Metrics  MetricsConfig  `json:"metrics"`
	Telegram TelegramConfig `json:"telegram"`
}

// DocumentConfig содержит настройки документа с информацией о местах
type DocumentConfig struct {
	Path string `json:"path"`
}

// LogConfig содержит настройки логирования
type LogConfig struct {
	Level string `json:"level"`
}

// HistoryConfig содержит настройки журнала запусков.
// Пустой путь отключает журнал.
type HistoryConfig struct {
	Path  string `json:"path"`
	Limit int    `json:"limit"`
}

// Enabled сообщает, включен ли журнал
func (h HistoryConfig) Enabled() bool {
	return h.Path != ""
}

// MetricsConfig содержит путь к textfile с метриками
type MetricsConfig struct {
	TextfilePath string `json:"textfile_path"`
}

// Enabled сообщает, включен ли экспорт метрик
func (m MetricsConfig) Enabled() bool {
	return m.TextfilePath != ""
}

// TelegramConfig содержит настройки пересылки отчета в Telegram
type TelegramConfig struct {
	Token     string        `json:"-"`
	ChatID    int64         `json:"chat_id"`
	ServerURL string        `json:"server_url"`
	Timeout   time.Duration `json:"timeout"`
}

// Enabled сообщает, настроена ли пересылка
func (t TelegramConfig) Enabled() bool {
	return t.Token != "" && t.ChatID != 0
}

// Option меняет конфигурацию после чтения окружения, до проверки
type Option func(*Config)

// WithDocument задает путь к документу; пустое значение ничего не меняет
func WithDocument(path string) Option {
	return func(c *Config) {
		if path != "" {
			c.Document.Path = path
		}
	}
}

// WithLogLevel задает уровень логирования; пустое значение ничего не меняет
func WithLogLevel(level string) Option {
	return func(c *Config) {
		if level != "" {
			c.Log.Level = level
		}
	}
}

// Load загружает конфигурацию из .env файла и переменных окружения
func Load(opts ...Option) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()
	return FromEnv(opts...)
}

// LoadFile загружает конфигурацию из указанного .env файла.
// Уже заданные переменные окружения не перезаписываются.
func LoadFile(filename string, opts ...Option) (*Config, error) {
	if err := godotenv.Load(filename); err != nil {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv(opts...)
}

// FromEnv собирает конфигурацию из переменных окружения, применяет opts
// и только затем проверяет результат
func FromEnv(opts ...Option) (*Config, error) {
	limit, err := getEnvAsInt("APERO_HISTORY_LIMIT", 10)
	if err != nil {
		return nil, err
	}
	timeout, err := getEnvAsDuration("TELEGRAM_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Document: DocumentConfig{
			Path: getEnv("APERO_DOCUMENT", DefaultDocumentPath),
		},
		Log: LogConfig{
			Level: getEnv("APERO_LOG_LEVEL", "warn"),
		},
		History: HistoryConfig{
			Path:  os.Getenv("APERO_HISTORY_DB"),
			Limit: limit,
		},
		Metrics: MetricsConfig{
			TextfilePath: os.Getenv("APERO_METRICS_FILE"),
		},
		Telegram: TelegramConfig{
			Token:     os.Getenv("TELEGRAM_TOKEN"),
			ServerURL: os.Getenv("TELEGRAM_API_URL"),
			Timeout:   timeout,
		},
	}

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.Telegram.ChatID = id
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Document.Path) == "" {
		return fmt.Errorf("APERO_DOCUMENT must not be empty")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid APERO_LOG_LEVEL: %w", err)
	}
	if c.History.Limit <= 0 {
		return fmt.Errorf("APERO_HISTORY_LIMIT must be positive")
	}

	// Токен без чата (и наоборот) почти наверняка ошибка настройки
	if (c.Telegram.Token == "") != (c.Telegram.ChatID == 0) {
		return fmt.Errorf("TELEGRAM_TOKEN and TELEGRAM_CHAT_ID must be set together")
	}
	if c.Telegram.Timeout <= 0 {
		return fmt.Errorf("TELEGRAM_TIMEOUT must be positive")
	}

	return nil
}

// LogLevel возвращает разобранный уровень логирования
func (c *Config) LogLevel() logger.LogLevel {
	level, _ := logger.ParseLevel(c.Log.Level)
	return level
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvAsInt получает переменную окружения как число.
// Некорректное значение это ошибка, а не значение по умолчанию.
func getEnvAsInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

// getEnvAsDuration получает переменную окружения как duration
func getEnvAsDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
