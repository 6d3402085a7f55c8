// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"math"
	"os"
	"sort"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек приложения.
// CategoryBudgets задаёт допустимые категории трат и месячный бюджет
// по каждой из них в валюте. Конфигурация с категорией без положительного
// бюджета считается некорректной и отклоняется при старте.
type Config struct {
	Env                      string             `yaml:"env"`
	StorageConnectionString  string             `yaml:"storage_connection_string"`
	RabbitMQConnectionString string             `yaml:"rabbitmq_connection_string"`
	RabbitMQMaxRetries       int                `yaml:"rabbitmq_max_retries" env-default:"5"`
	RabbitMQRetryDelay       time.Duration      `yaml:"rabbitmq_retry_delay" env-default:"3s"`
	CategoryBudgets          map[string]float64 `yaml:"category_budgets"`
	PageSize                 int                `yaml:"page_size" env-default:"20"`
	RedisConnection          `yaml:"redis_connection"`
	HTTPServer               `yaml:"http_server"`
	Session                  `yaml:"session"`
	SMTP                     `yaml:"smtp"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// Session структура для настройки cookie-сессий.
type Session struct {
	CookieName   string        `yaml:"cookie_name" env-default:"session_id"`
	TTL          time.Duration `yaml:"ttl" env-default:"720h"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

// SMTP структура для настройки отправки почтовых уведомлений.
type SMTP struct {
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort string `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_pass"`
}

// MustLoad загружает конфиг из файла, указанного в CONFIG_PATH,
// и валидирует бюджеты категорий. Завершает процесс при любой ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if err := cfg.ValidateBudgets(); err != nil {
		log.Fatalf("invalid config: %s", err)
	}
	return &cfg
}

// ValidateBudgets проверяет, что задана хотя бы одна категория и что
// у каждой категории есть строго положительный бюджет.
func (c *Config) ValidateBudgets() error {
	if len(c.CategoryBudgets) == 0 {
		return errNoCategories
	}
	for category, budget := range c.CategoryBudgets {
		if budget <= 0 {
			return &budgetError{category: category, budget: budget}
		}
	}
	return nil
}

// Categories возвращает отсортированный список настроенных категорий.
// Порядок стабилен между вызовами и используется для отображения.
func (c *Config) Categories() []string {
	categories := make([]string, 0, len(c.CategoryBudgets))
	for category := range c.CategoryBudgets {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// BudgetCents возвращает бюджет категории в центах и признак того,
// что категория настроена.
func (c *Config) BudgetCents(category string) (int64, bool) {
	budget, ok := c.CategoryBudgets[category]
	if !ok {
		return 0, false
	}
	return int64(math.Round(budget * 100)), true
}
