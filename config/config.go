package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config — настройки бота и HTTP-сервера.
// Значения читаются из config.toml, затем переопределяются переменными окружения (и .env).
type Config struct {
	Bot     BotConfig     `toml:"bot"`
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Owner   OwnerConfig   `toml:"owner"`
	Proxy   ProxyConfig   `toml:"proxy"`
}

type BotConfig struct {
	Token         string  `toml:"token" validate:"required"`
	AppID         int     `toml:"app_id" validate:"required,gt=0"`
	AppHash       string  `toml:"app_hash" validate:"required"`
	RatePerSecond float64 `toml:"rate_per_second" validate:"gte=0"`
}

type ServerConfig struct {
	Port       string `toml:"port" validate:"required,numeric"`
	AppURL     string `toml:"app_url" validate:"required,url"`
	StatsToken string `toml:"stats_token"`
}

type StorageConfig struct {
	DatabaseURL string `toml:"database_url" validate:"required"`
	RedisURL    string `toml:"redis_url"`
	// Database — имя базы MongoDB; для Postgres не используется.
	Database string `toml:"database"`
}

type OwnerConfig struct {
	ID       int64  `toml:"id" validate:"required,gt=0"`
	Username string `toml:"username"`
}

type ProxyConfig struct {
	Addr     string `toml:"addr" validate:"omitempty,hostname_port"`
	Login    string `toml:"login"`
	Password string `toml:"password"`
}

// Типы хранилища, определяемые по схеме DATABASE_URL.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongodb"
)

const (
	defaultPort     = "8080"
	defaultDatabase = "movie_bot"
)

// Load читает .env (если есть), файл path (если есть) и переменные окружения.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[CONFIG] .env не прочитан: %v", err)
	}
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Config{
		Server:  ServerConfig{Port: defaultPort},
		Storage: StorageConfig{Database: defaultDatabase},
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
			log.Printf("[CONFIG] загружен файл %s", path)
		}
	}
	if err := applyEnv(&cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"BOT_TOKEN":      &cfg.Bot.Token,
		"APP_HASH":       &cfg.Bot.AppHash,
		"APP_URL":        &cfg.Server.AppURL,
		"PORT":           &cfg.Server.Port,
		"STATS_TOKEN":    &cfg.Server.StatsToken,
		"DATABASE_URL":   &cfg.Storage.DatabaseURL,
		"DATABASE_NAME":  &cfg.Storage.Database,
		"REDIS_URL":      &cfg.Storage.RedisURL,
		"ADMIN_USERNAME": &cfg.Owner.Username,
		"PROXY_ADDR":     &cfg.Proxy.Addr,
		"PROXY_LOGIN":    &cfg.Proxy.Login,
		"PROXY_PASSWORD": &cfg.Proxy.Password,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok && v != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	if v, ok := lookup("APP_ID"); ok && v != "" {
		id, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("APP_ID: %w", err)
		}
		cfg.Bot.AppID = id
	}
	if v, ok := lookup("ADMIN_ID"); ok && v != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("ADMIN_ID: %w", err)
		}
		cfg.Owner.ID = id
	}
	if v, ok := lookup("BOT_RATE"); ok && v != "" {
		rate, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("BOT_RATE: %w", err)
		}
		cfg.Bot.RatePerSecond = rate
	}
	return nil
}

// Validate проверяет обязательные поля и схему DATABASE_URL.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := c.Storage.Driver(); err != nil {
		return err
	}
	return nil
}

// Driver возвращает тип хранилища по схеме DATABASE_URL.
func (s StorageConfig) Driver() (string, error) {
	u, err := url.Parse(s.DatabaseURL)
	if err != nil {
		return "", fmt.Errorf("DATABASE_URL: %w", err)
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	default:
		return "", fmt.Errorf("DATABASE_URL: неподдерживаемая схема %q", u.Scheme)
	}
}

// OwnerHandle — имя владельца для контакта, без "@".
func (c *Config) OwnerHandle() string {
	return strings.TrimPrefix(c.Owner.Username, "@")
}
