// Package config loads client settings from an optional YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath переменная окружения с путем к файлу настроек
const EnvConfigPath = "CARTKEEPER_CONFIG"

const (
	DefaultServer         = "http://localhost:8080"
	DefaultDB             = "cartkeeper-client.db"
	DefaultLogLevel       = "warn"
	DefaultRequestTimeout = 10 * time.Second
)

// Config настройки клиента
type Config struct {
	Server         string        `yaml:"server"`          // адрес сервера корзин
	DB             string        `yaml:"db"`              // путь к локальной BoltDB
	LogLevel       string        `yaml:"log_level"`       // debug, info, warn, error
	RequestTimeout time.Duration `yaml:"request_timeout"` // чтение корзины, флага, товара, вход; 0 без ограничения
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server:         DefaultServer,
		DB:             DefaultDB,
		LogLevel:       DefaultLogLevel,
		RequestTimeout: DefaultRequestTimeout,
	}
}

// Load читает файл настроек. Пустой path означает путь из CARTKEEPER_CONFIG;
// если и он не задан, возвращаются настройки по умолчанию.
// Значения, отсутствующие в файле, остаются по умолчанию.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate проверяет настройки
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server)
	if err != nil {
		return fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server url must be http or https, got %q", c.Server)
	}
	if u.Host == "" {
		return fmt.Errorf("server url has no host: %q", c.Server)
	}
	if strings.TrimSpace(c.DB) == "" {
		return fmt.Errorf("db path cannot be empty")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout cannot be negative")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
