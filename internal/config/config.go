package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. SHUTTERBOARD_SERVER_PORT.
const EnvPrefix = "SHUTTERBOARD"

// PathEnv names the optional YAML config file.
const PathEnv = EnvPrefix + "_CONFIG_PATH"

const (
	defaultSheetURL   = "https://docs.google.com/spreadsheets/d/1fJpCLm07ox6gl7eaztyxCco2LETqcoWMGXzqYlHGxws/export?format=csv"
	defaultWebhookURL = "https://genaiwithher.app.n8n.cloud/webhook-test/sheetacess"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Sheet     SheetConfig     `yaml:"sheet"`
	Chat      ChatConfig      `yaml:"chat"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Auth      AuthConfig      `yaml:"auth"`
	Transport TransportConfig `yaml:"transport"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
	// ShutdownTimeout bounds graceful shutdown of the HTTP server.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" split_words:"true" validate:"min=0"`
}

type SheetConfig struct {
	URL string `yaml:"url" validate:"required,url"`
	// Timeout of zero waits indefinitely.
	Timeout time.Duration `yaml:"timeout" validate:"min=0"`
	// RefreshOnStart loads the sheet before serving.
	RefreshOnStart bool `yaml:"refresh_on_start" split_words:"true"`
}

type ChatConfig struct {
	WebhookURL string        `yaml:"webhook_url" split_words:"true" validate:"required,url"`
	Timeout    time.Duration `yaml:"timeout" validate:"min=0"`
	// RateLimit is messages per second accepted by POST /api/chat; zero disables the limit.
	RateLimit float64 `yaml:"rate_limit" split_words:"true" validate:"min=0"`
	RateBurst int     `yaml:"rate_burst" split_words:"true" validate:"min=0"`
}

type DBConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
	// Path, when set, sends logs to a size-capped file instead of the console.
	Path string `yaml:"path"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" validate:"oneof=http stdio"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 5 * time.Second,
		},
		Sheet: SheetConfig{
			URL:            defaultSheetURL,
			RefreshOnStart: true,
		},
		Chat: ChatConfig{
			WebhookURL: defaultWebhookURL,
			RateLimit:  1,
			RateBurst:  5,
		},
		DB: DBConfig{
			Path: "shutterboard.db",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Transport: TransportConfig{
			Mode: "http",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(PathEnv); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
