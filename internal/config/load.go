package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. TASKS_SERVER_PORT.
const EnvPrefix = "TASKS"

// Load reads the task service configuration.
// Environment variables take precedence over values from config files.
func Load() (*Config, error) {
	v := newViper()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	var cfg Config
	if err := unmarshalAndValidate(v, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConsole reads the task console configuration.
func LoadConsole() (*ConsoleConfig, error) {
	v := newViper()

	v.SetDefault("client.base_url", "http://localhost:8080")
	v.SetDefault("client.max_attempts", 2)
	v.SetDefault("client.retry_delay", 500*time.Millisecond)
	v.SetDefault("client.timeout", 10*time.Second)
	v.SetDefault("session.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")

	var cfg ConsoleConfig
	if err := unmarshalAndValidate(v, &cfg); err != nil {
		return nil, err
	}

	if cfg.Session.File == "" {
		file, err := DefaultSessionFile()
		if err != nil {
			return nil, err
		}
		cfg.Session.File = file
	}
	return &cfg, nil
}

// DefaultSessionFile returns <user config dir>/tasks/session.toml.
func DefaultSessionFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, "tasks", "session.toml"), nil
}

func newViper() *viper.Viper {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshalAndValidate(v *viper.Viper, out any) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(out); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
