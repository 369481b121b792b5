package config

import "time"

// Config holds the task service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn warning error"`
}

// DatabaseConfig selects and tunes the task store.
type DatabaseConfig struct {
	// Driver is "postgres" or "memory". The memory store loses data on restart.
	Driver          string        `mapstructure:"driver"            validate:"required,oneof=postgres memory"`
	URL             string        `mapstructure:"url"               validate:"required_if=Driver postgres,omitempty,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// ConsoleConfig holds the task console configuration.
type ConsoleConfig struct {
	Client  ClientConfig  `mapstructure:"client"  validate:"required"`
	Session SessionConfig `mapstructure:"session"`
	Log     LogConfig     `mapstructure:"log"     validate:"required"`
}

// ClientConfig configures the API client used by the console.
type ClientConfig struct {
	BaseURL     string        `mapstructure:"base_url"     validate:"required,url"`
	MaxAttempts int           `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"  validate:"gte=0"`
	Timeout     time.Duration `mapstructure:"timeout"      validate:"gt=0"`
}

// SessionConfig locates the client-local session file. An empty File means
// the default location under the user's config directory.
type SessionConfig struct {
	File string `mapstructure:"file"`
}

// LogConfig configures console logging. The console only logs when File is set
// because the terminal is occupied by the UI.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn warning error"`
	File  string `mapstructure:"file"`
}
