package config

import "time"

// SandboxConfig holds execution sandbox settings.
type SandboxConfig struct {
	Image         string        `mapstructure:"image" yaml:"image"`
	Memory        string        `mapstructure:"memory" yaml:"memory"`
	Timeout       time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxConcurrent int           `mapstructure:"max_concurrent" yaml:"max_concurrent"`
	Language      string        `mapstructure:"language" yaml:"language"`
}

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`

	// RedisAddr enables the distributed relay backplane; empty means
	// single-instance operation.
	RedisAddr string `mapstructure:"redis_addr" yaml:"redis_addr"`

	Sandbox SandboxConfig `mapstructure:"sandbox" yaml:"sandbox"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":4000",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		MaxMessageBytes:   1 << 20,
		Sandbox: SandboxConfig{
			Image:         "node:18-alpine",
			Memory:        "128m",
			Timeout:       5 * time.Second,
			MaxConcurrent: 4,
			Language:      "javascript",
		},
	}
}
