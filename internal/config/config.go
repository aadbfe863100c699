package config

import (
	"github.com/spf13/pflag"

	"trends-explorer/pkg/analysis"
	"trends-explorer/pkg/logger"
	"trends-explorer/pkg/trends"
)

type Config struct {
	Server   ServerConfig     `mapstructure:"server"`
	Trends   trends.Config    `mapstructure:"trends"`
	Analysis analysis.Options `mapstructure:"analysis"`
	Export   ExportConfig     `mapstructure:"export"`
	Logger   logger.Config    `mapstructure:"logger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// ShutdownTimeoutSeconds bounds graceful shutdown of the dashboard.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type Manager interface {
	// BindFlag lets a command-line flag override key; call before Load.
	BindFlag(key string, flag *pflag.Flag) error
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
