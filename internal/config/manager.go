package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"trends-explorer/pkg/analysis"
	"trends-explorer/pkg/trends"
)

// EnvPrefix prefixes every environment override, e.g. TRENDS_SERVER_PORT.
const EnvPrefix = "TRENDS"

type manager struct {
	mu         sync.RWMutex
	config     *Config
	viper      *viper.Viper
	configPath string
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads defaults, the optional YAML file at configPath and TRENDS_*
// environment variables, in increasing priority. A .env file in the working
// directory is loaded into the environment first when present.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	m.configPath = configPath
	m.setupViper()

	config, err := m.read()
	if err != nil {
		return nil, err
	}
	m.config = config
	return config, nil
}

func (m *manager) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag to bind to %s", key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viper.BindPFlag(key, flag)
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	config, err := m.read()
	if err != nil {
		return err
	}
	m.config = config
	return nil
}

func (m *manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

func (m *manager) read() (*Config, error) {
	if m.configPath != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &config, nil
}

func (m *manager) setupViper() {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	}

	m.viper.SetEnvPrefix(EnvPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	setDefaults(m.viper)
}

// setDefaults registers every key so that environment overrides are seen
// by Unmarshal even without a config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	t := trends.DefaultConfig()
	v.SetDefault("trends.base_urls", t.BaseURLs)
	v.SetDefault("trends.hl", t.HL)
	v.SetDefault("trends.tz", t.TZ)
	v.SetDefault("trends.timeout", t.Timeout)
	v.SetDefault("trends.requests_per_second", t.RequestsPerSecond)
	v.SetDefault("trends.burst", t.Burst)
	v.SetDefault("trends.user_agent", t.UserAgent)
	v.SetDefault("trends.category", t.Category)
	v.SetDefault("trends.property", t.Property)
	v.SetDefault("trends.connection.max_conns_per_host", t.Connection.MaxConnsPerHost)
	v.SetDefault("trends.connection.max_idle_conn_duration", t.Connection.MaxIdleConnDuration)
	v.SetDefault("trends.connection.dial_timeout", t.Connection.DialTimeout)
	v.SetDefault("trends.connection.read_timeout", t.Connection.ReadTimeout)
	v.SetDefault("trends.connection.write_timeout", t.Connection.WriteTimeout)
	v.SetDefault("trends.connection.max_response_body_size", t.Connection.MaxResponseBodySize)

	v.SetDefault("analysis.concurrency", 1)
	v.SetDefault("analysis.top_regions", analysis.DefaultTopRegions)

	v.SetDefault("export.dir", "")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.time_format", "rfc3339")
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Analysis.Concurrency <= 0 {
		return fmt.Errorf("analysis.concurrency must be positive")
	}

	if config.Analysis.TopRegions <= 0 {
		return fmt.Errorf("analysis.top_regions must be positive")
	}

	if config.Trends.RequestsPerSecond < 0 {
		return fmt.Errorf("trends.requests_per_second cannot be negative")
	}

	if strings.TrimSpace(config.Trends.HL) == "" {
		return fmt.Errorf("trends.hl cannot be empty")
	}

	if config.Trends.Timeout <= 0 {
		return fmt.Errorf("trends.timeout must be positive")
	}

	return nil
}
