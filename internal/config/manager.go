package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type manager struct {
	mu     sync.RWMutex
	config *Config
	viper  *viper.Viper
}

func NewManager() Manager {
	return &manager{
		viper: viper.New(),
	}
}

// Load reads configPath if it exists, then applies LLMSTXT_* environment
// overrides on top of the defaults. An empty or missing path is not an error.
func (m *manager) Load(configPath string) (*Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setupViper(configPath)

	config, err := m.read()
	if err != nil {
		return nil, err
	}

	m.config = config
	return config, nil
}

func (m *manager) Reload() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.config == nil {
		return fmt.Errorf("config not loaded")
	}

	config, err := m.read()
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
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
	if m.viper.ConfigFileUsed() != "" {
		if err := m.viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var config Config
	if err := m.viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := m.validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

func (m *manager) setupViper(configPath string) {
	setDefaults(m.viper)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			m.viper.SetConfigFile(configPath)
		}
	}

	m.viper.SetEnvPrefix("LLMSTXT")
	m.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	m.viper.AutomaticEnv()

	_ = m.viper.BindEnv("generator.api_key", "LLMSTXT_GENERATOR_API_KEY", "GROQ_API_KEY")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout_ms", 30000)
	v.SetDefault("server.write_timeout_ms", 120000)

	v.SetDefault("fetch.robots_timeout_ms", 5000)
	v.SetDefault("fetch.verify_timeout_ms", 5000)
	v.SetDefault("fetch.sitemap_timeout_ms", 10000)
	v.SetDefault("fetch.max_body_bytes", 50<<20)
	v.SetDefault("fetch.user_agent", "Mozilla/5.0 (compatible; llmstxt-go/1.0; +https://llmstxt.org)")

	v.SetDefault("sitemap.parser", "lenient")
	v.SetDefault("sitemap.max_depth", 5)

	v.SetDefault("generator.endpoint", "https://api.groq.com/openai/v1/chat/completions")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.model", "moonshotai/kimi-k2-instruct")
	v.SetDefault("generator.temperature", 0.7)
	v.SetDefault("generator.max_tokens", 2000)
	v.SetDefault("generator.timeout_ms", 60000)
	v.SetDefault("generator.max_prompt_urls", 50)
	v.SetDefault("generator.fallback_page_limit", 30)

	v.SetDefault("analysis.scorer_endpoint", "")
	v.SetDefault("analysis.insight_endpoint", "")
	v.SetDefault("analysis.timeout_ms", 60000)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.time_format", "rfc3339")
}

func (m *manager) validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Fetch.RobotsTimeoutMs <= 0 || config.Fetch.VerifyTimeoutMs <= 0 || config.Fetch.SitemapTimeoutMs <= 0 {
		return fmt.Errorf("fetch timeouts must be positive")
	}

	if config.Sitemap.MaxDepth < 0 {
		return fmt.Errorf("max_depth cannot be negative")
	}

	switch config.Sitemap.Parser {
	case "lenient", "structural", "xml":
	default:
		return fmt.Errorf("unknown sitemap parser: %q", config.Sitemap.Parser)
	}

	if config.Generator.MaxPromptURLs <= 0 || config.Generator.FallbackPageLimit <= 0 {
		return fmt.Errorf("generator url limits must be positive")
	}

	if config.Generator.Temperature < 0 || config.Generator.Temperature > 2 {
		return fmt.Errorf("invalid generator temperature: %v", config.Generator.Temperature)
	}

	return nil
}
