package config

import "time"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Sitemap   SitemapConfig   `mapstructure:"sitemap"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Logger    LoggerConfig    `mapstructure:"logger"`
}

type ServerConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ReadTimeoutMs  int    `mapstructure:"read_timeout_ms"`
	WriteTimeoutMs int    `mapstructure:"write_timeout_ms"`
}

type FetchConfig struct {
	RobotsTimeoutMs  int    `mapstructure:"robots_timeout_ms"`
	VerifyTimeoutMs  int    `mapstructure:"verify_timeout_ms"`
	SitemapTimeoutMs int    `mapstructure:"sitemap_timeout_ms"`
	MaxBodyBytes     int    `mapstructure:"max_body_bytes"`
	UserAgent        string `mapstructure:"user_agent"`
}

type SitemapConfig struct {
	Parser   string `mapstructure:"parser"`
	MaxDepth int    `mapstructure:"max_depth"`
}

type GeneratorConfig struct {
	Endpoint          string  `mapstructure:"endpoint"`
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"`
	Temperature       float64 `mapstructure:"temperature"`
	MaxTokens         int     `mapstructure:"max_tokens"`
	TimeoutMs         int     `mapstructure:"timeout_ms"`
	MaxPromptURLs     int     `mapstructure:"max_prompt_urls"`
	FallbackPageLimit int     `mapstructure:"fallback_page_limit"`
}

// Enabled reports whether model generation is configured.
func (g GeneratorConfig) Enabled() bool {
	return g.APIKey != ""
}

type AnalysisConfig struct {
	ScorerEndpoint  string `mapstructure:"scorer_endpoint"`
	InsightEndpoint string `mapstructure:"insight_endpoint"`
	TimeoutMs       int    `mapstructure:"timeout_ms"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}

// Millis converts a millisecond setting to a duration.
func Millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
