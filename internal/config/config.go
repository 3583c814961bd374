package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Places    PlacesConfig    `yaml:"places" mapstructure:"places"`
	Browser   BrowserConfig   `yaml:"browser" mapstructure:"browser"`
	Scrape    ScrapeConfig    `yaml:"scrape" mapstructure:"scrape"`
	Discovery DiscoveryConfig `yaml:"discovery" mapstructure:"discovery"`
	Enrich    EnrichConfig    `yaml:"enrich" mapstructure:"enrich"`
	Reviews   ReviewsConfig   `yaml:"reviews" mapstructure:"reviews"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Pricing   PricingConfig   `yaml:"pricing" mapstructure:"pricing"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// PlacesConfig holds places provider settings.
type PlacesConfig struct {
	Key            string  `yaml:"key" mapstructure:"key"`
	BaseURL        string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	Burst          int     `yaml:"burst" mapstructure:"burst"`
}

// BrowserConfig configures the browser-automation scraper.
type BrowserConfig struct {
	Disabled          bool   `yaml:"disabled" mapstructure:"disabled"`
	ExecPath          string `yaml:"exec_path" mapstructure:"exec_path"`
	RenderTimeoutSecs int    `yaml:"render_timeout_secs" mapstructure:"render_timeout_secs"`
	SettleDelayMs     int    `yaml:"settle_delay_ms" mapstructure:"settle_delay_ms"`
}

// ScrapeConfig configures the HTML fallback extractor.
type ScrapeConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// DiscoveryConfig tunes competitor discovery.
type DiscoveryConfig struct {
	TargetPoolSize int      `yaml:"target_pool_size" mapstructure:"target_pool_size"`
	TopN           int      `yaml:"top_n" mapstructure:"top_n"`
	ChainKeywords  []string `yaml:"chain_keywords" mapstructure:"chain_keywords"`
}

// EnrichConfig tunes competitor enrichment.
type EnrichConfig struct {
	BatchSize int `yaml:"batch_size" mapstructure:"batch_size"`
}

// ReviewsConfig tunes review aggregation.
type ReviewsConfig struct {
	MaxPages    int `yaml:"max_pages" mapstructure:"max_pages"`
	PageDelayMs int `yaml:"page_delay_ms" mapstructure:"page_delay_ms"`
}

// AnthropicConfig holds Anthropic API settings for the analysis step.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// PricingConfig holds flat per-call provider cost estimates in USD.
type PricingConfig struct {
	PlacesTextSearch float64 `yaml:"places_text_search" mapstructure:"places_text_search"`
	PlacesNearby     float64 `yaml:"places_nearby" mapstructure:"places_nearby"`
	PlacesDetails    float64 `yaml:"places_details" mapstructure:"places_details"`
	PlacesGeocode    float64 `yaml:"places_geocode" mapstructure:"places_geocode"`
	PlacesReviewPage float64 `yaml:"places_review_page" mapstructure:"places_review_page"`
	BrowserRender    float64 `yaml:"browser_render" mapstructure:"browser_render"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PROFILER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Keys without a meaningful default still get an empty one so
	// AutomaticEnv picks them up during Unmarshal.
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "profiler.db")
	v.SetDefault("store.database_url", "")
	v.SetDefault("places.key", "")
	v.SetDefault("anthropic.key", "")
	v.SetDefault("browser.disabled", false)
	v.SetDefault("browser.exec_path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("places.base_url", "https://maps.googleapis.com/maps/api")
	v.SetDefault("places.requests_per_sec", 10)
	v.SetDefault("places.burst", 10)
	v.SetDefault("browser.render_timeout_secs", 45)
	v.SetDefault("browser.settle_delay_ms", 2000)
	v.SetDefault("scrape.timeout_secs", 15)
	v.SetDefault("discovery.target_pool_size", 20)
	v.SetDefault("discovery.top_n", 8)
	v.SetDefault("enrich.batch_size", 3)
	v.SetDefault("reviews.max_pages", 3)
	v.SetDefault("reviews.page_delay_ms", 2000)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("pricing.places_text_search", 0.032)
	v.SetDefault("pricing.places_nearby", 0.032)
	v.SetDefault("pricing.places_details", 0.017)
	v.SetDefault("pricing.places_geocode", 0.005)
	v.SetDefault("pricing.places_review_page", 0.017)
	v.SetDefault("pricing.browser_render", 0.001)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)
	return nil
}
