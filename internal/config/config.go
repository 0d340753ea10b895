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
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Geocoder  GeocoderConfig  `yaml:"geocoder" mapstructure:"geocoder"`
	Overpass  OverpassConfig  `yaml:"overpass" mapstructure:"overpass"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// ScoringConfig tunes the proximity scoring engine. The default weights and
// cutoffs are calibration constants; changing them changes what the scores
// mean.
type ScoringConfig struct {
	CategoryWeights   CategoryWeights `yaml:"category_weights" mapstructure:"category_weights"`
	DomainWeights     DomainWeights   `yaml:"domain_weights" mapstructure:"domain_weights"`
	SearchRadiusM     float64         `yaml:"search_radius_m" mapstructure:"search_radius_m"`
	PedestrianRadiusM float64         `yaml:"pedestrian_radius_m" mapstructure:"pedestrian_radius_m"`
	DecayCutoffM      float64         `yaml:"decay_cutoff_m" mapstructure:"decay_cutoff_m"`
	TopPerCategory    int             `yaml:"top_per_category" mapstructure:"top_per_category"`
	ClusterEpsM       float64         `yaml:"cluster_eps_m" mapstructure:"cluster_eps_m"`
	ClusterMinPoints  int             `yaml:"cluster_min_points" mapstructure:"cluster_min_points"`
	RulesFile         string          `yaml:"rules_file" mapstructure:"rules_file"`
}

// CategoryWeights is the walk-score weight table. Keys without a matching
// POI category simply score zero.
type CategoryWeights struct {
	Grocery       float64 `yaml:"grocery" mapstructure:"grocery"`
	Restaurant    float64 `yaml:"restaurant" mapstructure:"restaurant"`
	Shopping      float64 `yaml:"shopping" mapstructure:"shopping"`
	School        float64 `yaml:"school" mapstructure:"school"`
	Park          float64 `yaml:"park" mapstructure:"park"`
	Entertainment float64 `yaml:"entertainment" mapstructure:"entertainment"`
	Healthcare    float64 `yaml:"healthcare" mapstructure:"healthcare"`
	Transport     float64 `yaml:"transport" mapstructure:"transport"`
	Services      float64 `yaml:"services" mapstructure:"services"`
}

// Map returns the table keyed the way scores are reported.
func (w CategoryWeights) Map() map[string]float64 {
	return map[string]float64{
		"grocery":       w.Grocery,
		"restaurant":    w.Restaurant,
		"shopping":      w.Shopping,
		"school":        w.School,
		"park":          w.Park,
		"entertainment": w.Entertainment,
		"healthcare":    w.Healthcare,
		"transport":     w.Transport,
		"services":      w.Services,
	}
}

// DomainWeights combines the domain scores into the total property score.
type DomainWeights struct {
	Walkability   float64 `yaml:"walkability" mapstructure:"walkability"`
	Accessibility float64 `yaml:"accessibility" mapstructure:"accessibility"`
	Convenience   float64 `yaml:"convenience" mapstructure:"convenience"`
	Safety        float64 `yaml:"safety" mapstructure:"safety"`
	QualityOfLife float64 `yaml:"quality_of_life" mapstructure:"quality_of_life"`
}

// Map returns the table keyed by domain name.
func (w DomainWeights) Map() map[string]float64 {
	return map[string]float64{
		"walkability":     w.Walkability,
		"accessibility":   w.Accessibility,
		"convenience":     w.Convenience,
		"safety":          w.Safety,
		"quality_of_life": w.QualityOfLife,
	}
}

// GeocoderConfig holds Nominatim settings. The usage policy requires an
// identifying User-Agent and at most one request per second.
type GeocoderConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// OverpassConfig holds Overpass API settings.
type OverpassConfig struct {
	Endpoint         string `yaml:"endpoint" mapstructure:"endpoint"`
	UserAgent        string `yaml:"user_agent" mapstructure:"user_agent"`
	QueryTimeoutSecs int    `yaml:"query_timeout_secs" mapstructure:"query_timeout_secs"`
	TimeoutSecs      int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnthropicConfig holds Anthropic API settings for insight generation. An
// empty key disables the model path; the template fallback still runs.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentRequests int `yaml:"max_concurrent_requests" mapstructure:"max_concurrent_requests"`
}

// ServerConfig configures the analysis API server.
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
	v.SetEnvPrefix("URBANSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("scoring.category_weights.grocery", 0.15)
	v.SetDefault("scoring.category_weights.restaurant", 0.10)
	v.SetDefault("scoring.category_weights.shopping", 0.05)
	v.SetDefault("scoring.category_weights.school", 0.15)
	v.SetDefault("scoring.category_weights.park", 0.10)
	v.SetDefault("scoring.category_weights.entertainment", 0.05)
	v.SetDefault("scoring.category_weights.healthcare", 0.10)
	v.SetDefault("scoring.category_weights.transport", 0.20)
	v.SetDefault("scoring.category_weights.services", 0.10)
	v.SetDefault("scoring.domain_weights.walkability", 0.30)
	v.SetDefault("scoring.domain_weights.accessibility", 0.25)
	v.SetDefault("scoring.domain_weights.convenience", 0.25)
	v.SetDefault("scoring.domain_weights.safety", 0.10)
	v.SetDefault("scoring.domain_weights.quality_of_life", 0.10)
	v.SetDefault("scoring.search_radius_m", 1000)
	v.SetDefault("scoring.pedestrian_radius_m", 500)
	v.SetDefault("scoring.decay_cutoff_m", 800)
	v.SetDefault("scoring.top_per_category", 5)
	v.SetDefault("scoring.cluster_eps_m", 100)
	v.SetDefault("scoring.cluster_min_points", 3)
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.user_agent", "UrbanSight/3.0")
	v.SetDefault("geocoder.rate_per_sec", 1)
	v.SetDefault("geocoder.timeout_secs", 10)
	v.SetDefault("overpass.endpoint", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.user_agent", "UrbanSight/3.0")
	v.SetDefault("overpass.query_timeout_secs", 25)
	v.SetDefault("overpass.timeout_secs", 60)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 2000)
	v.SetDefault("batch.max_concurrent_requests", 5)
	v.SetDefault("server.port", 8000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
