// Package config loads process-startup configuration for the bibliometric
// analysis backend: a root Config struct of nested section structs,
// defaults registered with viper, optional YAML file, and environment
// variable overrides (with "_" replacing "." in keys).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App         App         `mapstructure:"app"`
	Server      Server      `mapstructure:"server"`
	Acquisition Acquisition `mapstructure:"acquisition"`
	Similarity  Similarity  `mapstructure:"similarity"`
	Clustering  Clustering  `mapstructure:"clustering"`
	Frequency   Frequency   `mapstructure:"frequency"`
	Logging     Logging     `mapstructure:"logging"`
}

// App holds general process configuration.
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`
}

// Server holds HTTP server configuration.
type Server struct {
	Host            string          `mapstructure:"host"`
	Port            int             `mapstructure:"port"`
	ReadTimeout     time.Duration   `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration   `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	CORS            CORSConfig      `mapstructure:"cors"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// CORSConfig holds CORS configuration (cors_allowed_origins).
type CORSConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig throttles inbound HTTP requests (distinct from the
// per-source outbound rate limit in Acquisition).
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

// Acquisition holds the acquisition-pipeline configuration.
type Acquisition struct {
	DownloadBaseDir           string  `mapstructure:"download_base_dir"`
	DefaultRateLimitSeconds   float64 `mapstructure:"default_rate_limit_s"`
	DedupSimilarityThreshold  float64 `mapstructure:"similarity_threshold"`
	JobTTLSeconds             int     `mapstructure:"job_ttl_s"`
	MaxRetries                int     `mapstructure:"max_retries"`
	SourceCallTimeout         time.Duration `mapstructure:"source_call_timeout"`
	MaxConcurrentSources      int     `mapstructure:"max_concurrent_sources"`
}

// Similarity holds the similarity-engine configuration.
type Similarity struct {
	// EmbeddingModelPaths names/paths of the two pretrained models
	// (embedding_model_paths); bert first, sentence second.
	EmbeddingModelPaths []string `mapstructure:"embedding_model_paths"`
	BERTPoolingStrategy string   `mapstructure:"bert_pooling_strategy"`
}

// Clustering holds default TF-IDF vectorization bounds for the
// hierarchical clustering engine.
type Clustering struct {
	MaxFeatures int `mapstructure:"max_features"`
	MinDF       int `mapstructure:"min_df"`
	MaxDFRatio  float64 `mapstructure:"max_df_ratio"`
}

// Frequency holds defaults for the concept/frequency analyzer.
type Frequency struct {
	ContextWindow      int `mapstructure:"context_window"`
	MaxContextsPerDoc  int `mapstructure:"max_contexts_per_doc"`
	DefaultMaxKeywords int `mapstructure:"default_max_keywords"`
}

// Logging holds structured-logging configuration.
type Logging struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

var globalConfig *Config

// Load loads the configuration from defaults, an optional YAML file, and
// the environment, in that precedence order (lowest to highest).
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".bibliometric-api")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := postProcessConfig(config); err != nil {
		return nil, fmt.Errorf("error post-processing config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it with defaults if
// necessary.
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached global configuration; used by tests that need
// to reload with different environment overrides.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.data_dir", ".bibliometric-cache")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.shutdown_timeout", "10s")
	viper.SetDefault("server.cors.enabled", true)
	viper.SetDefault("server.cors.allowed_origins", []string{"*"})
	viper.SetDefault("server.rate_limit.enabled", false)
	viper.SetDefault("server.rate_limit.requests_per_minute", 120)

	viper.SetDefault("acquisition.download_base_dir", "./downloads")
	viper.SetDefault("acquisition.default_rate_limit_s", 1.0)
	viper.SetDefault("acquisition.similarity_threshold", 0.95)
	viper.SetDefault("acquisition.job_ttl_s", 3600)
	viper.SetDefault("acquisition.max_retries", 3)
	viper.SetDefault("acquisition.source_call_timeout", "30s")
	viper.SetDefault("acquisition.max_concurrent_sources", 5)

	viper.SetDefault("similarity.embedding_model_paths", []string{"bert-base-mean-pool", "sentence-transformer-mini"})
	viper.SetDefault("similarity.bert_pooling_strategy", "mean")

	viper.SetDefault("clustering.max_features", 1000)
	viper.SetDefault("clustering.min_df", 1)
	viper.SetDefault("clustering.max_df_ratio", 0.95)

	viper.SetDefault("frequency.context_window", 5)
	viper.SetDefault("frequency.max_contexts_per_doc", 3)
	viper.SetDefault("frequency.default_max_keywords", 20)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
}

func bindEnvironmentVariables() {
	bindEnvKeys("app.debug", []string{"APP_DEBUG", "DEBUG"})
	bindEnvKeys("app.log_level", []string{"LOG_LEVEL"})
	bindEnvKeys("server.host", []string{"SERVER_HOST", "HOST"})
	bindEnvKeys("server.port", []string{"SERVER_PORT", "PORT"})
	bindEnvKeys("server.cors.allowed_origins", []string{"CORS_ALLOWED_ORIGINS"})
	bindEnvKeys("acquisition.download_base_dir", []string{"DOWNLOAD_BASE_DIR"})
	bindEnvKeys("acquisition.default_rate_limit_s", []string{"DEFAULT_RATE_LIMIT_S"})
	bindEnvKeys("acquisition.similarity_threshold", []string{"SIMILARITY_THRESHOLD"})
	bindEnvKeys("acquisition.job_ttl_s", []string{"JOB_TTL_S"})
	bindEnvKeys("similarity.embedding_model_paths", []string{"EMBEDDING_MODEL_PATHS"})
}

func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		_ = viper.BindEnv(viperKey, envKey)
	}
}

func postProcessConfig(config *Config) error {
	config.Acquisition.DownloadBaseDir = expandPath(config.Acquisition.DownloadBaseDir)
	config.App.DataDir = expandPath(config.App.DataDir)
	return nil
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Acquisition.DedupSimilarityThreshold < 0 || config.Acquisition.DedupSimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold must be in [0,1], got %f", config.Acquisition.DedupSimilarityThreshold)
	}
	if config.Acquisition.JobTTLSeconds < 0 {
		return fmt.Errorf("job_ttl_s must be >= 0, got %d", config.Acquisition.JobTTLSeconds)
	}
	if len(config.Similarity.EmbeddingModelPaths) < 2 {
		return fmt.Errorf("embedding_model_paths must name both the bert and sentence-transformer models")
	}
	return nil
}

func GetApp() App                 { return Get().App }
func GetServer() Server           { return Get().Server }
func GetAcquisition() Acquisition { return Get().Acquisition }
func GetSimilarity() Similarity   { return Get().Similarity }
func GetClustering() Clustering   { return Get().Clustering }
func GetFrequency() Frequency     { return Get().Frequency }
func GetLogging() Logging         { return Get().Logging }
func IsDebugMode() bool           { return Get().App.Debug }
