package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	LLM    LLMConfig    `mapstructure:"llm" validate:"required"`
	Cache  CacheConfig  `mapstructure:"cache" validate:"required"`
	Jobs   JobsConfig   `mapstructure:"jobs" validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// StaticDir is served for every GET that no API route matches.
	StaticDir string `mapstructure:"static_dir" validate:"required"`
	// ConfigFile is the JSON document returned by GET /config.
	ConfigFile string `mapstructure:"config_file" validate:"required"`
}

// LLMConfig contains provider credentials and generation settings. A provider
// whose key is empty is not registered.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	RapidAPIKey       string `mapstructure:"rapidapi_key"`
	HuggingFaceAPIKey string `mapstructure:"huggingface_api_key"`

	GeminiBaseURL      string `mapstructure:"gemini_base_url" validate:"omitempty,url"`
	BlackboxBaseURL    string `mapstructure:"blackbox_base_url" validate:"required,url"`
	HuggingFaceBaseURL string `mapstructure:"huggingface_base_url" validate:"required,url"`

	PromptTemplatePath string `mapstructure:"prompt_template_path"`

	MaxAttempts           int     `mapstructure:"max_attempts" validate:"gte=1,lte=10"`
	BackoffUnitMS         int     `mapstructure:"backoff_unit_ms" validate:"gte=0"`
	RequestTimeoutSeconds int     `mapstructure:"request_timeout_seconds" validate:"gt=0"`
	MaxOutputTokens       int     `mapstructure:"max_output_tokens" validate:"gt=0"`
	DefaultTemperature    float64 `mapstructure:"default_temperature" validate:"gte=0.1,lte=1"`
}

// BackoffUnit returns the first retry delay.
func (c LLMConfig) BackoffUnit() time.Duration {
	return time.Duration(c.BackoffUnitMS) * time.Millisecond
}

// RequestTimeout returns the per-call provider timeout.
func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// Cache mirror kinds.
const (
	MirrorDisk  = "disk"
	MirrorRedis = "redis"
	MirrorNone  = "none"
)

// CacheConfig selects where generated code is mirrored.
type CacheConfig struct {
	Dir            string `mapstructure:"dir" validate:"required_if=Mirror disk"`
	Mirror         string `mapstructure:"mirror" validate:"required,oneof=disk redis none"`
	RedisURL       string `mapstructure:"redis_url" validate:"required_if=Mirror redis"`
	RedisKeyPrefix string `mapstructure:"redis_key_prefix"`
}

// JobsConfig sizes the background generation job runner.
type JobsConfig struct {
	Workers          int `mapstructure:"workers" validate:"gte=1,lte=64"`
	QueueSize        int `mapstructure:"queue_size" validate:"gte=1"`
	RetentionMinutes int `mapstructure:"retention_minutes" validate:"gte=1"`
}

// Retention returns how long finished jobs stay queryable.
func (c JobsConfig) Retention() time.Duration {
	return time.Duration(c.RetentionMinutes) * time.Minute
}
