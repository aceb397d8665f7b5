package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CODEGEN"

// Defaults applied before files and environment are read.
var defaults = map[string]any{
	"server.port":        8000,
	"server.log_level":   "info",
	"server.static_dir":  "./public",
	"server.config_file": "config.json",

	"llm.gemini_api_key":          "",
	"llm.rapidapi_key":            "",
	"llm.huggingface_api_key":     "",
	"llm.gemini_base_url":         "",
	"llm.blackbox_base_url":       "https://blackboxai.p.rapidapi.com",
	"llm.huggingface_base_url":    "https://api-inference.huggingface.co",
	"llm.prompt_template_path":    "",
	"llm.max_attempts":            3,
	"llm.backoff_unit_ms":         1000,
	"llm.request_timeout_seconds": 60,
	"llm.max_output_tokens":       2048,
	"llm.default_temperature":     0.7,

	"cache.dir":              "code_cache",
	"cache.mirror":           MirrorDisk,
	"cache.redis_url":        "",
	"cache.redis_key_prefix": "codegen:cache:",

	"jobs.workers":           2,
	"jobs.queue_size":        100,
	"jobs.retention_minutes": 60,
}

// PlaceholderKey is the value shipped in example env files. It is treated as
// unset.
const PlaceholderKey = "your_key_here"

// Provider keys are also read from the variable names used by the provider
// dashboards.
var aliases = map[string][]string{
	"llm.gemini_api_key":      {"GEMINI_API_KEY"},
	"llm.rapidapi_key":        {"RAPIDAPI_KEY"},
	"llm.huggingface_api_key": {"HF_API_KEY", "HUGGINGFACE_API_KEY"},
	"cache.redis_url":         {"REDIS_URL"},
}

// Load reads configuration. Environment variables take precedence over
// values from the config file. configFile may name a YAML file explicitly;
// when empty, codegen.yaml in the working directory is used if present.
// A .env file in the working directory is loaded first without overriding
// variables that are already set.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigType("yaml")
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("codegen")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range aliases {
		envVars := append([]string{envName(key)}, names...)
		if err := v.BindEnv(append([]string{key}, envVars...)...); err != nil {
			return nil, fmt.Errorf("error binding environment variables for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	for _, key := range []*string{&cfg.LLM.GeminiAPIKey, &cfg.LLM.RapidAPIKey, &cfg.LLM.HuggingFaceAPIKey} {
		*key = strings.TrimSpace(*key)
		if *key == PlaceholderKey {
			*key = ""
		}
	}
	cfg.Cache.Mirror = strings.ToLower(strings.TrimSpace(cfg.Cache.Mirror))
	cfg.Server.LogLevel = strings.ToLower(strings.TrimSpace(cfg.Server.LogLevel))

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

// envName returns the prefixed variable name for a config key.
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
