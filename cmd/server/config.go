package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/codegen-api/internal/config"
)

// loadAppConfig loads configuration and logs a summary without secrets.
func loadAppConfig(configFile string) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"cache_mirror", cfg.Cache.Mirror)
	slog.Debug("Provider keys",
		"gemini_present", cfg.LLM.GeminiAPIKey != "",
		"rapidapi_present", cfg.LLM.RapidAPIKey != "",
		"huggingface_present", cfg.LLM.HuggingFaceAPIKey != "")

	return cfg, nil
}
