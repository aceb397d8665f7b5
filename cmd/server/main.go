// Package main runs the code generation HTTP server: the generate and
// catalog API, the front-end configuration endpoint, static files, health
// and Prometheus metrics.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
)

// configFileEnv names an optional YAML config file.
const configFileEnv = "CODEGEN_CONFIG_FILE"

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// run loads configuration, assembles the application and serves until a
// shutdown signal arrives or ctx is canceled.
func run(ctx context.Context) error {
	cfg, err := loadAppConfig(os.Getenv(configFileEnv))
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
