package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/codegen-api/internal/bootstrap"
	"github.com/phrazzld/codegen-api/internal/config"
	"github.com/phrazzld/codegen-api/internal/task"
)

// application holds the server's dependencies and owns their cleanup.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	pipeline *bootstrap.Pipeline
	jobs     *task.Runner
}

// newApplication assembles the generation pipeline for cfg and starts the
// background job runner.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...bootstrap.Option) (*application, error) {
	opts = append([]bootstrap.Option{bootstrap.WithRuntimeMetrics()}, opts...)
	pipeline, err := bootstrap.New(ctx, cfg, logger, opts...)
	if err != nil {
		return nil, err
	}

	jobs := task.NewRunner(task.NewMemoryStore(), task.RunnerConfig{
		WorkerCount: cfg.Jobs.Workers,
		QueueSize:   cfg.Jobs.QueueSize,
		Retention:   cfg.Jobs.Retention(),
	}, logger)
	jobs.SetObserver(pipeline.Metrics)
	jobs.Start()

	logger.Info("Application initialized successfully",
		"job_workers", cfg.Jobs.Workers)
	return &application{
		config:   cfg,
		logger:   logger,
		pipeline: pipeline,
		jobs:     jobs,
	}, nil
}

// Run serves HTTP until shutdown.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops the job runner and releases the pipeline's resources.
func (app *application) cleanup() {
	if app.jobs != nil {
		app.jobs.Stop()
	}
	if app.pipeline != nil {
		if err := app.pipeline.Close(); err != nil {
			app.logger.Error("Error releasing pipeline resources", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
