package main

import (
	"context"
	"fmt"
	"io"

	"github.com/phrazzld/codegen-api/internal/bootstrap"
	"github.com/phrazzld/codegen-api/internal/config"
	"github.com/phrazzld/codegen-api/internal/platform/logger"
	"github.com/spf13/cobra"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "codegen",
		Short: "Generate code with BlackboxAI, Google Gemini or Hugging Face",
		Long: `codegen sends a task description to an AI provider, retries transient
failures, indents the returned code and caches the result.

Provider keys are read from RAPIDAPI_KEY, GEMINI_API_KEY and HF_API_KEY
(or CODEGEN_LLM_* variables, a .env file, or codegen.yaml).`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to a YAML config file (default ./codegen.yaml if present)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline activity to stderr")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newLanguagesCmd(),
		newModelsCmd(opts),
		newCheckCmd(opts),
	)
	return cmd
}

// loadConfig reads configuration for a command.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openPipeline loads configuration and assembles the pipeline. Logs go to
// stderr, and only warnings and errors unless --verbose is set.
func (o *rootOptions) openPipeline(ctx context.Context, stderr io.Writer) (*bootstrap.Pipeline, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	l := logger.SetupWithWriter(stderr, level)

	return bootstrap.New(ctx, cfg, l)
}
