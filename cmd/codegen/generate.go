package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phrazzld/codegen-api/internal/bootstrap"
	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	provider    string
	language    string
	model       string
	temperature float64
	output      string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate [task...]",
		Short: "Generate code for a task description",
		Long: `Generate code for a task description. The task is taken from the
arguments, or from stdin when no arguments are given or the only argument is "-".`,
		Example: `  codegen generate --language Go "HTTP handler that returns the current time"
  echo "binary search tree" | codegen generate -p gemini -l Rust`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.provider, "provider", "p", string(domain.ProviderBlackbox), "provider name or slug (blackbox, gemini, huggingface)")
	f.StringVarP(&opts.language, "language", "l", string(domain.LanguagePython), "target language")
	f.StringVarP(&opts.model, "model", "m", "", "model identifier (default: the provider's default model)")
	f.Float64VarP(&opts.temperature, "temperature", "t", 0, "sampling temperature between 0.1 and 1.0 (default from config)")
	f.StringVarP(&opts.output, "output", "o", "", "write the code to this file instead of stdout")
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions, args []string) error {
	task, err := readTask(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pipeline, err := root.openPipeline(ctx, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer pipeline.Close()

	provider, ok := domain.ParseProvider(opts.provider)
	if !ok {
		// Models resolves the name without calling out and reports it unknown.
		_, err := pipeline.Service.Models(ctx, opts.provider)
		return err
	}
	model := opts.model
	if model == "" {
		model = bootstrap.DefaultModel(provider)
	}
	temperature := opts.temperature
	if !cmd.Flags().Changed("temperature") {
		temperature = pipeline.Config.LLM.DefaultTemperature
	}

	req, err := domain.NewGenerationRequest(pipeline.Service.Profiles(),
		opts.provider, task, opts.language, model, temperature)
	if err != nil {
		return err
	}

	code, err := pipeline.Service.Generate(ctx, req)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheWrite) || code == "" {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", err)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(code+"\n"), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.output, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", opts.output)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), code)
	return nil
}

// readTask joins args, or reads stdin when args are empty or "-".
func readTask(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}

	raw, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read task from stdin: %w", err)
	}
	task := strings.TrimSpace(string(raw))
	if task == "" {
		return "", errors.New("no task given: pass it as arguments or on stdin")
	}
	return task, nil
}
