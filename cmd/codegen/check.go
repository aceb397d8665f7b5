package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phrazzld/codegen-api/internal/domain"
	"github.com/phrazzld/codegen-api/internal/redact"
	"github.com/spf13/cobra"
)

const probeTimeout = 30 * time.Second

// keyEnv names the variable a user sets for each provider.
var keyEnv = map[domain.Provider]string{
	domain.ProviderBlackbox:    "RAPIDAPI_KEY",
	domain.ProviderGemini:      "GEMINI_API_KEY",
	domain.ProviderHuggingFace: "HF_API_KEY",
}

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify configuration and provider API keys",
		Long: `Check loads the configuration, reports which provider keys are set and
probes each configured provider by listing its models.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), root, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func runCheck(ctx context.Context, root *rootOptions, out, stderr io.Writer) error {
	info(out, "Checking configuration...")
	pipeline, err := root.openPipeline(ctx, stderr)
	if err != nil {
		failure(out, err.Error())
		return err
	}
	defer pipeline.Close()
	success(out, fmt.Sprintf("Configuration loaded (cache mirror: %s)", pipeline.Config.Cache.Mirror))

	info(out, "Checking API keys...")
	configured, failed := 0, 0
	for _, status := range pipeline.Service.Providers() {
		if !status.Configured {
			failure(out, fmt.Sprintf("%s API key not found or not set (%s)", status.Name, keyEnv[status.Name]))
			continue
		}
		configured++

		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		models, err := pipeline.Service.Models(probeCtx, string(status.Name))
		cancel()

		switch {
		case err != nil:
			failed++
			failure(out, fmt.Sprintf("%s API key check failed: %s", status.Name, redact.Error(err)))
		case status.Name == domain.ProviderGemini && !containsFold(models, "gemini"):
			failed++
			failure(out, "No Gemini models found with provided API key")
		default:
			success(out, fmt.Sprintf("%s API key is valid (%d models)", status.Name, len(models)))
		}
	}

	info(out, "Check complete")
	switch {
	case configured == 0:
		return fmt.Errorf("no provider API keys configured")
	case failed > 0:
		return fmt.Errorf("%d of %d provider checks failed", failed, configured)
	}
	return nil
}

func containsFold(values []string, substr string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), substr) {
			return true
		}
	}
	return false
}

func success(w io.Writer, msg string) { fmt.Fprintf(w, "✓ %s\n", msg) }
func failure(w io.Writer, msg string) { fmt.Fprintf(w, "✗ %s\n", msg) }
func info(w io.Writer, msg string)    { fmt.Fprintf(w, "ℹ %s\n", msg) }
