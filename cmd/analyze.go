// -- cmd/analyze.go --
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/archlens-cli/api/schemas"
	"github.com/xkilldash9x/archlens-cli/internal/analyzer"
	"github.com/xkilldash9x/archlens-cli/internal/config"
	"github.com/xkilldash9x/archlens-cli/internal/observability"
	"github.com/xkilldash9x/archlens-cli/internal/reporting"
	"github.com/xkilldash9x/archlens-cli/internal/source"
)

// newAnalyzeCmd creates and configures the `analyze` command.
func newAnalyzeCmd() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze <target>",
		Short: "Analyzes a git repository or local directory and emits a diagram or report",
		Long: `Analyzes a source repository and emits an architecture description.

The target is either a local directory or a repository URL; URLs are cloned
into a temporary directory for the duration of the run.

Examples:
  archlens analyze .                             # Mermaid diagram to stdout
  archlens analyze . -f json -o report.json      # JSON component dump
  archlens analyze https://github.com/user/repo  # Clone and analyze`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags so CLI values override config file and env vars.
			return viper.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg := config.Get()

			target := args[0]
			format := viper.GetString("format")
			output := viper.GetString("output")

			opts := source.Options{}
			if source.IsRemote(target) {
				opts.RepoURL = target
			} else {
				opts.LocalPath = target
			}

			a, err := analyzer.New(ctx, opts, cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize analyzer: %w", err)
			}
			defer func() {
				if err := a.Close(); err != nil {
					logger.Warn("Cleanup failed", zap.Error(err))
				}
			}()

			envelope := &schemas.ResultEnvelope{RunID: a.RunID()}

			switch format {
			case "mermaid":
				diagram, err := a.GenerateMermaid(ctx)
				if err != nil {
					return err
				}
				envelope.Diagram = diagram
			case "json":
				if err := a.Analyze(ctx); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unsupported output format: %s", format)
			}
			envelope.Components = a.Components()

			reporter, err := reporting.New(format, output)
			if err != nil {
				return fmt.Errorf("failed to initialize reporter: %w", err)
			}
			defer func() {
				if err := reporter.Close(); err != nil {
					logger.Error("Failed to close reporter", zap.Error(err))
				}
			}()

			if err := reporter.Write(envelope); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}

			if output != "" {
				logger.Info("Output written",
					zap.String("path", output),
					zap.String("format", format),
					zap.Int("components", len(envelope.Components)),
				)
			}
			return nil
		},
	}

	analyzeCmd.Flags().StringP("output", "o", "", "Output file path. Writes to stdout when unset.")
	analyzeCmd.Flags().StringP("format", "f", "mermaid", "Output format ('mermaid' or 'json').")

	return analyzeCmd
}
