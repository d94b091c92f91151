package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform/internal/config"
	"github.com/goliatone/go-stepform/internal/logger"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "stepform:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "stepform",
	Short:   "Multi-step form wizard with live validation",
	Version: version,
	Long: `stepform runs declarative multi-step forms in the terminal.

Each step is a field group that must validate before the next step opens.
Messages follow the edit/blur state of each field, and the final submission
merges every step into a single payload sent to the configured endpoint.`,
	SilenceUsage: true,
}

func init() {
	defaults := config.Default()
	flags := rootCmd.PersistentFlags()
	flags.String("endpoint", defaults.Endpoint, "submission endpoint URL")
	flags.String("method", defaults.Method, "HTTP method used to submit")
	flags.String("format", defaults.Format, "payload format (json|form)")
	flags.String("locale", defaults.Locale, "message locale")
	flags.String("definition", "", "definition file, or openapi.yaml#operationId (embedded contact form when empty)")
	flags.Duration("timeout", defaults.Timeout, "submission timeout")
	flags.String("log-level", defaults.LogLevel, "log level (debug|info|warn|error)")
	flags.String("log-format", defaults.LogFormat, "log format (text|json)")
	flags.Bool("sanitize", defaults.Sanitize, "strip markup from submitted values")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(initCmd)
}

// loadConfig resolves the settings for cmd and builds the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	format, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(cmd.ErrOrStderr()),
		logger.WithAttr(slog.String("app", "stepform")),
	)
	return cfg, log, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

