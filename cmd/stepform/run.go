package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-stepform"
	"github.com/goliatone/go-stepform/internal/config"
	"github.com/goliatone/go-stepform/pkg/renderers/tui"
	"github.com/goliatone/go-stepform/pkg/transport/httptransport"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fill in the form interactively and submit it",
	RunE:  runWizard,
}

func runWizard(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	def, err := stepform.LoadDefinition(ctx, cfg.Definition)
	if err != nil {
		return err
	}

	target := submitTarget(cfg, def)
	transportOpts := []httptransport.Option{
		httptransport.WithMethod(target.method),
		httptransport.WithFormat(httptransport.Format(cfg.Format)),
		httptransport.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		httptransport.WithHeader("User-Agent", "stepform/"+version),
		httptransport.WithLogger(log),
	}
	if !cfg.Sanitize {
		transportOpts = append(transportOpts, httptransport.WithSanitizer(nil))
	}
	transport, err := httptransport.New(target.endpoint, transportOpts...)
	if err != nil {
		return err
	}

	session, err := stepform.NewSession(def,
		stepform.WithLocale(target.locale),
		stepform.WithTransport(transport),
		stepform.WithLogger(log),
	)
	if err != nil {
		return err
	}
	log.Debug("session ready", "definition", def.ID, "steps", len(session.Steps()), "endpoint", transport.Endpoint())

	runner := tui.New(
		tui.WithPromptDriver(tui.NewSurveyDriver(cmd.OutOrStdout())),
		tui.WithLabels(tui.LabelsFor(target.locale)),
		tui.WithTheme(tui.Theme{StepPrefix: "== ", ErrorPrefix: "! "}),
		tui.WithLogger(log),
	)
	_, err = runner.Run(ctx, session)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tui.ErrAborted), errors.Is(err, tui.ErrDeclined), errors.Is(err, context.Canceled):
		fmt.Fprintln(cmd.ErrOrStderr(), "stepform: nothing submitted")
		return nil
	default:
		return err
	}
}

type runTarget struct {
	endpoint string
	method   string
	locale   string
}

// submitTarget lets the definition supply endpoint, method and locale unless
// the user set them in a config file, the environment or a flag.
func submitTarget(cfg *config.Config, def stepform.Definition) runTarget {
	pick := func(key, configured, fromDef string) string {
		if cfg.IsSet(key) || strings.TrimSpace(fromDef) == "" {
			return configured
		}
		return fromDef
	}
	return runTarget{
		endpoint: pick("endpoint", cfg.Endpoint, def.Endpoint),
		method:   strings.ToUpper(pick("method", cfg.Method, def.Method)),
		locale:   pick("locale", cfg.Locale, def.Locale),
	}
}
