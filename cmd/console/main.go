package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"precinct/internal/console/client"
	"precinct/internal/console/session"
	"precinct/internal/console/tui"
	"precinct/internal/platform/config"
	"precinct/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{in: os.Stdin, out: os.Stdout}
	defer a.close()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "precinct:", client.UserMessage(err))
		os.Exit(1)
	}
}

// app holds what every subcommand needs once flags and config are parsed.
type app struct {
	in  io.Reader
	out io.Writer

	apiURL string
	cfg    config.Console
	log    *slog.Logger
	api    *client.Client

	logFile *os.File
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "precinct",
		Short: "Operator console for the criminal records service",
		Long: `Without a subcommand, opens the interactive dashboard: log in, then
search, add, edit and delete criminal records.

The subcommands run a single operation against the backend and exit.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return tui.Run(cmd.Context(), a.api, session.New(), a.log)
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "Backend base URL (overrides PRECINCT_API_URL)")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newRegisterCmd(a),
		newLoginCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConsole(config.DefaultEnvFiles...)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	a.cfg = cfg

	// Logs never go to the terminal the dashboard draws on.
	a.log = logger.Discard()
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		a.log = logger.NewText(f, cfg.LogLevel)
	}
	slog.SetDefault(a.log)

	a.api, err = client.New(cfg.APIURL,
		client.WithTimeout(cfg.HTTPTimeout),
		client.WithLogger(a.log),
	)
	if err != nil {
		return err
	}
	a.log.DebugContext(cmd.Context(), "console ready", "api_url", cfg.APIURL, "command", cmd.Name())
	return nil
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
	}
}
