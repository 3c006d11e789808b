package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/savorhq/savor/internal/config"
	"github.com/savorhq/savor/internal/output"
	"github.com/savorhq/savor/internal/progress"
	"github.com/savorhq/savor/internal/savor"
)

// app carries the state shared by all commands: configuration, the
// API client, and the selected output formatter. It is populated by
// the root command's PersistentPreRunE before any subcommand runs.
type app struct {
	cfg       config.Config
	client    *savor.Client
	formatter output.Formatter
	log       zerolog.Logger
	stdout    io.Writer

	configPath string
	outputFmt  string
	serverURL  string
	debug      bool
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context, version string) int {
	a := &app{stdout: os.Stdout}
	root := a.newRootCmd(version)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, output.Errorf("%s", diagnostic(err)))
		if hint := hintFor(err); hint != "" {
			fmt.Fprintln(os.Stderr, output.Hint(hint))
		}
		return 1
	}
	return 0
}

func (a *app) newRootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "savor",
		Short: "Food journal, recipes, and discovery from your terminal",
		Long: `savor is the command-line client for the Savor food service.

Log meals, search your history, manage recipes and pantry inventory,
check food safety, and discover what to eat next.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "path to config file (default ~/.config/savor/config.toml)")
	flags.StringVarP(&a.outputFmt, "output", "o", "table", "output format: table, json, or yaml")
	flags.StringVar(&a.serverURL, "server", "", "server URL (overrides config)")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		a.newLogCmd(),
		a.newSearchCmd(),
		a.newProfileCmd(),
		a.newSuggestCmd(),
		a.newRecipesCmd(),
		a.newPantryCmd(),
		a.newSafetyCmd(),
		a.newDiscoverCmd(),
		a.newTasteCmd(),
		a.newNearbyCmd(),
		a.newPublishCmd(),
		a.newLabelsCmd(),
		a.newHealthCmd(),
		newVersionCmd(version),
	)
	return root
}

// setup loads configuration and builds the client and formatter.
func (a *app) setup(cmd *cobra.Command) error {
	level := zerolog.WarnLevel
	if a.debug {
		level = zerolog.DebugLevel
	}
	a.log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.serverURL != "" {
		cfg.ServerURL = strings.TrimRight(a.serverURL, "/")
	}
	a.cfg = cfg

	for _, w := range cfg.Warnings() {
		a.log.Warn().Msg(w)
	}

	client, err := savor.NewClient(cfg.ClientConfig())
	if err != nil {
		return err
	}
	a.client = client.WithLogger(a.log)
	a.formatter = output.NewFormatter(a.outputFmt)
	return nil
}

// print renders data with the active formatter.
func (a *app) print(data any) {
	fmt.Fprint(a.stdout, a.formatter.Format(data))
}

// spin runs fn behind a spinner for table output; structured output
// modes run it directly so nothing extra lands on the terminal.
func (a *app) spin(ctx context.Context, label string, fn func() error) error {
	if strings.ToLower(a.outputFmt) != "table" {
		return fn()
	}
	return progress.Run(ctx, label, fn)
}

// diagnostic maps typed client errors to a short user-facing message.
func diagnostic(err error) string {
	var (
		notFound *savor.NotFoundError
		auth     *savor.AuthError
		rate     *savor.RateLimitError
		tooBig   *savor.ResponseTooLargeError
		connErr  *savor.ConnectionError
	)
	switch {
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &auth):
		return auth.Error()
	case errors.As(err, &rate):
		return rate.Error()
	case errors.As(err, &tooBig):
		return tooBig.Error()
	case errors.As(err, &connErr):
		return connErr.Error()
	}
	return err.Error()
}

// hintFor adds recovery advice under specific error classes.
func hintFor(err error) string {
	var (
		auth    *savor.AuthError
		rate    *savor.RateLimitError
		connErr *savor.ConnectionError
	)
	switch {
	case errors.As(err, &connErr):
		return "check that the server is reachable (savor health)"
	case errors.As(err, &auth):
		return "set auth_token in your config file or the SAVOR_AUTH_TOKEN environment variable"
	case errors.As(err, &rate):
		if rate.RetryAfter > 0 {
			return fmt.Sprintf("retry after %d seconds", rate.RetryAfter)
		}
		return "wait a moment and retry"
	}
	return ""
}
