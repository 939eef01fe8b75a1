// Package cli wires the todo command line: the interactive TUI by default and
// scripted subcommands against the same backend client.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options wires process streams. Nil fields mean the os defaults.
type Options struct {
	In       io.Reader
	Out, Err io.Writer
}

// App carries flag values and what PersistentPreRunE resolves from them.
type App struct {
	ConfigPath string
	APIURL     string
	Theme      string
	LogLevel   string
	Color      bool
	NoColor    bool

	in       io.Reader
	cfg      config.Config
	log      *log.Logger
	closeLog func() error
	client   *api.Client
}

// Run executes args and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if opt.In == nil {
		opt.In = os.Stdin
	}
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	if opt.Err == nil {
		opt.Err = os.Stderr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &App{in: opt.In}
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetIn(opt.In)
	root.SetOut(opt.Out)
	root.SetErr(opt.Err)

	err := root.ExecuteContext(ctx)
	if app.closeLog != nil {
		_ = app.closeLog()
	}
	if err == nil {
		return 0
	}

	ui.Fail(opt.Err, err.Error())
	if hint := hintOf(err); hint != "" {
		fmt.Fprintln(opt.Err, ui.Current().Muted.Render(hint))
	}
	if isUsage(err) {
		return 2
	}
	return 1
}

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "Tada: manage todos on a REST backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Scriptable commands
  todo add "Buy milk" -d "2 litres"
  todo ls --group
  todo done 2
  todo rm 3
`),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for %q", args[0], cmd.CommandPath())
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigPath, "config", "", "Config file (default ~/.tada/config.toml, or $"+config.EnvConfig+")")
	pf.StringVar(&app.APIURL, "api-url", "", "Backend base URL (default "+config.DefaultAPIBaseURL+")")
	pf.StringVar(&app.Theme, "theme", "", "Colour theme (light|dark)")
	pf.StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	pf.BoolVar(&app.Color, "color", false, "Force colour output even when not writing to a terminal")
	pf.BoolVar(&app.NoColor, "no-color", false, "Disable colour output (wins over --color)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newDoneCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newAuthCmd(app))

	return cmd
}

// setup resolves config, theme and the logger. The TUI logs to a file so the
// alternate screen stays clean; subcommands log to stderr.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(app.ConfigPath, overrides(cmd.Flags(), app))
	if err != nil {
		return err
	}
	app.cfg = cfg

	ui.SetTheme(cfg.Theme)
	ui.SetColorForcing(app.Color, app.NoColor)

	opts := logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Writer: cmd.ErrOrStderr()}
	if cmd == cmd.Root() {
		opts.File = cfg.LogFile
	}
	logger, closeFn, err := logging.New(opts)
	if err != nil {
		return err
	}
	app.log, app.closeLog = logger, closeFn
	app.log.Debug("config", "path", cfg.Path, "api", cfg.APIBaseURL, "theme", cfg.Theme)
	return nil
}

func overrides(fs *pflag.FlagSet, app *App) config.Overrides {
	var o config.Overrides
	if fs.Changed("api-url") {
		o.APIBaseURL = &app.APIURL
	}
	if fs.Changed("theme") {
		o.Theme = &app.Theme
	}
	if fs.Changed("log-level") {
		o.LogLevel = &app.LogLevel
	}
	return o
}

// api returns the backend client, built once per invocation.
func (app *App) api() (*api.Client, error) {
	if app.client != nil {
		return app.client, nil
	}
	c, err := api.New(app.cfg.APIBaseURL,
		api.WithToken(auth.Bearer()),
		api.WithLogger(app.log),
		api.WithValidation(app.cfg.ValidateResponses),
	)
	if err != nil {
		return nil, usageError{msg: err.Error()}
	}
	app.client = c
	return c, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	client, err := app.api()
	if err != nil {
		return err
	}

	prefs, err := jsonstore.Default()
	if err != nil {
		app.log.Warn("preferences unavailable", "err", err)
		prefs = jsonstore.New("")
	}
	theme := app.cfg.Theme
	if !themeExplicit(cmd) {
		if p, err := prefs.Load(); err != nil {
			app.log.Warn("loading preferences", "err", err)
		} else if p.Theme != "" {
			theme = p.Theme
		}
	}

	app.log.Info("starting tui", "api", client.BaseURL(), "theme", theme)
	return tui.Run(cmd.Context(), tui.Options{
		Service: client,
		Logger:  app.log,
		Prefs:   prefs,
		Theme:   theme,
		BaseURL: client.BaseURL(),
	})
}

// themeExplicit reports whether --theme or TADA_THEME chose the theme, in
// which case the saved preference is ignored.
func themeExplicit(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("theme") || strings.TrimSpace(os.Getenv(config.EnvTheme)) != ""
}
