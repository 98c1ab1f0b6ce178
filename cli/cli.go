package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/qadesk/qadesk/assets"
	"github.com/qadesk/qadesk/config"
	"github.com/qadesk/qadesk/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const AppName = "qadesk"

type App struct {
	logger zerolog.Logger
	cli    *cli.App
	out    io.Writer
	now    func() time.Time

	// set by the Before hook
	cfg   config.Config
	color bool
}

func New() *App {

	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger :=
		log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339Nano,
		})

	app := &App{
		logger: logger,
		out:    os.Stdout,
		now:    time.Now,
	}
	app.cli = &cli.App{
		Name:                      AppName,
		Usage:                     "Keep test scenarios, test cases and bug reports in a JSON file and export them as reports",
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose (debug) logging",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Data file to use (overrides data_file and " + config.EnvData + ")",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config file (default: " + config.FileName + ", then $XDG_CONFIG_HOME/qadesk/config.yaml)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored and styled output",
			},
		},
		Before: app.before,
	}
	app.cli.Commands = append(app.cli.Commands,
		app.scenarioCommand(),
		app.caseCommand(),
		app.bugCommand(),
		app.exportCommand(),
		app.resetCommand(),
		app.validateCommand(),
		app.schemaCommand(),
	)
	return app
}

func (a *App) Run(args []string) error {
	a.cli.Writer = a.out
	return a.cli.Run(args)
}

// SetVersion sets the version information for the CLI application
func (a *App) SetVersion(version, commit, date string) {
	a.cli.Version = version
	if commit != "none" && len(commit) >= 8 {
		a.cli.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit[:8], date)
	}
}

func (a *App) before(ctx *cli.Context) error {
	if ctx.Bool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return err
	}
	if ctx.IsSet("data") {
		cfg.DataFile = ctx.String("data")
	}
	a.cfg = cfg
	a.color = !ctx.Bool("no-color") && os.Getenv("NO_COLOR") == ""

	a.logger.Debug().
		Str("config", cfg.Source).
		Str("data_file", cfg.DataFile).
		Str("id_scheme", cfg.IDScheme).
		Msg("Loaded configuration")
	return nil
}

// openStore loads the configured data file.
func (a *App) openStore() (*store.Store, error) {
	scheme, err := store.ParseIDScheme(a.cfg.IDScheme)
	if err != nil {
		return nil, fmt.Errorf("invalid id_scheme in config: %w", err)
	}

	opts := []store.Option{
		store.WithLogger(a.logger),
		store.WithIDScheme(scheme),
		store.WithClock(a.now),
	}
	if a.cfg.Screenshots.Copy {
		opts = append(opts, store.WithAttacher(assets.New(a.logger, a.dataDir(), a.cfg.Screenshots.Dir)))
	}

	s, err := store.Open(a.cfg.DataFile, opts...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("path", s.Path()).Msg("Opened data file")
	return s, nil
}

// dataDir is the directory relative screenshot references are resolved in.
func (a *App) dataDir() string {
	return filepath.Dir(a.cfg.DataFile)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
