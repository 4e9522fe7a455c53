// Package cli provides the command-line interface for skilllint.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/klauern/skilllint/internal/config"
	"github.com/klauern/skilllint/internal/logging"
	"github.com/klauern/skilllint/internal/ui"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

type configKey struct{}

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	app := &cli.Command{
		Name:           "skilllint",
		Usage:          "Lint Agent Skills in a plugin marketplace",
		Version:        Version,
		DefaultCommand: "lint",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a config file (.yaml or .toml)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			ctx = logging.NewContext(ctx, configureLogging(cmd))
			cfg, err := loadConfig(cmd)
			if err != nil {
				return ctx, err
			}
			configureColors(cmd, cfg)
			return context.WithValue(ctx, configKey{}, cfg), nil
		},
		Commands: []*cli.Command{
			lintCommand(),
			browseCommand(),
			rulesCommand(),
			schemaCommand(),
			historyCommand(),
			configCommand(),
			versionCommand(),
		},
	}
	return app.Run(ctx, args)
}

// loadConfig reads --config when given, otherwise the default config file,
// and validates the result.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := cmd.String("config"); path != "" {
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// configFrom returns the config loaded by the root Before hook.
func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	return config.Default()
}

// configureColors sets up color output based on CLI flags and config.
func configureColors(cmd *cli.Command, cfg *config.Config) {
	switch {
	case cmd.Bool("no-color"), cfg.Output.Color == config.ColorNever:
		ui.DisableColors()
	case cfg.Output.Color == config.ColorAlways:
		ui.EnableColors()
	}
}

// configureLogging sets up the logging level based on CLI flags and returns
// the installed logger.
func configureLogging(cmd *cli.Command) *slog.Logger {
	opts := logging.DefaultOptions()

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return logger
}
