package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tracklab/internal/models"
	"github.com/desertthunder/tracklab/internal/repositories"
	"github.com/desertthunder/tracklab/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	browser func(url string) error
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config // fallback when no config file exists at the default path
	Logger  *log.Logger
	Output  io.Writer
	Browser func(url string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Browser == nil {
		opts.Browser = shared.OpenBrowser
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		browser: opts.Browser,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		serveCommand, setupCommand, compositionsCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// loadConfig resolves the configuration for cmd.
//
// A --config path given explicitly must exist. The default path is optional and falls back to the runner's config.
func (r *Runner) loadConfig(cmd *cli.Command) (*shared.Config, error) {
	path := cmd.String("config")

	if _, err := os.Stat(path); err != nil {
		if cmd.IsSet("config") {
			return nil, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
		}

		r.logger.Debug("config file not found, using defaults", "path", path)
		config := *r.config
		config.ApplyEnv()
		if err := config.Validate(); err != nil {
			return nil, err
		}
		shared.SetLogLevel(r.logger, config.LogLevel())
		return &config, nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	shared.SetLogLevel(r.logger, config.LogLevel())
	return config, nil
}

// openStore connects to the configured database, verifies the schema, and returns the repository with its closer.
//
// Every failure is reported as [shared.ErrStartupFailure].
func (r *Runner) openStore(ctx context.Context, config *shared.Config, opts ...repositories.Option) (*repositories.CompositionRepository, func() error, error) {
	strategy, err := models.NewStrategy(config.Store.Identity)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", shared.ErrStartupFailure, err)
	}

	db, dialect, err := shared.OpenDatabase(ctx, config.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", shared.ErrStartupFailure, err)
	}

	if err := repositories.Bootstrap(ctx, db, dialect, strategy); err != nil {
		db.Close()
		return nil, nil, err
	}

	r.logger.Debug("store ready", "driver", config.Database.Driver, "identity", strategy.Kind())
	return repositories.NewCompositionRepository(db, dialect, strategy, opts...), db.Close, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}
	return r.write(output)
}

func (r *Runner) write(p []byte) error {
	if _, err := r.output.Write(p); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	return r.write([]byte(fmt.Sprintf(format, args...)))
}
