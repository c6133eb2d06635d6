// Package commands provides the cobra commands of the datafile CLI.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erraggy/datafile"
	"github.com/erraggy/datafile/internal/cliutil"
	"github.com/erraggy/datafile/internal/config"
	"github.com/erraggy/datafile/logger"
)

// errViolations is returned by commands whose report already told the user
// what went wrong. It maps to exit code 1 without another log line.
var errViolations = errors.New("violations found")

// Env is the state shared by every command once flags are parsed.
type Env struct {
	Config *config.Config
	Log    logger.Logger

	zap *zap.Logger
}

// rootOptions holds the persistent flags.
type rootOptions struct {
	configDir string
	logLevel  string
	logFormat string
	noColor   bool
}

// NewRootCmd builds the datafile command tree. The returned Env is filled in
// before any subcommand runs.
func NewRootCmd() (*cobra.Command, *Env) {
	o := &rootOptions{}
	env := &Env{Log: logger.NopLogger{}}

	cmd := &cobra.Command{
		Use:           "datafile",
		Short:         "Load, merge and validate YAML/JSON/CSV/TOML data files",
		Long:          "datafile loads YAML, JSON, CSV, TOML, MessagePack and text files, merges them, finds them in directory trees, resolves $ref references and validates them against JSON Schema.",
		Version:       datafile.Version(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return o.setup(cmd, env)
		},
	}
	cmd.SetVersionTemplate("datafile {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&o.configDir, "config-dir", ".", "directory holding datafile.yaml/datafile.toml and .env")
	cmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error (default from DATAFILE_LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&o.logFormat, "log-format", "", "log format: console or json (default from DATAFILE_LOG_FORMAT)")
	cmd.PersistentFlags().BoolVar(&o.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		NewLoadCmd(env),
		NewMergeCmd(env),
		NewListCmd(env),
		NewFindCmd(env),
		NewResolveCmd(env),
		NewValidateCmd(env),
		NewConvertCmd(env),
		NewMCPCmd(env),
		NewVersionCmd(),
	)
	return cmd, env
}

func (o *rootOptions) setup(cmd *cobra.Command, env *Env) error {
	if o.noColor {
		cliutil.DisableColor()
	}

	cfg, err := config.Load(o.configDir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = o.logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	zl, err := logger.NewZap(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	env.Config = cfg
	env.zap = zl
	env.Log = logger.NewZapAdapter(zl)
	env.Log.Debug("configuration loaded", "dir", o.configDir)
	return nil
}

// Execute runs the CLI with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	cmd, env := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cmd.ExecuteContext(ctx)
	defer func() {
		if env.zap != nil {
			_ = env.zap.Sync()
		}
	}()
	if err == nil {
		return 0
	}
	if !errors.Is(err, errViolations) {
		if env.zap != nil {
			env.Log.Error("command failed", "error", err)
		} else {
			cliutil.Writef(stderr, "Error: %v\n", err)
		}
	}
	return 1
}
