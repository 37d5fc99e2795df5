package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgecst/edgecst/internal/config"
	"github.com/edgecst/edgecst/internal/logs"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	ERROR_STATUS_CODE = 1
	COMMAND_NAME      = config.APP_NAME
)

var (
	version = "dev"

	//returned by commands that have already written their errors.
	errAlreadyReported = errors.New("errors reported")
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	statusCode := _main(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()

	if statusCode != 0 {
		os.Exit(statusCode)
	}
}

func _main(ctx context.Context, args []string, inR io.Reader, outW, errW io.Writer) (statusCode int) {
	app := &app{inR: inR, outW: outW, errW: errW}

	rootCmd := app.newRootCommand()
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errAlreadyReported) {
			fmt.Fprintln(errW, err)
		}
		return ERROR_STATUS_CODE
	}
	return 0
}

// app holds the state shared by the subcommands, it is initialized before any subcommand runs.
type app struct {
	inR  io.Reader
	outW io.Writer
	errW io.Writer

	configPath string
	logLevel   string
	noColor    bool
	timeout    time.Duration

	config  *config.Config
	logger  zerolog.Logger
	profile termenv.Profile
}

func (a *app) newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   COMMAND_NAME,
		Short: "Concrete syntax trees for Edge templates",
		Long: `edgecst parses Edge templates into lossless concrete syntax trees,
reports syntax errors with their location and prints trees and tokens.`,
		Version:           version,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.init(cmd) },
	}

	rootCmd.SetIn(a.inR)
	rootCmd.SetOut(a.outW)
	rootCmd.SetErr(a.errW)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "configuration file (default: ./"+config.CONFIG_FILE_NAME+" or $XDG_CONFIG_HOME/"+config.XDG_CONFIG_RELPATH+")")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colors")
	flags.DurationVar(&a.timeout, "timeout", 0, "timeout of a single parse, negative to disable (default 1s)")

	rootCmd.AddCommand(a.newParseCommand())
	rootCmd.AddCommand(a.newTokensCommand())
	rootCmd.AddCommand(a.newCheckCommand())
	rootCmd.AddCommand(a.newWatchCommand())

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath, wd)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Timeout = config.Duration(a.timeout)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.config = cfg

	a.profile = config.ColorSettingsFromEnv().Profile()
	if a.noColor {
		a.profile = termenv.Ascii
	}

	a.logger = logs.New(a.errW, cfg.Level(), true, a.profile != termenv.Ascii)
	if cfg.Path != "" {
		a.logger.Debug().Str("file", cfg.Path).Msg("configuration loaded")
	}
	return nil
}

// readSource reads the template at path, "-" designates the standard input.
func (a *app) readSource(path string) (string, error) {
	var (
		content []byte
		err     error
	)
	if path == "-" {
		content, err = io.ReadAll(a.inR)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}
	return string(content), nil
}

func (a *app) outOutput() *termenv.Output {
	return termenv.NewOutput(a.outW, termenv.WithProfile(a.profile))
}

func (a *app) errOutput() *termenv.Output {
	return termenv.NewOutput(a.errW, termenv.WithProfile(a.profile))
}
