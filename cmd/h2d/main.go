package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"h2d/config"
	"h2d/misc"
	"h2d/state"
)

// setupEnv loads configuration and prepares logging and debug report once
// command line is parsed.
func setupEnv(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		return ctx, nil
	}

	var err error
	env := state.EnvFromContext(ctx)

	cfgFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(cfgFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if cfgFile != "" {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData("config/"+filepath.Base(cfgFile), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))
	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if cfgFile == "" {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

// teardownEnv flushes logs and closes debug report. Nothing could be logged
// after it.
func teardownEnv(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	if env.Rpt != nil {
		if e := env.Rpt.Close(); e != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", e))
		}
	}
	if env.Cfg != nil && env.Cfg.Logging.FileLogger.Destination != "" {
		err = multierr.Append(err, removeEmptyPanicLog(env.Cfg.Logging.FileLogger.Destination))
	}
	return err
}

func removeEmptyPanicLog(logFile string) error {
	debug.SetCrashOutput(nil, debug.CrashOptions{})
	name := filepath.Join(filepath.Dir(logFile), misc.GetAppName()+"-panic.log")
	if fi, err := os.Stat(name); err != nil || fi.Size() > 0 {
		return nil
	}
	if err := os.Remove(name); err != nil {
		return fmt.Errorf("unable to remove empty panic log file '%s': %w", name, err)
	}
	return nil
}

// logged is set when command error already went to the log.
var logged bool

func logExitError(ctx context.Context, _ *cli.Command, err error) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Error("Program ended with error", zap.Error(err))
		logged = true
	}
}

func passUsageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}

func unknownCommand(ctx context.Context, _ *cli.Command, name string) {
	if log := state.EnvFromContext(ctx).Log; log != nil {
		log.Warn("Unknown command, nothing to do", zap.String("command", name))
		return
	}
	fmt.Fprintf(os.Stderr, "Unknown command %q, nothing to do\n", name)
}

func main() {
	// interrupt stops directory processing between documents
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "compiler of html documents into design trees",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          setupEnv,
		After:           teardownEnv,
		OnUsageError:    passUsageError,
		ExitErrHandler:  logExitError,
		CommandNotFound: unknownCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{compileCommand(), previewCommand(), dumpConfigCommand()},
	}

	err := app.Run(ctx, os.Args)
	stop()
	if err != nil {
		// log may be not ready yet or closed already
		if !logged {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}
