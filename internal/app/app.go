// Package app wires configuration, logging, the settings store, and the bridge
// into the translater command handlers.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/HandyWote/Translater/internal/cli"
	"github.com/HandyWote/Translater/internal/config"
	"github.com/HandyWote/Translater/internal/logging"
	"github.com/HandyWote/Translater/internal/settings"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	root := cli.NewRootCommand(commands{runner: r})
	root.SetOut(r.Stdout)
	root.SetErr(r.Stderr)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	code := cli.ExitCode(err)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		if code == cli.ExitUsage {
			fmt.Fprintf(r.Stderr, "\n%s", root.UsageString())
		}
	}
	return code
}

// environment is the per-command runtime: loaded config, logger, and the
// settings store.
type environment struct {
	cfg     config.Loaded
	store   *settings.Store
	logger  *slog.Logger
	logPath string
	closer  func()
}

func (e *environment) Close() {
	if e.closer != nil {
		e.closer()
	}
}

func (r Runner) open(opts cli.Options, command string) (*environment, error) {
	cfgLoaded, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	env := &environment{cfg: cfgLoaded, logger: r.Logger}
	if env.logger == nil {
		logRuntime, err := logging.New(cfgLoaded.Config.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("setup logging: %w", err)
		}
		env.logger = logRuntime.Logger
		env.logPath = logRuntime.Path
		env.closer = func() { _ = logRuntime.Close() }
	}

	for _, w := range cfgLoaded.Warnings {
		fmt.Fprintf(r.Stderr, "warning: %s\n", w.Message)
		env.logger.Warn("config warning", "message", w.Message)
	}

	explicit := opts.SettingsPath
	if explicit == "" {
		explicit = cfgLoaded.Config.Settings.Path
	}
	settingsPath, err := settings.ResolvePath(explicit)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.store = settings.NewStore(settingsPath)

	env.logger.Info("command start",
		"command", command,
		"config", cfgLoaded.Path,
		"settings", settingsPath,
		"log", env.logPath,
	)
	return env, nil
}

// loadSettings reads the store, surfacing warnings only for files that exist.
func (r Runner) loadSettings(env *environment) (settings.Loaded, error) {
	loaded, err := env.store.Load()
	if err != nil {
		env.logger.Error("load settings failed", "error", err.Error())
		return settings.Loaded{}, err
	}
	if loaded.Exists {
		for _, w := range loaded.Warnings {
			fmt.Fprintf(r.Stderr, "warning: %s\n", w.Message)
			env.logger.Warn("settings warning", "message", w.Message)
		}
	}
	return loaded, nil
}
