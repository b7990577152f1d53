package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/HandyWote/Translater/internal/bridge"
	"github.com/HandyWote/Translater/internal/cli"
	"github.com/HandyWote/Translater/internal/doctor"
	"github.com/HandyWote/Translater/internal/indicator"
	"github.com/HandyWote/Translater/internal/lang"
	"github.com/HandyWote/Translater/internal/output"
	"github.com/HandyWote/Translater/internal/pipeline"
	"github.com/HandyWote/Translater/internal/prompts"
	"github.com/HandyWote/Translater/internal/settings"
	"github.com/HandyWote/Translater/internal/uistate"
	"github.com/HandyWote/Translater/internal/version"
)

const acquireRetries = 8

var errChecksFailed = errors.New("doctor checks failed")

// commands implements cli.Handlers on top of a Runner.
type commands struct {
	runner Runner
}

var _ cli.Handlers = commands{}

func (c commands) Serve(ctx context.Context, opts cli.Options) error {
	env, err := c.runner.open(opts, "serve")
	if err != nil {
		return err
	}
	defer env.Close()
	cfg := env.cfg.Config

	socketPath, err := bridge.ResolveSocketPath(cfg.Bridge.Socket)
	if err != nil {
		return err
	}
	listener, err := bridge.Acquire(ctx, socketPath, cfg.Bridge.ProbeTimeout, acquireRetries)
	if err != nil {
		if errors.Is(err, bridge.ErrAlreadyRunning) {
			return fmt.Errorf("%w at %s", err, socketPath)
		}
		return err
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	statePath, err := uistate.ResolvePath()
	if err != nil {
		return err
	}

	copier := output.NewCopier(output.NewWriter(cfg.Clipboard.Command), cfg.Clipboard.ResetDelay)
	defer copier.Stop()
	notifier := indicator.NewDesktop(cfg.Notify, env.logger)

	server := bridge.NewServer(bridge.NewService(bridge.Deps{
		Store:     env.store,
		Sections:  uistate.Open(statePath),
		Deliverer: output.NewDeliverer(copier, notifier, env.logger),
		Keys:      keysFrom(env),
		Logger:    env.logger,
	}))

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go func() {
		err := env.store.Watch(watchCtx, func(loaded settings.Loaded) {
			env.logger.Info("settings reloaded", "path", loaded.Path, "warnings", len(loaded.Warnings))
		})
		if err != nil {
			env.logger.Warn("settings watch stopped", "error", err.Error())
		}
	}()

	fmt.Fprintf(c.runner.Stdout, "serving on %s\n", socketPath)
	env.logger.Info("bridge serving", "socket", socketPath)

	err = bridge.Serve(ctx, listener, server)
	_ = notifier.Dismiss(context.Background())
	if err != nil {
		env.logger.Error("bridge failed", "error", err.Error())
		return err
	}
	env.logger.Info("bridge stopped", "socket", socketPath)
	return nil
}

func (c commands) Status(ctx context.Context, opts cli.Options) error {
	env, err := c.runner.open(opts, "status")
	if err != nil {
		return err
	}
	defer env.Close()

	socketPath, err := bridge.ResolveSocketPath(env.cfg.Config.Bridge.Socket)
	if err != nil {
		fmt.Fprintln(c.runner.Stdout, "idle")
		return nil
	}
	alive, err := bridge.Probe(ctx, socketPath, env.cfg.Config.Bridge.DialTimeout)
	if err != nil {
		return err
	}
	if alive {
		fmt.Fprintln(c.runner.Stdout, "serving")
		return nil
	}
	fmt.Fprintln(c.runner.Stdout, "idle")
	return nil
}

func (c commands) SettingsShow(_ context.Context, opts cli.Options) error {
	env, err := c.runner.open(opts, "settings show")
	if err != nil {
		return err
	}
	defer env.Close()

	loaded, err := c.runner.loadSettings(env)
	if err != nil {
		return err
	}
	return c.printSettings(loaded.Settings)
}

func (c commands) SettingsPath(_ context.Context, opts cli.Options) error {
	env, err := c.runner.open(opts, "settings path")
	if err != nil {
		return err
	}
	defer env.Close()

	fmt.Fprintln(c.runner.Stdout, env.store.Path())
	return nil
}

func (c commands) SettingsKeys(_ context.Context, _ cli.Options) error {
	defaults := settings.Denormalize(settings.Default())
	tw := tabwriter.NewWriter(c.runner.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tTYPE\tSINCE\tDEFAULT")
	for _, field := range settings.Fields() {
		fmt.Fprintf(tw, "%s\t%s\tv%d\t%s\n", field.Key, field.Kind, field.Since, describeDefault(defaults[field.Key]))
	}
	return tw.Flush()
}

func (c commands) SettingsImport(_ context.Context, opts cli.Options, file string) error {
	env, err := c.runner.open(opts, "settings import")
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := env.store.Import(file); err != nil {
		env.logger.Error("import settings failed", "file", file, "error", err.Error())
		return err
	}
	env.logger.Info("settings imported", "file", file, "path", env.store.Path())
	fmt.Fprintf(c.runner.Stdout, "imported %s into %s\n", file, env.store.Path())
	return nil
}

func (c commands) SettingsSet(_ context.Context, opts cli.Options, assignments []string) error {
	edits, keys, err := parseAssignments(assignments)
	if err != nil {
		return err
	}

	env, err := c.runner.open(opts, "settings set")
	if err != nil {
		return err
	}
	defer env.Close()

	updated, err := env.store.Update(edits)
	if err != nil {
		env.logger.Error("update settings failed", "error", err.Error())
		return err
	}

	record := settings.Denormalize(updated)
	for _, key := range keys {
		fmt.Fprintf(c.runner.Stdout, "%s = %s\n", key, describeDefault(record[key]))
	}
	env.logger.Info("settings updated", "keys", keys)
	return nil
}

func (c commands) SettingsReset(_ context.Context, opts cli.Options) error {
	env, err := c.runner.open(opts, "settings reset")
	if err != nil {
		return err
	}
	defer env.Close()

	if _, err := env.store.Save(settings.Default()); err != nil {
		env.logger.Error("reset settings failed", "error", err.Error())
		return err
	}
	fmt.Fprintf(c.runner.Stdout, "reset %s to defaults\n", env.store.Path())
	return nil
}

func (c commands) Prompts(_ context.Context, opts cli.Options, req cli.PromptsRequest) error {
	env, err := c.runner.open(opts, "prompts")
	if err != nil {
		return err
	}
	defer env.Close()

	loaded, err := c.runner.loadSettings(env)
	if err != nil {
		return err
	}

	overrides := settings.Record{}
	if req.Source != "" {
		overrides[settings.KeySourceLanguage] = req.Source
	}
	if req.Target != "" {
		overrides[settings.KeyTargetLanguage] = req.Target
	}
	cfg := settings.Apply(loaded.Settings, overrides)
	vars := pipeline.Vars(cfg)

	sections := []struct {
		mode string
		text string
	}{
		{mode: cli.PromptModeExtract, text: prompts.ComposeExtraction(cfg.ExtractPrompt, vars)},
		{mode: cli.PromptModeTranslate, text: prompts.ComposeTranslation(cfg.TranslatePrompt, vars)},
		{mode: cli.PromptModeDirect, text: prompts.BuildDirect(vars)},
	}

	first := true
	for _, section := range sections {
		if req.Mode != cli.PromptModeAll && req.Mode != section.mode {
			continue
		}
		if req.Mode == cli.PromptModeAll {
			if !first {
				fmt.Fprintln(c.runner.Stdout)
			}
			fmt.Fprintf(c.runner.Stdout, "# %s\n", section.mode)
		}
		fmt.Fprintln(c.runner.Stdout, section.text)
		first = false
	}
	return nil
}

func (c commands) Plan(_ context.Context, opts cli.Options, text bool) error {
	env, err := c.runner.open(opts, "plan")
	if err != nil {
		return err
	}
	defer env.Close()

	loaded, err := c.runner.loadSettings(env)
	if err != nil {
		return err
	}

	src := pipeline.SourceScreenshot
	if text {
		src = pipeline.SourceText
	}
	plan := pipeline.Build(loaded.Settings, src, keysFrom(env))

	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	fmt.Fprintln(c.runner.Stdout, string(data))
	return plan.Validate()
}

func (c commands) Languages(_ context.Context, _ cli.Options) error {
	tw := tabwriter.NewWriter(c.runner.Stdout, 0, 0, 2, ' ', 0)
	for _, code := range lang.Codes() {
		fmt.Fprintf(tw, "%s\t%s\n", code, lang.DisplayName(code))
	}
	return tw.Flush()
}

func (c commands) Doctor(ctx context.Context, opts cli.Options) error {
	env, err := c.runner.open(opts, "doctor")
	if err != nil {
		return err
	}
	defer env.Close()

	loaded, err := env.store.Load()
	if err != nil {
		return err
	}
	report := doctor.Run(ctx, env.cfg, loaded)
	fmt.Fprintln(c.runner.Stdout, report.String())
	if !report.OK() {
		return errChecksFailed
	}
	return nil
}

func (c commands) Version(context.Context) error {
	fmt.Fprintln(c.runner.Stdout, version.String())
	return nil
}

func (c commands) printSettings(s settings.Settings) error {
	data, err := settings.Encode(s)
	if err != nil {
		return err
	}
	_, err = c.runner.Stdout.Write(data)
	return err
}

func keysFrom(env *environment) pipeline.Keys {
	return pipeline.Keys{
		API:    env.cfg.Config.API.Key,
		Vision: env.cfg.Config.API.VisionKey,
	}
}

// parseAssignments turns KEY=VALUE arguments into typed edits, preserving
// argument order for output.
func parseAssignments(assignments []string) (settings.Record, []string, error) {
	edits := settings.Record{}
	keys := make([]string, 0, len(assignments))
	for _, assignment := range assignments {
		key, value, ok := strings.Cut(assignment, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, nil, &cli.UsageError{Err: fmt.Errorf("expected KEY=VALUE, got %q", assignment)}
		}
		parsed, err := settings.ParseValue(key, value)
		if err != nil {
			return nil, nil, &cli.UsageError{Err: err}
		}
		if _, seen := edits[key]; !seen {
			keys = append(keys, key)
		}
		edits[key] = parsed
	}
	return edits, keys, nil
}

// describeDefault renders a record value for tabular output. Multi-line
// prompt templates are summarized.
func describeDefault(v any) string {
	switch x := v.(type) {
	case string:
		if x == "" {
			return `""`
		}
		if i := strings.IndexByte(x, '\n'); i >= 0 {
			return fmt.Sprintf("%q… (%d chars)", x[:i], len([]rune(x)))
		}
		return x
	default:
		return fmt.Sprint(x)
	}
}
