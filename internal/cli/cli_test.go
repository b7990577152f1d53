package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	opts Options
	args []string
	req  PromptsRequest
	text bool
}

type recordingHandlers struct {
	calls []call
}

func (r *recordingHandlers) record(c call) error {
	r.calls = append(r.calls, c)
	return nil
}

func (r *recordingHandlers) Serve(_ context.Context, opts Options) error {
	return r.record(call{name: "serve", opts: opts})
}

func (r *recordingHandlers) Status(_ context.Context, opts Options) error {
	return r.record(call{name: "status", opts: opts})
}

func (r *recordingHandlers) SettingsShow(_ context.Context, opts Options) error {
	return r.record(call{name: "settings show", opts: opts})
}

func (r *recordingHandlers) SettingsPath(_ context.Context, opts Options) error {
	return r.record(call{name: "settings path", opts: opts})
}

func (r *recordingHandlers) SettingsKeys(_ context.Context, opts Options) error {
	return r.record(call{name: "settings keys", opts: opts})
}

func (r *recordingHandlers) SettingsImport(_ context.Context, opts Options, file string) error {
	return r.record(call{name: "settings import", opts: opts, args: []string{file}})
}

func (r *recordingHandlers) SettingsSet(_ context.Context, opts Options, assignments []string) error {
	return r.record(call{name: "settings set", opts: opts, args: assignments})
}

func (r *recordingHandlers) SettingsReset(_ context.Context, opts Options) error {
	return r.record(call{name: "settings reset", opts: opts})
}

func (r *recordingHandlers) Prompts(_ context.Context, opts Options, req PromptsRequest) error {
	return r.record(call{name: "prompts", opts: opts, req: req})
}

func (r *recordingHandlers) Plan(_ context.Context, opts Options, text bool) error {
	return r.record(call{name: "plan", opts: opts, text: text})
}

func (r *recordingHandlers) Languages(_ context.Context, opts Options) error {
	return r.record(call{name: "languages", opts: opts})
}

func (r *recordingHandlers) Doctor(_ context.Context, opts Options) error {
	return r.record(call{name: "doctor", opts: opts})
}

func (r *recordingHandlers) Version(context.Context) error {
	return r.record(call{name: "version"})
}

func run(t *testing.T, args ...string) (*recordingHandlers, string, error) {
	t.Helper()

	h := &recordingHandlers{}
	root := NewRootCommand(h)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	if args == nil {
		args = []string{}
	}
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return h, out.String(), err
}

func TestCommandDispatch(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want call
	}{
		{name: "serve", args: []string{"serve"}, want: call{name: "serve"}},
		{name: "status", args: []string{"status"}, want: call{name: "status"}},
		{name: "doctor with config", args: []string{"--config", "/tmp/cfg.yaml", "doctor"}, want: call{name: "doctor", opts: Options{ConfigPath: "/tmp/cfg.yaml"}}},
		{name: "global flag after command", args: []string{"settings", "show", "--settings", "/tmp/s.json"}, want: call{name: "settings show", opts: Options{SettingsPath: "/tmp/s.json"}}},
		{name: "settings path", args: []string{"settings", "path"}, want: call{name: "settings path"}},
		{name: "settings keys", args: []string{"settings", "keys"}, want: call{name: "settings keys"}},
		{name: "settings import", args: []string{"settings", "import", "old.yaml"}, want: call{name: "settings import", args: []string{"old.yaml"}}},
		{name: "settings set", args: []string{"settings", "set", "theme=dark", "autoCopyResult=false"}, want: call{name: "settings set", args: []string{"theme=dark", "autoCopyResult=false"}}},
		{name: "settings reset", args: []string{"settings", "reset"}, want: call{name: "settings reset"}},
		{name: "prompts default mode", args: []string{"prompts"}, want: call{name: "prompts", req: PromptsRequest{Mode: PromptModeAll}}},
		{name: "prompts overrides", args: []string{"prompts", "--mode", "direct", "--source", "en", "--target", "ja"}, want: call{name: "prompts", req: PromptsRequest{Mode: PromptModeDirect, Source: "en", Target: "ja"}}},
		{name: "plan", args: []string{"plan"}, want: call{name: "plan"}},
		{name: "plan text", args: []string{"plan", "--text"}, want: call{name: "plan", text: true}},
		{name: "languages", args: []string{"languages"}, want: call{name: "languages"}},
		{name: "version", args: []string{"version"}, want: call{name: "version"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _, err := run(t, tc.args...)
			require.NoError(t, err)
			require.Equal(t, []call{tc.want}, h.calls)
		})
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown command", args: []string{"bogus"}, wantErr: "unknown command"},
		{name: "unknown flag", args: []string{"--bogus"}, wantErr: "unknown flag"},
		{name: "missing config value", args: []string{"doctor", "--config"}, wantErr: "needs an argument"},
		{name: "extra args", args: []string{"version", "extra"}, wantErr: "unknown command"},
		{name: "import without file", args: []string{"settings", "import"}, wantErr: "accepts 1 arg"},
		{name: "set without assignment", args: []string{"settings", "set"}, wantErr: "requires at least 1 arg"},
		{name: "bad prompt mode", args: []string{"prompts", "--mode", "all-of-them"}, wantErr: "invalid --mode"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, _, err := run(t, tc.args...)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
			require.Equal(t, ExitUsage, ExitCode(err))
			require.Empty(t, h.calls)
		})
	}
}

func TestHelpListsCommands(t *testing.T) {
	h, out, err := run(t, "--help")
	require.NoError(t, err)
	require.Empty(t, h.calls)
	for _, name := range []string{"serve", "status", "settings", "prompts", "plan", "languages", "doctor", "--config", "--settings"} {
		require.Contains(t, out, name)
	}
}

func TestNoArgsPrintsHelp(t *testing.T) {
	_, out, err := run(t)
	require.NoError(t, err)
	require.Contains(t, out, "Usage:")
}

func TestExitCode(t *testing.T) {
	require.Equal(t, ExitOK, ExitCode(nil))
	require.Equal(t, ExitFailure, ExitCode(errors.New("boom")))
	require.Equal(t, ExitUsage, ExitCode(&UsageError{Err: errors.New("bad flag")}))
}
