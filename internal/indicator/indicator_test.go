package indicator

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/HandyWote/Translater/internal/config"
)

func TestDesktopNotifyReplacesPreviousToastAndDismisses(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "busctl-args.log")
	t.Setenv("BUSCTL_ARGS_FILE", argsFile)
	installBusctlStub(t, `
printf '%s\n' "$*" >> "${BUSCTL_ARGS_FILE}"
echo "u 42"
`)

	cfg := config.Default().Notify
	cfg.Sound = false
	notifier := NewDesktop(cfg, nil)

	require.NoError(t, notifier.Notify(context.Background(), Toast{Summary: "done", Body: "hello"}))
	require.NoError(t, notifier.Notify(context.Background(), Toast{Summary: "done", Body: "again", TimeoutMS: 900}))
	require.NoError(t, notifier.Dismiss(context.Background()))
	require.NoError(t, notifier.Dismiss(context.Background()))

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "Notify susssasa{sv}i translater 0 accessories-dictionary done hello 0 1 urgency y 0 3000")
	require.Contains(t, lines[1], "Notify susssasa{sv}i translater 42 accessories-dictionary done again 0 1 urgency y 0 900")
	require.Contains(t, lines[2], "CloseNotification u 42")
}

func TestDesktopNotifyReportsBusctlFailure(t *testing.T) {
	installBusctlStub(t, `
echo "no session bus" >&2
exit 1
`)

	cfg := config.Default().Notify
	cfg.Sound = false
	err := NewDesktop(cfg, nil).Notify(context.Background(), Toast{Summary: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "desktop notify failed")
	require.Contains(t, err.Error(), "no session bus")
}

func TestDesktopNotifyRejectsUnexpectedResponse(t *testing.T) {
	installBusctlStub(t, `echo "s nope"`)

	cfg := config.Default().Notify
	cfg.Sound = false
	err := NewDesktop(cfg, nil).Notify(context.Background(), Toast{Summary: "x"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid response")
}

func TestDesktopNotifyPlaysCueWhenSoundEnabled(t *testing.T) {
	installBusctlStub(t, `echo "u 7"`)

	played := make(chan struct{}, 1)
	notifier := NewDesktop(config.Default().Notify, nil)
	notifier.cue = func(context.Context) error {
		played <- struct{}{}
		return nil
	}

	require.NoError(t, notifier.Notify(context.Background(), Toast{Summary: "x"}))
	select {
	case <-played:
	case <-time.After(2 * time.Second):
		t.Fatal("completion cue was not played")
	}
}

func TestCompletionToastLocales(t *testing.T) {
	tests := []struct {
		name       string
		lang       string
		translated string
		copied     bool
		want       Toast
	}{
		{name: "chinese copied", lang: "zh_CN.UTF-8", translated: "hi", copied: true, want: Toast{Summary: "翻译完成", Body: "翻译结果已复制到剪贴板"}},
		{name: "chinese preview", lang: "", translated: "  hello\n world ", want: Toast{Summary: "翻译完成", Body: "hello world"}},
		{name: "english empty", lang: "en_US.UTF-8", translated: "   ", want: Toast{Summary: "Translation complete", Body: "No text was translated"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("LANG", tc.lang)
			require.Equal(t, tc.want, CompletionToast(tc.translated, tc.copied))
		})
	}
}

func TestPreviewTruncatesLongText(t *testing.T) {
	long := strings.Repeat("译", previewRunes+5)
	got := preview(long)
	require.Equal(t, strings.Repeat("译", previewRunes)+"…", got)
}

func installBusctlStub(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "busctl")
	script := "#!/usr/bin/env bash\nset -euo pipefail\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}

func TestParseNotificationID(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    uint32
		wantErr string
	}{
		{name: "id", reply: "u 42", want: 42},
		{name: "wrong type", reply: "s 42", wantErr: "invalid response"},
		{name: "no value", reply: "u", wantErr: "invalid response"},
		{name: "not a number", reply: "u many", wantErr: "parse id"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, err := parseNotificationID(tc.reply)
			if tc.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, id)
		})
	}
}
