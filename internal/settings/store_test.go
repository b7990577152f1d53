package settings

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolvePathPrecedence(t *testing.T) {
	explicit := "/tmp/custom-settings.json"
	resolved, err := ResolvePath(explicit)
	require.NoError(t, err)
	require.Equal(t, explicit, resolved)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	resolved, err = ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xdg, "translater", "settings.json"), resolved)

	t.Setenv("XDG_CONFIG_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	resolved, err = ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "translater", "settings.json"), resolved)
}

func TestStoreLoadMissingUsesDefaultsWithWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")

	loaded, err := NewStore(path).Load()
	require.NoError(t, err)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Settings)
	require.NotEmpty(t, loaded.Warnings)
	require.Contains(t, loaded.Warnings[0].Message, "not found")
}

func TestStoreLoadCorruptFileUsesDefaults(t *testing.T) {
	tests := []struct {
		name    string
		content string
		warning string
	}{
		{name: "invalid json", content: "{ nope", warning: "not valid JSON"},
		{name: "array root", content: "[]", warning: "not a JSON object"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "settings.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))

			loaded, err := NewStore(path).Load()
			require.NoError(t, err)
			require.True(t, loaded.Exists)
			require.Equal(t, Default(), loaded.Settings)
			require.Len(t, loaded.Warnings, 1)
			require.Contains(t, loaded.Warnings[0].Message, tc.warning)
		})
	}
}

func TestStoreSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	store := NewStore(path)

	cfg := Default()
	cfg.AutoCopyResult = false
	cfg.APIBaseURL = "https://example.test/v1/"
	cfg.HotkeyCombination = "alt+shift+q"

	saved, err := store.Save(cfg)
	require.NoError(t, err)
	require.Equal(t, "https://example.test/v1", saved.APIBaseURL)
	require.Equal(t, "Alt+Shift+Q", saved.HotkeyCombination)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := store.Load()
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Empty(t, loaded.Warnings)
	require.Equal(t, saved, loaded.Settings)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestStoreUpdate(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))

	got, err := store.Update(Record{KeyTargetLanguage: "ja", KeyShowToastOnComplete: "false"})
	require.NoError(t, err)
	require.Equal(t, "ja", got.TargetLanguage)
	require.False(t, got.ShowToastOnComplete)

	got, err = store.Update(Record{KeyTheme: "dark"})
	require.NoError(t, err)
	require.Equal(t, "ja", got.TargetLanguage)
	require.Equal(t, "dark", got.Theme)
}

func TestStoreConcurrentUpdates(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "settings.json"))

	var wg sync.WaitGroup
	for _, theme := range []string{"dark", "light", "solarized", "system"} {
		wg.Add(1)
		go func(theme string) {
			defer wg.Done()
			_, err := store.Update(Record{KeyTheme: theme})
			require.NoError(t, err)
		}(theme)
	}
	wg.Wait()

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Contains(t, []string{"dark", "light", "solarized", "system"}, loaded.Settings.Theme)
	require.Empty(t, loaded.Warnings)
}

func TestStoreImportJSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "settings.json"))

	jsonPath := filepath.Join(dir, "export.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"theme":"dark","autoCopyResult":false}`), 0o600))
	got, err := store.Import(jsonPath)
	require.NoError(t, err)
	require.Equal(t, "dark", got.Theme)
	require.False(t, got.AutoCopyResult)

	yamlPath := filepath.Join(dir, "export.yaml")
	yamlContent := "targetLanguage: fr\nkeepWindowOnTop: true\nuseVisionForTranslation: false\n"
	require.NoError(t, os.WriteFile(yamlPath, []byte(yamlContent), 0o600))
	got, err = store.Import(yamlPath)
	require.NoError(t, err)
	require.Equal(t, "fr", got.TargetLanguage)
	require.True(t, got.KeepWindowOnTop)
	require.False(t, got.UseVisionForTranslation)
	require.Equal(t, DefaultTheme, got.Theme)

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, got, loaded.Settings)
}

func TestReadRecordRejectsNonObjectJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(`"just a string"`), 0o600))

	_, err := ReadRecord(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "root must be an object")
}

func TestStoreWatchReportsSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewStore(path)

	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan Loaded, 16)
	done := make(chan error, 1)
	go func() {
		done <- store.Watch(ctx, func(l Loaded) {
			select {
			case changes <- l:
			default:
			}
		})
	}()

	cfg := Default()
	cfg.Theme = "dark"
	require.Eventually(t, func() bool {
		_, err := store.Save(cfg)
		require.NoError(t, err)
		select {
		case l := <-changes:
			return l.Settings.Theme == "dark"
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestStoreWatchRejectsNilCallback(t *testing.T) {
	err := NewStore(filepath.Join(t.TempDir(), "settings.json")).Watch(context.Background(), nil)
	require.Error(t, err)
}
