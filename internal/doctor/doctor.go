// Package doctor runs readiness diagnostics for config, settings, credentials,
// endpoints, desktop tools, and the bridge socket.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/HandyWote/Translater/internal/bridge"
	"github.com/HandyWote/Translater/internal/config"
	"github.com/HandyWote/Translater/internal/indicator"
	"github.com/HandyWote/Translater/internal/lang"
	"github.com/HandyWote/Translater/internal/pipeline"
	"github.com/HandyWote/Translater/internal/prompts"
	"github.com/HandyWote/Translater/internal/settings"
)

const endpointTimeout = 2 * time.Second

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes every check for the loaded config and settings.
func Run(ctx context.Context, cfg config.Loaded, st settings.Loaded) Report {
	checks := []Check{
		{Name: "config", Pass: true, Message: describeLoad(cfg.Path, cfg.Exists)},
		checkSettings(st),
	}

	keys := pipeline.Keys{API: cfg.Config.API.Key, Vision: cfg.Config.API.VisionKey}
	checks = append(checks,
		checkPlan("credentials.text", st.Settings, pipeline.SourceText, keys),
		checkPlan("credentials.screenshot", st.Settings, pipeline.SourceScreenshot, keys),
		checkEndpoint(ctx, "endpoint.api", st.Settings.APIBaseURL),
	)
	if st.Settings.VisionAPIBaseURL != st.Settings.APIBaseURL {
		checks = append(checks, checkEndpoint(ctx, "endpoint.vision", st.Settings.VisionAPIBaseURL))
	}

	checks = append(checks,
		checkTemplates(st.Settings),
		checkLanguage("language.source", st.Settings.SourceLanguage),
		checkLanguage("language.target", st.Settings.TargetLanguage),
		checkClipboard(cfg.Config.Clipboard.Command),
	)
	if st.Settings.ShowToastOnComplete {
		checks = append(checks, checkBinary("busctl", "completion toasts use busctl"))
	}
	if cfg.Config.Notify.Sound {
		checks = append(checks, checkCueSink(ctx))
	}
	checks = append(checks, checkBridge(ctx, cfg.Config.Bridge))

	return Report{Checks: checks}
}

var listSinks = indicator.ListSinks

// checkCueSink reports where the completion cue will play. The cue is
// best-effort, so a missing sink is reported but never fails the run.
func checkCueSink(ctx context.Context) Check {
	sinks, err := listSinks(ctx)
	if err != nil {
		return Check{Name: "audio.cue", Pass: true, Message: fmt.Sprintf("cue disabled: %v", err)}
	}
	sink, err := indicator.CueSink(sinks)
	if err != nil {
		return Check{Name: "audio.cue", Pass: true, Message: fmt.Sprintf("cue may be silent: %v", err)}
	}
	return Check{Name: "audio.cue", Pass: true, Message: fmt.Sprintf("plays on %s (%s)", sink.ID, sink.State)}
}

func describeLoad(path string, exists bool) string {
	if exists {
		return fmt.Sprintf("loaded %q", path)
	}
	return fmt.Sprintf("%q not found, using defaults", path)
}

// checkSettings fails when the settings file exists but could not be used.
func checkSettings(st settings.Loaded) Check {
	if st.Exists && len(st.Warnings) > 0 {
		return Check{Name: "settings", Pass: false, Message: st.Warnings[0].Message}
	}
	return Check{Name: "settings", Pass: true, Message: describeLoad(st.Path, st.Exists)}
}

func checkPlan(name string, s settings.Settings, src pipeline.Source, keys pipeline.Keys) Check {
	plan := pipeline.Build(s, src, keys)
	if err := plan.Validate(); err != nil {
		if errors.Is(err, pipeline.ErrMissingAPIKey) {
			return Check{Name: name, Pass: false, Message: err.Error() + " (set apiKeyOverride or TRANSLATER_API_KEY)"}
		}
		return Check{Name: name, Pass: false, Message: err.Error()}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("%s plan with %d step(s)", plan.Mode, len(plan.Steps))}
}

// checkEndpoint treats any HTTP answer below 500 as reachable; base URLs
// commonly answer 401 or 404 without credentials.
func checkEndpoint(ctx context.Context, name, baseURL string) Check {
	ctx, cancel := context.WithTimeout(ctx, endpointTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("invalid url: %v", err)}
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return Check{Name: name, Pass: false, Message: fmt.Sprintf("HTTP %d from %s", resp.StatusCode, baseURL)}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("reachable at %s (HTTP %d)", baseURL, resp.StatusCode)}
}

// checkLanguage passes for unmapped codes; prompts then carry the raw code.
// checkTemplates composes the stored templates in both modes and fails when a
// recognized placeholder survives composition.
func checkTemplates(s settings.Settings) Check {
	used := len(prompts.Unresolved(s.ExtractPrompt)) + len(prompts.Unresolved(s.TranslatePrompt))
	for _, vision := range []bool{true, false} {
		vars := pipeline.Vars(s)
		vars.UseVisionForTranslation = vision
		composed := []struct{ key, text string }{
			{settings.KeyExtractPrompt, prompts.ComposeExtraction(s.ExtractPrompt, vars)},
			{settings.KeyTranslatePrompt, prompts.ComposeTranslation(s.TranslatePrompt, vars)},
		}
		for _, c := range composed {
			if left := prompts.Unresolved(c.text); len(left) > 0 {
				return Check{Name: "prompts.templates", Pass: false, Message: fmt.Sprintf("%s leaves %s unresolved", c.key, strings.Join(left, ", "))}
			}
		}
	}
	return Check{Name: "prompts.templates", Pass: true, Message: fmt.Sprintf("%d placeholder(s) resolve in both modes", used)}
}

func checkLanguage(name, code string) Check {
	if lang.Known(code) {
		return Check{Name: name, Pass: true, Message: fmt.Sprintf("%s (%s)", code, lang.DisplayName(code))}
	}
	return Check{Name: name, Pass: true, Message: fmt.Sprintf("%s has no display name; prompts use the code", code)}
}

func checkClipboard(argv []string) Check {
	if len(argv) > 0 {
		return checkCommand(argv, "clipboard.command")
	}
	if clipboard.Unsupported {
		return Check{Name: "clipboard", Pass: false, Message: "no system clipboard utility found (install wl-clipboard or xclip)"}
	}
	return Check{Name: "clipboard", Pass: true, Message: "system clipboard available"}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkBridge reports whether a bridge is serving. Not running is not a
// failure.
func checkBridge(ctx context.Context, cfg config.BridgeConfig) Check {
	path, err := bridge.ResolveSocketPath(cfg.Socket)
	if err != nil {
		return Check{Name: "bridge", Pass: false, Message: err.Error()}
	}
	alive, err := bridge.Probe(ctx, path, cfg.ProbeTimeout)
	switch {
	case err != nil:
		return Check{Name: "bridge", Pass: false, Message: fmt.Sprintf("%s does not answer health checks: %v", path, err)}
	case alive:
		return Check{Name: "bridge", Pass: true, Message: fmt.Sprintf("serving at %s", path)}
	default:
		return Check{Name: "bridge", Pass: true, Message: fmt.Sprintf("not running (%s)", path)}
	}
}
