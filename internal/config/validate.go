package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	if err := validate.Struct(cfg); err != nil {
		return nil, describeValidation(err)
	}

	if socket := strings.TrimSpace(cfg.Bridge.Socket); socket != "" && !filepath.IsAbs(socket) {
		return nil, fmt.Errorf("bridge.socket must be an absolute path")
	}
	if cfg.Bridge.ProbeTimeout > cfg.Bridge.DialTimeout {
		return nil, fmt.Errorf("bridge.probe_timeout must not exceed bridge.dial_timeout")
	}

	warnings := make([]Warning, 0)
	if cfg.Clipboard.ResetDelay > 10*time.Second {
		warnings = append(warnings, Warning{
			Message: fmt.Sprintf("clipboard.reset_delay %s is unusually long", cfg.Clipboard.ResetDelay),
		})
	}
	if strings.TrimSpace(cfg.API.VisionKey) != "" && strings.TrimSpace(cfg.API.Key) == "" {
		warnings = append(warnings, Warning{
			Message: "api.vision_key is set without api.key; text requests need a settings override",
		})
	}

	return warnings, nil
}

// describeValidation rewrites validator field errors into config key names.
func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	key := configKey(fe.Namespace())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s must not be empty", key)
	case "gt":
		return fmt.Errorf("%s must be > %s", key, fe.Param())
	case "oneof":
		return fmt.Errorf("%s must be one of: %s", key, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Errorf("%s failed %q validation", key, fe.Tag())
	}
}

var keyNames = map[string]string{
	"Settings.Path":        "settings.path",
	"API.Key":              "api.key",
	"API.VisionKey":        "api.vision_key",
	"Bridge.Socket":        "bridge.socket",
	"Bridge.DialTimeout":   "bridge.dial_timeout",
	"Bridge.ProbeTimeout":  "bridge.probe_timeout",
	"Clipboard.Command":    "clipboard.command",
	"Clipboard.ResetDelay": "clipboard.reset_delay",
	"Notify.AppName":       "notify.app_name",
	"Notify.Sound":         "notify.sound",
	"Log.Level":            "log.level",
}

func configKey(namespace string) string {
	trimmed := strings.TrimPrefix(namespace, "Config.")
	if key, ok := keyNames[trimmed]; ok {
		return key
	}
	return strings.ToLower(trimmed)
}
