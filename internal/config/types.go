// Package config resolves, layers, validates, and defaults translater runtime
// configuration. User-editable translation settings live in package settings.
package config

import "time"

// Config is the fully materialized process configuration.
type Config struct {
	Settings  SettingsConfig  `koanf:"settings"`
	API       APIConfig       `koanf:"api"`
	Bridge    BridgeConfig    `koanf:"bridge"`
	Clipboard ClipboardConfig `koanf:"clipboard"`
	Notify    NotifyConfig    `koanf:"notify"`
	Log       LogConfig       `koanf:"log"`
}

// SettingsConfig locates the settings file. Empty means the XDG default.
type SettingsConfig struct {
	Path string `koanf:"path"`
}

// APIConfig holds fallback credentials used when settings carry no override.
type APIConfig struct {
	Key       string `koanf:"key"`
	VisionKey string `koanf:"vision_key"`
}

// BridgeConfig controls the local gRPC bridge socket.
type BridgeConfig struct {
	Socket       string        `koanf:"socket"`
	DialTimeout  time.Duration `koanf:"dial_timeout" validate:"gt=0"`
	ProbeTimeout time.Duration `koanf:"probe_timeout" validate:"gt=0"`
}

// ClipboardConfig controls clipboard writes and the copied-state reset. An
// empty Command uses the system clipboard.
type ClipboardConfig struct {
	Command    []string      `koanf:"command"`
	ResetDelay time.Duration `koanf:"reset_delay" validate:"gt=0"`
}

// NotifyConfig controls completion toasts and the audio cue.
type NotifyConfig struct {
	AppName string `koanf:"app_name" validate:"required"`
	Sound   bool   `koanf:"sound"`
}

// LogConfig controls the JSONL logger.
type LogConfig struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// Warning is a non-fatal load/validation message.
type Warning struct {
	Message string
}
