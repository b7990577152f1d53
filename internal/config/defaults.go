package config

import "time"

// Default returns the runtime configuration used when no file or env is present.
func Default() Config {
	return Config{
		Bridge: BridgeConfig{
			DialTimeout:  2 * time.Second,
			ProbeTimeout: 250 * time.Millisecond,
		},
		Clipboard: ClipboardConfig{ResetDelay: 1600 * time.Millisecond},
		Notify: NotifyConfig{
			AppName: "translater",
			Sound:   true,
		},
		Log: LogConfig{Level: "info"},
	}
}
