package settings

import "github.com/HandyWote/Translater/internal/config"

// FileName is the settings file inside the translater config dir.
const FileName = "settings.json"

// ResolvePath locates settings.json: explicit path, then the config dir.
func ResolvePath(explicit string) (string, error) {
	return config.FilePath(explicit, FileName)
}
