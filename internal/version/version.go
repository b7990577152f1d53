// Package version carries build metadata stamped with -ldflags.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the line printed by `translater version`. Unstamped builds
// installed with `go install` report the module version from build info.
func String() string {
	return fmt.Sprintf("translater %s (commit=%s, date=%s, go=%s)", resolved(), Commit, Date, runtime.Version())
}

func resolved() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
