// Package version carries the epcheck build identity.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at link time with -ldflags "-X github.com/Consensys/errorprone-checks/pkg/version.Version=...".
var (
	// Version is the release version.
	Version = "dev"
	// Commit is the VCS revision the binary was built from.
	Commit = "<unknown>"
	// Date is the build time.
	Date = "<unknown>"
)

const shortCommit = 12

// InitBinaryVersion fills Version, Commit and Date from the embedded build
// info when they were not set at link time.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "<unknown>" {
				Commit = setting.Value[:min(len(setting.Value), shortCommit)]
			}
		case "vcs.time":
			if Date == "<unknown>" {
				Date = setting.Value
			}
		}
	}
}

// String renders the identity for the version command.
func String() string {
	return fmt.Sprintf("epcheck %s (commit: %s, built: %s)", Version, Commit, Date)
}
