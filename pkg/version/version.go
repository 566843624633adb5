package version

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X" at release time.
var (
	BridgectlVersion string
	GitCommit        string
)

// Info is what a bridgectl binary knows about its own build.
type Info struct {
	Version string
	Commit  string
	Go      string
}

// Get fills in whatever the linker left empty from the build information
// embedded by the go tool, so that a plain "go install" still reports
// something useful.
func Get() Info {
	info := Info{Version: BridgectlVersion, Commit: GitCommit}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info.withDefaults()
	}
	info.Go = bi.GoVersion
	if info.Version == "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" && info.Commit == "" {
			info.Commit = s.Value
		}
	}
	return info.withDefaults()
}

func (i Info) withDefaults() Info {
	if i.Version == "" {
		i.Version = "devel"
	}
	if i.Commit == "" {
		i.Commit = "unknown"
	}
	return i
}

func (i Info) String() string {
	s := fmt.Sprintf("bridgectl version: %s\n Git commit: %s\n", i.Version, i.Commit)
	if i.Go != "" {
		s += fmt.Sprintf(" Go: %s\n", i.Go)
	}
	return s
}

// String describes the running binary.
func String() string {
	return Get().String()
}
