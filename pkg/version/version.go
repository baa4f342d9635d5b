package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Stamped at build time through ldflags, for example:
//
//	-X 'github.com/goldirana/agentforge/pkg/version.Version=v1.2.3'
//
// GoReleaser fills all three; anything left empty is recovered from the
// binary's embedded build info.
var (
	Version    = ""
	CommitHash = ""
	BuildDate  = ""
)

// Info is the build identity reported by the version command and included in
// update check requests.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
}

// Get returns the build identity. Fields missing from ldflags fall back to
// the module version and VCS stamps recorded by the Go toolchain, so plain
// go install builds still report something useful.
func Get() Info {
	info := Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
		GoVersion:  runtime.Version(),
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		fillFromBuildInfo(&info, bi)
	}
	if info.Version == "" {
		info.Version = "unknown"
	}
	if info.CommitHash == "" {
		info.CommitHash = "unknown"
	}
	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
	return info
}

func fillFromBuildInfo(info *Info, bi *debug.BuildInfo) {
	if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.CommitHash == "" {
				info.CommitHash = setting.Value
			}
		case "vcs.time":
			if info.BuildDate == "" {
				info.BuildDate = setting.Value
			}
		}
	}
}

// String renders the build identity on a single line for the version command.
func (i Info) String() string {
	return fmt.Sprintf("agentforge %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildDate)
}
