// Package version reports the build identity of the grind binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Overridden with -ldflags "-X github.com/rnwolfe/grind/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is a snapshot of the build identity.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go"`
	Platform  string `json:"platform"`
}

// Get returns the current build identity.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s) %s", i.Version, i.Commit, i.Date)
}

// Full is the one-line version string shown by `grind version`.
func Full() string { return Get().String() }

// Short returns only the version.
func Short() string { return Version }

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		fill(info)
	}
}

// fill replaces ldflag defaults with module and VCS data recorded by the
// toolchain, so `go install` builds still report something useful.
func fill(info *debug.BuildInfo) {
	if info == nil {
		return
	}
	if v := info.Main.Version; Version == "dev" && v != "" && v != "(devel)" {
		Version = v
	}
	for _, s := range info.Settings {
		if s.Value == "" {
			continue
		}
		switch {
		case s.Key == "vcs.revision" && Commit == "none":
			Commit = s.Value
			if len(Commit) > 7 {
				Commit = Commit[:7]
			}
		case s.Key == "vcs.time" && Date == "unknown":
			Date = s.Value
		}
	}
}
