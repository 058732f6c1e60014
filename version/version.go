package version

import (
	"runtime/debug"
	"strings"
)

// Version can be set at build time:
// go build -ldflags "-X github.com/stops2control/aeolus/version.Version=$(git describe --dirty)"
var Version string

// Revision returns the short VCS revision the binary was built from, with a
// -dirty suffix for modified trees, or "" when unknown.
func Revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	return revision(info.Settings)
}

func revision(settings []debug.BuildSetting) string {
	var rev string
	var dirty bool
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if rev != "" && dirty {
		rev += "-dirty"
	}
	return rev
}

// String returns Version, falling back to the VCS revision.
func String() string {
	if v := strings.TrimSpace(Version); v != "" {
		return v
	}
	if rev := Revision(); rev != "" {
		return rev
	}
	return "unknown"
}
