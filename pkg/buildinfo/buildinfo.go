package buildinfo

import "runtime"

// These vars are set at build time via ldflags:
// -X github.com/quantum-ai/quantum-cli/pkg/buildinfo.Version=v0.3.0
// -X github.com/quantum-ai/quantum-cli/pkg/buildinfo.Commit=4f2a91c
// -X github.com/quantum-ai/quantum-cli/pkg/buildinfo.BuildTime=2026-08-20T09:00:00Z
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info holds build information for the CLI.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns build info for the current binary.
func Get() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String returns a human-readable one-liner like "v0.3.0 (4f2a91c, 2026-08-20T09:00:00Z)"
func String() string {
	return Version + " (" + Commit + ", " + BuildTime + ")"
}
