// Package version reports build information.
package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is set at build time with -ldflags.
	Version = "0.1.0"
	// BuildDate is set at build time.
	BuildDate = "unknown"
	// GitCommit is set at build time.
	GitCommit = "unknown"
)

// Info holds version information.
type Info struct {
	Version      string
	BuildDate    string
	GitCommit    string
	GoVersion    string
	Platform     string
	SchemaFormat string
}

// Get returns version information. schemaFormat is the supported schema
// file version constraint.
func Get(schemaFormat string) Info {
	return Info{
		Version:      Version,
		BuildDate:    BuildDate,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		Platform:     fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
		SchemaFormat: schemaFormat,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("tableshim version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString returns a multi-line description.
func (i Info) FullString() string {
	return fmt.Sprintf(`tableshim version %s
Build Date:    %s
Git Commit:    %s
Platform:      %s
Go Version:    %s
Schema Format: %s`, i.Version, i.BuildDate, i.GitCommit, i.Platform, i.GoVersion, i.SchemaFormat)
}
