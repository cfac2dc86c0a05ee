// Package version reports the build version and guards persisted snapshots
// against layout changes between releases.
package version

// Version is set at build time:
// -ldflags "-X github.com/rxtech-lab/argo-oms/internal/version.Version=1.2.3"
// The default value "main" indicates a development build.
var Version = "main"

func GetVersion() string {
	return Version
}
