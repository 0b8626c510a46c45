// Package version exposes the build version, overridable at link time.
package version

// Version is set via -ldflags "-X github.com/kekayan/runs-cli/internal/version.Version=v1.2.3".
var Version = "dev"
