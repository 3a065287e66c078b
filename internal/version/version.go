// Package version holds build metadata injected at link time.
package version

// Version is the application version, overridden with
// -ldflags "-X github.com/ndewijer/Paper-Trading-Backend/internal/version.Version=v1.2.3".
var Version = "dev"
