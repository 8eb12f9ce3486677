// Package version provides a single location for the sigping version string.
package version

// Version is the symbolic version of the running code. It should be set at
// build time using linker flags:
//
//	go build -ldflags "-X github.com/m-lab/sigping/version.Version=v1.2.3"
var Version = "no-version"
