// Package version exposes build version information for the service.
//
// Version, git commit, and build time are set at compile time via
// -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/modelgraph/version.Version=1.0.0"
//
// Fields not set at build time are filled from the binary's embedded
// build info where available.
package version
