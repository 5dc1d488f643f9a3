// Package version reports the build identity of the voicy binary.
//
// The release version, commit and build time are set at link time; missing
// values are filled from the Go build info:
//
//	go build -ldflags "-X github.com/kbukum/voicy/version.Version=1.4.0" ./cmd/voicy
package version
