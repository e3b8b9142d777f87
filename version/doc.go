// Package version reports the build of the dataprep binary.
//
// Release builds set the variables with -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/dataprep/version.Version=1.2.0" ./cmd/dataprep
//
// Development builds fall back to the VCS stamps of debug.ReadBuildInfo.
package version
