// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// version.go — release stamp of the library and the typedis CLI, set at
// link time.

package typedis

// Link-time stamp. An unstamped build reports "devel".
//
//	go build -ldflags "-X 'github.com/AndrewDonelson/typedis.Release=2026.10.14' \
//	    -X 'github.com/AndrewDonelson/typedis.Commit=abc1234'" ./cmd/typedis
var (
	Release = "devel"
	Commit  = ""
)

// Version returns Release, followed by "+" and the commit when one was
// stamped.
func Version() string {
	if Commit == "" {
		return Release
	}
	return Release + "+" + Commit
}
