// Package buildtime carries facts stamped into the binary at build time.
package buildtime

import (
	_ "embed"
	"fmt"
	"strings"
)

var (
	//go:embed VERSION
	rawVersion string

	//go:embed revision
	rawRevision string
)

// Version is the release of wid, like "v1.2.0".
func Version() string {
	return strings.TrimSpace(rawVersion)
}

// Revision is the commit the binary was built from.
func Revision() string {
	return strings.TrimSpace(rawRevision)
}

// VersionString is the text printed by `wid version`.
func VersionString() string {
	return fmt.Sprintf("wid %s (commit: %s)\n", Version(), Revision())
}

// UserAgent identifies wid in requests to the API.
func UserAgent() string {
	return "wid/" + Version()
}
