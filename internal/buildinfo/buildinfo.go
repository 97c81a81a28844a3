// Package buildinfo reports the application name and version.
package buildinfo

import "fmt"

const Name = "Oculog"

// Version is overridden at link time with
// -ldflags "-X github.com/dmitrijs2005/oculog/internal/buildinfo.Version=...".
var Version = "0.1.0"

// String returns "Oculog v<version>".
func String() string {
	return fmt.Sprintf("%s v%s", Name, Version)
}
