//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of the grantlee module embedded at build
// time. It is printed by the CLI's --version flag.
var Version = strings.TrimSpace(version)

const (
	// Name is the canonical command and module identifier used across the
	// project. It appears in help text, default config paths, and the
	// instrumentation scope of traces and metrics.
	Name = "grantlee"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Django-style templates with block inheritance"
	// Path is the import path of the module.
	Path = "github.com/DmitryKokorin/grantlee"
)

// EnvPrefix returns the prefix for environment variable identifiers, for
// example GRANTLEE_PATH.
func EnvPrefix() string { return strings.ToUpper(Name) + "_" }

// AuthorInfo represents an individual author's name and email address.
type AuthorInfo struct {
	// Name is the author's preferred name or handle.
	Name string
	// Email is the author's contact email address.
	Email string
}

// Author lists the primary author(s) of the project for display in metadata.
var Author = []AuthorInfo{
	{"Dmitry Kokorin", "dmitry.kokorin@gmail.com"},
}
