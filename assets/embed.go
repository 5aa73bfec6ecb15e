// Package assets bundles the site templates and static files into the
// binary so deployments are a single artifact.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed static
var Static embed.FS

//go:embed templates
var Templates embed.FS

// StaticDir returns the static tree rooted at its own directory, for
// mounting under a URL prefix.
func StaticDir() fs.FS {
	sub, err := fs.Sub(Static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
