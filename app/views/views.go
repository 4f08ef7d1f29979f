// Package views holds the HTML templates and static assets compiled into the binary.
package views

import (
	"embed"
	"io/fs"
)

//go:embed *.html static
var FS embed.FS

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(FS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
