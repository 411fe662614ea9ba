// Package content holds the default site content compiled into the binary:
// shared fragments under fragments/ and page definitions under pages/.
package content

import (
	"embed"
	"io/fs"
	"os"
)

const (
	FragmentDir = "fragments"
	PageDir     = "pages"
)

//go:embed fragments pages
var embedded embed.FS

// FS returns the content root: dir on disk when set, the embedded content
// otherwise. Both use the same fragments/ and pages/ layout.
func FS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return embedded
}
