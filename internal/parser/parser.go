package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/paramdocs/internal/page"
)

// Parser converts a page definition file into a Page. The returned page has
// no ID; callers assign it from the file name.
type Parser interface {
	Parse(r io.Reader, filename string) (*page.Page, error)
}

// SupportedExtensions lists page definition formats this service can read.
var SupportedExtensions = map[string]bool{
	".yaml":     true,
	".yml":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".php":      true,
}

// Options tune the parsers returned for each file.
type Options struct {
	// TitlePrefix is stripped from legacy HTML headings so the stored title
	// is the bare parameter name. Empty means DefaultTitlePrefix.
	TitlePrefix string
}

// ForFile returns the appropriate parser for a filename with default options.
func ForFile(filename string) (Parser, error) {
	return Options{}.ForFile(filename)
}

// ForFile returns the appropriate parser for a filename.
func (o Options) ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".yaml", ".yml":
		return &YAMLParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm", ".php":
		prefix := o.TitlePrefix
		if prefix == "" {
			prefix = DefaultTitlePrefix
		}
		return &HTMLParser{TitlePrefix: prefix}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// IDFromFilename strips the directory and extension from a definition file.
func IDFromFilename(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
