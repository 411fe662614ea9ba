package parser

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/dgallion1/paramdocs/internal/page"
)

// LoadDir parses every supported page definition directly under dir and
// returns them as a store. The page ID is the file name without extension.
// Files with unsupported extensions are skipped.
func LoadDir(fsys fs.FS, dir string, opts Options, log *slog.Logger) (*page.MemoryStore, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read page dir %s: %w", dir, err)
	}

	var pages []*page.Page
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !IsSupportedExtension(name) {
			log.Debug("skipping unsupported page file", "file", name)
			continue
		}
		pg, err := parseFile(fsys, path.Join(dir, name), opts)
		if err != nil {
			return nil, err
		}
		pages = append(pages, pg)
	}

	store, err := page.NewMemoryStore(pages...)
	if err != nil {
		return nil, fmt.Errorf("load pages from %s: %w", dir, err)
	}
	log.Info("loaded pages", "dir", dir, "count", store.Len())
	return store, nil
}

func parseFile(fsys fs.FS, name string, opts Options) (*page.Page, error) {
	p, err := opts.ForFile(name)
	if err != nil {
		return nil, err
	}
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	pg, err := p.Parse(f, path.Base(name))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	pg.ID = IDFromFilename(name)
	return pg, nil
}
