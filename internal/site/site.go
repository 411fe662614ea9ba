// Package site wires configuration into a ready composer: the fragment
// source and cache, the page store and the composer options.
package site

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgallion1/paramdocs/internal/compose"
	"github.com/dgallion1/paramdocs/internal/config"
	"github.com/dgallion1/paramdocs/internal/content"
	"github.com/dgallion1/paramdocs/internal/fragment"
	"github.com/dgallion1/paramdocs/internal/page"
	"github.com/dgallion1/paramdocs/internal/parser"
)

type Site struct {
	Composer  *compose.Composer
	Pages     *page.MemoryStore
	Fragments *fragment.Cache

	remote *fragment.RemoteSource
}

// Open loads page definitions and prepares the fragment cache. When
// cfg.WarmFragments is set every fragment is loaded up front and a missing
// one fails Open.
func Open(ctx context.Context, cfg config.Config, log *slog.Logger) (*Site, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	fsys := content.FS(cfg.ContentDir)

	pages, err := parser.LoadDir(fsys, content.PageDir, parser.Options{TitlePrefix: cfg.TitlePrefix}, log)
	if err != nil {
		return nil, err
	}

	s := &Site{Pages: pages}
	var src fragment.Source = fragment.DirSource{FS: fsys, Dir: content.FragmentDir}
	if cfg.FragmentStoreURL != "" {
		s.remote = fragment.NewRemoteSource(cfg.FragmentStoreURL, cfg.FragmentStoreAPIKey, cfg.FragmentKeyPrefix)
		src = s.remote
		log.Info("using remote fragment store", "url", cfg.FragmentStoreURL, "prefix", cfg.FragmentKeyPrefix)
	}
	s.Fragments = fragment.NewCache(src, log)

	if cfg.WarmFragments {
		if err := s.Fragments.Warm(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("warm fragments: %w", err)
		}
	}

	s.Composer = compose.New(s.Fragments, pages, compose.Options{
		TitlePrefix: cfg.TitlePrefix,
		IndexTitle:  cfg.IndexTitle,
	})
	return s, nil
}

// Close releases the remote fragment client, if any.
func (s *Site) Close() {
	if s.remote != nil {
		s.remote.Close()
	}
}
