// Package export renders the whole site to a directory for static hosting.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/paramdocs/internal/compose"
	"github.com/dgallion1/paramdocs/internal/page"
	"golang.org/x/sync/errgroup"
)

// Result summarizes an export run.
type Result struct {
	Pages int
	Bytes int64
}

// Run writes <id>.html for every page in store plus index.html into outDir,
// rendering at most concurrency documents at once. The first failure cancels
// the remaining work and is returned.
func Run(ctx context.Context, c *compose.Composer, store page.Store, outDir string, concurrency int, log *slog.Logger) (Result, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create output dir: %w", err)
	}

	c = c.WithLinkSuffix(".html")
	pages := store.List()
	sizes := make([]int64, len(pages)+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, p := range pages {
		g.Go(func() error {
			doc, err := c.Render(gctx, p.ID)
			if err != nil {
				return err
			}
			n, err := writeFile(outDir, p.ID+".html", doc.Body)
			if err != nil {
				return err
			}
			sizes[i] = n
			log.Debug("exported page", "id", p.ID, "bytes", n)
			return nil
		})
	}
	g.Go(func() error {
		doc, err := c.RenderIndex(gctx)
		if err != nil {
			return err
		}
		n, err := writeFile(outDir, "index.html", doc.Body)
		if err != nil {
			return err
		}
		sizes[len(pages)] = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Pages: len(pages)}
	for _, n := range sizes {
		res.Bytes += n
	}
	log.Info("export complete", "dir", outDir, "pages", res.Pages, "bytes", res.Bytes)
	return res, nil
}

// writeFile replaces dir/name atomically via a temp file and rename.
func writeFile(dir, name string, data []byte) (int64, error) {
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return 0, fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := os.Rename(tmpPath, filepath.Join(dir, name)); err != nil {
		return 0, fmt.Errorf("rename %s: %w", name, err)
	}
	return int64(len(data)), nil
}
