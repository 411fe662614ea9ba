package compose

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/dgallion1/paramdocs/internal/fragment"
	"github.com/dgallion1/paramdocs/internal/page"
)

// Document is a fully assembled page, ready to be written to a response.
type Document struct {
	ID   string
	Body []byte
	ETag string
}

// Options controls the text the composer adds around page content.
type Options struct {
	TitlePrefix string // heading prefix, e.g. "Comet parameter: "
	IndexTitle  string // heading of the index page
	LinkSuffix  string // appended to page links on the index, e.g. ".html"
}

// IndexID is the document ID of the parameter index page.
const IndexID = page.IndexID

// Composer builds documents from cached fragments and a page store.
type Composer struct {
	fragments *fragment.Cache
	pages     page.Store
	opts      Options
}

func New(fragments *fragment.Cache, pages page.Store, opts Options) *Composer {
	if opts.IndexTitle == "" {
		opts.IndexTitle = "Parameters"
	}
	return &Composer{
		fragments: fragments,
		pages:     pages,
		opts:      opts,
	}
}

// WithLinkSuffix returns a composer sharing c's fragment cache and pages
// whose index links end in suffix.
func (c *Composer) WithLinkSuffix(suffix string) *Composer {
	cp := *c
	cp.opts.LinkSuffix = suffix
	return &cp
}

// Render assembles the document for page id. Unknown ids return a
// *page.NotFoundError and no document.
func (c *Composer) Render(ctx context.Context, id string) (*Document, error) {
	p, err := c.pages.Get(id)
	if err != nil {
		return nil, err
	}
	content, err := RenderContent(c.opts.TitlePrefix, p)
	if err != nil {
		return nil, err
	}
	return c.build(ctx, p.ID, content)
}

// RenderIndex assembles the index of all pages, sorted by id.
func (c *Composer) RenderIndex(ctx context.Context) (*Document, error) {
	content, err := renderIndexContent(c.opts.IndexTitle, c.opts.LinkSuffix, c.pages.List())
	if err != nil {
		return nil, err
	}
	return c.build(ctx, IndexID, content)
}

func (c *Composer) build(ctx context.Context, id, content string) (*Document, error) {
	f, err := c.loadFragments(ctx)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", id, err)
	}
	body := Assemble(f, content)
	return &Document{
		ID:   id,
		Body: body,
		ETag: `"` + ContentHashHex(body) + `"`,
	}, nil
}

func (c *Composer) loadFragments(ctx context.Context) (Fragments, error) {
	var f Fragments
	targets := map[fragment.Name]*string{
		fragment.Head:    &f.Head,
		fragment.TopMenu: &f.TopMenu,
		fragment.ImgBar:  &f.ImgBar,
		fragment.Footer:  &f.Footer,
	}
	for _, name := range fragment.Required {
		v, err := c.fragments.Load(ctx, name)
		if err != nil {
			return Fragments{}, err
		}
		*targets[name] = v
	}
	return f, nil
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
