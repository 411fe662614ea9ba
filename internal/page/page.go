package page

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"
)

// Page is the documentation entry for one configuration parameter.
type Page struct {
	ID          string    `json:"id" yaml:"-"`
	Title       string    `json:"title" yaml:"title"`
	Description []string  `json:"description" yaml:"description"`
	Default     string    `json:"default" yaml:"default"`
	Examples    []Example `json:"examples" yaml:"examples"`
}

// Example is one literal usage line with an optional explanation.
type Example struct {
	Command string `json:"command" yaml:"command"`
	Note    string `json:"note,omitempty" yaml:"note,omitempty"`
}

// ErrNotFound is matched by every NotFoundError.
var ErrNotFound = errors.New("page not found")

// NotFoundError reports a page identifier with no definition.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("page %q not found", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// IndexID names the generated parameter index. No page may use it, in any
// letter case, since exports write both as <id>.html.
const IndexID = "index"

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// ValidID reports whether id is usable as a page identifier. Identifiers are
// case sensitive (add_T_threonine and add_t_threonine are different pages)
// and never contain path separators.
func ValidID(id string) bool {
	if len(id) == 0 || len(id) > 100 {
		return false
	}
	if strings.Contains(id, "..") {
		return false
	}
	return idPattern.MatchString(id)
}

// Normalize fills derived fields and trims whitespace from every text field.
func (p *Page) Normalize() {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		p.Title = p.ID
	}
	p.Default = strings.TrimSpace(p.Default)

	desc := p.Description[:0]
	for _, d := range p.Description {
		d = collapseSpace(d)
		if d != "" {
			desc = append(desc, d)
		}
	}
	p.Description = desc

	examples := p.Examples[:0]
	for _, ex := range p.Examples {
		ex.Command = strings.TrimSpace(ex.Command)
		ex.Note = collapseSpace(ex.Note)
		if ex.Command != "" {
			examples = append(examples, ex)
		}
	}
	p.Examples = examples
}

// Validate checks the invariants every stored page must hold.
func (p *Page) Validate() error {
	if !ValidID(p.ID) {
		return fmt.Errorf("invalid page id %q", p.ID)
	}
	if strings.EqualFold(p.ID, IndexID) {
		return fmt.Errorf("page id %q is reserved for the index", p.ID)
	}
	if p.Title == "" {
		return fmt.Errorf("page %s: title is required", p.ID)
	}
	return nil
}

// Clone returns a deep copy of p.
func (p *Page) Clone() *Page {
	c := *p
	c.Description = slices.Clone(p.Description)
	c.Examples = slices.Clone(p.Examples)
	return &c
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Store resolves page identifiers to definitions.
type Store interface {
	Get(id string) (*Page, error)
	List() []*Page
}

// MemoryStore is an immutable, in-memory Store. It is safe for concurrent
// use once constructed. It keeps its own copies of the pages it is given and
// hands out copies, so callers may modify what they receive.
type MemoryStore struct {
	pages map[string]*Page
	order []*Page
}

// NewMemoryStore normalizes and validates pages and indexes them by ID.
func NewMemoryStore(pages ...*Page) (*MemoryStore, error) {
	s := &MemoryStore{pages: make(map[string]*Page, len(pages))}
	for _, p := range pages {
		if p == nil {
			continue
		}
		p = p.Clone()
		p.Normalize()
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := s.pages[p.ID]; dup {
			return nil, fmt.Errorf("duplicate page id %q", p.ID)
		}
		s.pages[p.ID] = p
		s.order = append(s.order, p)
	}
	sort.Slice(s.order, func(i, j int) bool { return s.order[i].ID < s.order[j].ID })
	return s, nil
}

// Get returns the page for id, or a *NotFoundError.
func (s *MemoryStore) Get(id string) (*Page, error) {
	if !ValidID(id) {
		return nil, &NotFoundError{ID: id}
	}
	p, ok := s.pages[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return p.Clone(), nil
}

// List returns all pages sorted by ID.
func (s *MemoryStore) List() []*Page {
	out := make([]*Page, len(s.order))
	for i, p := range s.order {
		out[i] = p.Clone()
	}
	return out
}

// Len returns the number of pages.
func (s *MemoryStore) Len() int {
	return len(s.order)
}
