package parser

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/dgallion1/paramdocs/internal/page"
)

func TestLoadDir_MixedFormats(t *testing.T) {
	fsys := fstest.MapFS{
		"pages/add_T_threonine.yaml": {Data: []byte("title: add_T_threonine\ndefault: \"0.0\"\n")},
		"pages/add_S_serine.md":      {Data: []byte("# add_S_serine\n\n- Specify a static modification to the residue S.\n")},
		"pages/add_C_cysteine.php":   {Data: []byte("<h2>Comet parameter: add_C_cysteine</h2><ul><li>C</ul>")},
		"pages/README.txt":           {Data: []byte("ignored")},
		"pages/nested/skip.yaml":     {Data: []byte("title: nested\n")},
	}

	store, err := LoadDir(fsys, "pages", Options{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 pages, got %d", store.Len())
	}
	for _, id := range []string{"add_T_threonine", "add_S_serine", "add_C_cysteine"} {
		pg, err := store.Get(id)
		if err != nil {
			t.Errorf("Get(%q): %v", id, err)
			continue
		}
		if pg.ID != id || pg.Title != id {
			t.Errorf("Get(%q): unexpected page %+v", id, pg)
		}
	}
	if _, err := store.Get("README"); !errors.Is(err, page.ErrNotFound) {
		t.Errorf("expected README to be skipped, got %v", err)
	}
}

func TestLoadDir_TitleDefaultsToFileName(t *testing.T) {
	fsys := fstest.MapFS{
		"p/num_threads.yaml": {Data: []byte("default: \"0\"\n")},
	}
	store, err := LoadDir(fsys, "p", Options{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pg, err := store.Get("num_threads")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pg.Title != "num_threads" {
		t.Errorf("expected title from file name, got %q", pg.Title)
	}
}

func TestLoadDir_DuplicateIDs(t *testing.T) {
	fsys := fstest.MapFS{
		"p/x.yaml": {Data: []byte("title: x\n")},
		"p/x.md":   {Data: []byte("# x\n")},
	}
	if _, err := LoadDir(fsys, "p", Options{}, nil); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestLoadDir_ParseErrorNamesFile(t *testing.T) {
	fsys := fstest.MapFS{
		"p/bad.yaml": {Data: []byte("title: [unclosed\n")},
	}
	_, err := LoadDir(fsys, "p", Options{}, nil)
	if err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadDir_MissingDir(t *testing.T) {
	if _, err := LoadDir(fstest.MapFS{}, "nope", Options{}, nil); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"a.yaml", false},
		{"a.YML", false},
		{"a.md", false},
		{"a.php", false},
		{"a.htm", false},
		{"a.pdf", true},
		{"a", true},
	}
	for _, tt := range tests {
		_, err := ForFile(tt.filename)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q): err=%v, wantErr=%v", tt.filename, err, tt.wantErr)
		}
		if IsSupportedExtension(tt.filename) == tt.wantErr {
			t.Errorf("IsSupportedExtension(%q) mismatch", tt.filename)
		}
	}
}

func TestIDFromFilename(t *testing.T) {
	if got := IDFromFilename("pages/add_T_threonine.yaml"); got != "add_T_threonine" {
		t.Errorf("unexpected id %q", got)
	}
}

func TestLoadDir_ConfiguredTitlePrefix(t *testing.T) {
	fsys := fstest.MapFS{
		"p/add_C_cysteine.php": {Data: []byte("<h2>Crux option: add_C_cysteine</h2><ul><li>C</ul>")},
	}

	store, err := LoadDir(fsys, "p", Options{TitlePrefix: "Crux option: "}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pg, err := store.Get("add_C_cysteine")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pg.Title != "add_C_cysteine" {
		t.Errorf("expected configured prefix stripped, got title %q", pg.Title)
	}
}
