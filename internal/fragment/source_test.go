package fragment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
)

func TestDirSource_Load(t *testing.T) {
	fsys := fstest.MapFS{
		"fragments/head.html": {Data: []byte("<head></head>")},
	}
	src := DirSource{FS: fsys, Dir: "fragments"}

	got, err := src.Load(context.Background(), Head)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "<head></head>" {
		t.Errorf("unexpected content %q", got)
	}

	_, err = src.Load(context.Background(), Footer)
	if !errors.Is(err, ErrFragmentMissing) {
		t.Errorf("expected ErrFragmentMissing, got %v", err)
	}
}

func TestDirSource_RejectsUnknownName(t *testing.T) {
	fsys := fstest.MapFS{
		"secret.html": {Data: []byte("nope")},
	}
	src := DirSource{FS: fsys, Dir: "fragments"}
	_, err := src.Load(context.Background(), Name("../secret"))
	if !errors.Is(err, ErrFragmentMissing) {
		t.Errorf("expected ErrFragmentMissing, got %v", err)
	}
}

func TestRemoteSource_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/kv/site/fragments/head":
			json.NewEncoder(w).Encode(map[string]any{
				"key_path": "site/fragments/head",
				"value":    "<head>remote</head>",
			})
		case "/kv/site/fragments/imgbar":
			json.NewEncoder(w).Encode(map[string]any{"value": 42})
		case "/kv/site/fragments/topmenu":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	src := NewRemoteSource(srv.URL+"/", "k", "site/fragments/")
	defer src.Close()
	ctx := context.Background()

	got, err := src.Load(ctx, Head)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "<head>remote</head>" {
		t.Errorf("unexpected content %q", got)
	}

	if _, err := src.Load(ctx, Footer); !errors.Is(err, ErrFragmentMissing) {
		t.Errorf("expected ErrFragmentMissing for 404, got %v", err)
	}

	_, err = src.Load(ctx, TopMenu)
	if err == nil || errors.Is(err, ErrFragmentMissing) {
		t.Errorf("expected plain error for 500, got %v", err)
	}

	if _, err := src.Load(ctx, ImgBar); err == nil {
		t.Error("expected error for non-string value")
	}
}

func TestRemoteSource_ThroughCacheWrapsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewCache(NewRemoteSource(srv.URL, "", ""), nil)
	_, err := c.Load(context.Background(), Head)
	if !errors.Is(err, ErrFragmentMissing) {
		t.Errorf("expected cache to report ErrFragmentMissing, got %v", err)
	}
}
