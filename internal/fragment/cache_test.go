package fragment

import (
	"context"
	"errors"
	"io/fs"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// countingSource serves fixed content and counts reads per name.
type countingSource struct {
	content map[Name]string
	delay   time.Duration

	mu    sync.Mutex
	reads map[Name]int
	total atomic.Int64
}

func newCountingSource(content map[Name]string) *countingSource {
	return &countingSource{content: content, reads: make(map[Name]int)}
}

func (s *countingSource) Load(ctx context.Context, name Name) ([]byte, error) {
	s.total.Add(1)
	s.mu.Lock()
	s.reads[name]++
	s.mu.Unlock()
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	v, ok := s.content[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(v), nil
}

func (s *countingSource) readsFor(name Name) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[name]
}

func allFragments() map[Name]string {
	return map[Name]string{
		Head:    "<head><title>Comet</title></head>",
		TopMenu: "<div id=\"menu\">menu</div>",
		ImgBar:  "<div id=\"imgbar\"></div>",
		Footer:  "<div id=\"footer\">footer</div>",
	}
}

func TestCache_LoadsOnce(t *testing.T) {
	src := newCountingSource(allFragments())
	c := NewCache(src, nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		got, err := c.Load(ctx, Head)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != allFragments()[Head] {
			t.Errorf("call %d: unexpected content %q", i, got)
		}
	}
	if n := src.readsFor(Head); n != 1 {
		t.Errorf("expected 1 source read, got %d", n)
	}
	if c.Loads() != 1 {
		t.Errorf("expected Loads()=1, got %d", c.Loads())
	}
}

func TestCache_ConcurrentLoadsCollapse(t *testing.T) {
	src := newCountingSource(allFragments())
	src.delay = 20 * time.Millisecond
	c := NewCache(src, nil)
	ctx := context.Background()

	const workers = 32
	var wg sync.WaitGroup
	results := make([]string, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Load(ctx, TopMenu)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: unexpected error: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Errorf("worker %d: content differs", i)
		}
	}
	if n := src.readsFor(TopMenu); n != 1 {
		t.Errorf("expected 1 source read under concurrency, got %d", n)
	}
}

func TestCache_MissingFragment(t *testing.T) {
	content := allFragments()
	delete(content, Footer)
	src := newCountingSource(content)
	c := NewCache(src, nil)

	_, err := c.Load(context.Background(), Footer)
	if !errors.Is(err, ErrFragmentMissing) {
		t.Fatalf("expected ErrFragmentMissing, got %v", err)
	}
	var missing *FragmentMissingError
	if !errors.As(err, &missing) || missing.Name != Footer {
		t.Fatalf("expected *FragmentMissingError for footer, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected wrapped fs.ErrNotExist, got %v", err)
	}
}

func TestCache_UnknownNameNeverReachesSource(t *testing.T) {
	src := newCountingSource(allFragments())
	c := NewCache(src, nil)

	_, err := c.Load(context.Background(), Name("../secrets"))
	if !errors.Is(err, ErrFragmentMissing) {
		t.Fatalf("expected ErrFragmentMissing, got %v", err)
	}
	if src.total.Load() != 0 {
		t.Errorf("expected no source reads, got %d", src.total.Load())
	}
}

func TestCache_WarmReportsAllMissing(t *testing.T) {
	src := newCountingSource(map[Name]string{Head: "h", Footer: "f"})
	c := NewCache(src, nil)

	err := c.Warm(context.Background())
	if err == nil {
		t.Fatal("expected warm error")
	}
	if !errors.Is(err, ErrFragmentMissing) {
		t.Errorf("expected ErrFragmentMissing, got %v", err)
	}
	for _, n := range []Name{TopMenu, ImgBar} {
		if !containsName(err, n) {
			t.Errorf("expected warm error to mention %s: %v", n, err)
		}
	}
}

func TestCache_WarmThenNoMoreReads(t *testing.T) {
	src := newCountingSource(allFragments())
	c := NewCache(src, nil)
	ctx := context.Background()

	if err := c.Warm(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := src.total.Load()
	for _, n := range Required {
		if _, err := c.Load(ctx, n); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if src.total.Load() != before {
		t.Errorf("expected no reads after warm, got %d more", src.total.Load()-before)
	}
	if before != int64(len(Required)) {
		t.Errorf("expected %d reads during warm, got %d", len(Required), before)
	}
}

func containsName(err error, n Name) bool {
	var missing *FragmentMissingError
	type unwrapper interface{ Unwrap() []error }
	if u, ok := err.(unwrapper); ok {
		for _, e := range u.Unwrap() {
			if errors.As(e, &missing) && missing.Name == n {
				return true
			}
		}
	}
	return false
}

// gatedSource blocks every read until release is closed or the read's
// context ends.
type gatedSource struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	reads   atomic.Int64
}

func newGatedSource() *gatedSource {
	return &gatedSource{started: make(chan struct{}), release: make(chan struct{})}
}

func (s *gatedSource) Load(ctx context.Context, name Name) ([]byte, error) {
	s.reads.Add(1)
	s.once.Do(func() { close(s.started) })
	select {
	case <-s.release:
		return []byte("<" + string(name) + ">"), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestCache_CanceledCallerDoesNotFailOthers(t *testing.T) {
	src := newGatedSource()
	c := NewCache(src, nil)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Load(ctxA, Head)
		errA <- err
	}()
	<-src.started

	type result struct {
		v   string
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := c.Load(context.Background(), Head)
		resB <- result{v, err}
	}()

	cancelA()
	select {
	case err := <-errA:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled for the canceled caller, got %v", err)
		}
		if errors.Is(err, ErrFragmentMissing) {
			t.Fatalf("cancellation reported as missing fragment: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("canceled caller did not return")
	}

	close(src.release)
	select {
	case r := <-resB:
		if r.err != nil {
			t.Fatalf("unexpected error for live caller: %v", r.err)
		}
		if r.v != "<head>" {
			t.Errorf("unexpected content %q", r.v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("live caller did not return")
	}
	if n := src.reads.Load(); n != 1 {
		t.Errorf("expected 1 source read, got %d", n)
	}
}

func TestCache_TimeoutIsNotMissing(t *testing.T) {
	src := newGatedSource()
	c := NewCache(src, nil)
	c.LoadTimeout = 10 * time.Millisecond

	_, err := c.Load(context.Background(), Footer)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected context.DeadlineExceeded, got %v", err)
	}
	if errors.Is(err, ErrFragmentMissing) {
		t.Fatalf("timeout reported as missing fragment: %v", err)
	}

	// Not cached: the next call reads again.
	close(src.release)
	if _, err := c.Load(context.Background(), Footer); err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if n := src.reads.Load(); n != 2 {
		t.Errorf("expected 2 source reads, got %d", n)
	}
}
