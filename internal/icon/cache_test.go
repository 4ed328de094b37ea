package icon

import (
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/justyntemme/shellicon/internal/shell/shelltest"
)

func TestExtension(t *testing.T) {
	testCases := []struct {
		path     string
		expected string
	}{
		{"report.csv", ".csv"},
		{"REPORT.CSV", ".csv"},
		{`C:\Users\me\Setup.EXE`, ".exe"},
		{"/home/me/archive.tar.gz", ".gz"},
		{".bashrc", ".bashrc"},
		{"Makefile", ""},
		{"trailing.", ""},
		{`C:\dir.d\noext`, ""},
		{"/dir.d/noext", ""},
		{"C:", ""},
		{"", ""},
	}

	for _, tc := range testCases {
		if got := Extension(tc.path); got != tc.expected {
			t.Errorf("Extension(%q): expected %q, got %q", tc.path, tc.expected, got)
		}
	}
}

func TestCacheable(t *testing.T) {
	testCases := []struct {
		ext      string
		expected bool
	}{
		{".exe", false},
		{".EXE", false},
		{".lnk", false},
		{".ico", false},
		{".Url", false},
		{".csv", true},
		{".txt", true},
		{".exe2", true},
		{"", true},
	}

	for _, tc := range testCases {
		if got := Cacheable(tc.ext); got != tc.expected {
			t.Errorf("Cacheable(%q): expected %v, got %v", tc.ext, tc.expected, got)
		}
	}
}

func TestCacheSameExtensionHit(t *testing.T) {
	fake := shelltest.New()
	fake.Add("report.csv", green)
	fake.Add("data.csv", green)
	c := NewCache(NewResolver(fake))

	first := c.FileIcon("report.csv", false, Small)
	second := c.FileIcon("data.csv", false, Small)
	if first == nil || second == nil {
		t.Fatal("expected icons for both files")
	}
	if first != second {
		t.Error("expected the cached icon to be returned for the second file")
	}
	if !first.Equal(second) {
		t.Error("expected equal icons")
	}
	if n := fake.QueriesFor("data.csv"); n != 0 {
		t.Errorf("expected no query for data.csv, got %d", n)
	}
	if n := fake.Queries(); n != 1 {
		t.Errorf("expected 1 native query, got %d", n)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 cache entry, got %d", c.Len())
	}
	if err := fake.Balanced(); err != nil {
		t.Error(err)
	}
}

func TestCacheManyCallsOneQueryPerExtension(t *testing.T) {
	fake := shelltest.New()
	paths := []string{"a.md", "b.md", "C.MD", "d.go", "e.go", "f.json"}
	for _, p := range paths {
		fake.Add(p, green)
	}
	c := NewCache(NewResolver(fake))

	for i := 0; i < 5; i++ {
		for _, p := range paths {
			if c.FileIcon(p, false, Small) == nil {
				t.Fatalf("expected icon for %s", p)
			}
		}
	}

	// .md, .go, .json
	if n := fake.Queries(); n != 3 {
		t.Errorf("expected 3 native queries, got %d", n)
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 cache entries, got %d", c.Len())
	}
	if _, ok := c.Cached(".MD", false, Small); !ok {
		t.Error("expected .md to be cached")
	}
}

func TestCacheDenylistNeverCached(t *testing.T) {
	fake := shelltest.New()
	for _, p := range []string{"launcher.exe", "Setup.EXE", "app.lnk", "favicon.ico", "site.url"} {
		fake.Add(p, blue)
	}
	c := NewCache(NewResolver(fake))

	for _, p := range []string{"launcher.exe", "Setup.EXE", "app.lnk", "favicon.ico", "site.url"} {
		a := c.FileIcon(p, false, Small)
		b := c.FileIcon(p, false, Small)
		if a == nil || b == nil {
			t.Fatalf("expected icons for %s", p)
		}
		if a == b {
			t.Errorf("%s: expected independent resolutions", p)
		}
		if n := fake.QueriesFor(p); n != 2 {
			t.Errorf("%s: expected 2 native queries, got %d", p, n)
		}
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}
	if err := fake.Balanced(); err != nil {
		t.Error(err)
	}
}

func TestCacheDoesNotStoreMissingIcons(t *testing.T) {
	fake := shelltest.New()
	c := NewCache(NewResolver(fake))

	if c.FileIcon("ghost.txt", false, Small) != nil {
		t.Error("expected nil for unresolvable file")
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d", c.Len())
	}

	fake.Add("real.txt", green)
	if c.FileIcon("real.txt", false, Small) == nil {
		t.Error("expected a later lookup to resolve and store the extension")
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", c.Len())
	}
	if n := fake.Queries(); n != 2 {
		t.Errorf("expected 2 native queries, got %d", n)
	}
}

func TestCacheVariantsAreSeparate(t *testing.T) {
	fake := shelltest.New()
	fake.Add("x.csv", green)
	c := NewCache(NewResolver(fake))

	small := c.FileIcon("x.csv", false, Small)
	large := c.FileIcon("x.csv", false, Large)
	overlay := c.FileIcon("x.csv", true, Small)
	if small == nil || large == nil || overlay == nil {
		t.Fatal("expected all variants to resolve")
	}
	if small.Width() != 16 || large.Width() != 32 {
		t.Errorf("expected 16 and 32 wide icons, got %d and %d", small.Width(), large.Width())
	}
	if small == overlay {
		t.Error("overlay variant must not share the plain entry")
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", c.Len())
	}
	if again := c.FileIcon("y.csv", false, Large); again != large {
		t.Error("expected cached large icon for another .csv file")
	}
}

func TestCacheConcurrentFirstAccess(t *testing.T) {
	const n = 32

	fake := shelltest.New()
	for i := 0; i < n; i++ {
		fake.Add(string(rune('a'+i%26))+"_"+string(rune('0'+i/26))+".log", green)
	}
	// Hold the first resolution long enough for the others to pile up.
	fake.OnQuery = func(string) { time.Sleep(20 * time.Millisecond) }
	c := NewCache(NewResolver(fake))

	start := make(chan struct{})
	results := make([]*Icon, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i] = c.FileIcon(string(rune('a'+i%26))+"_"+string(rune('0'+i/26))+".log", false, Small)
		}(i)
	}
	close(start)
	wg.Wait()

	if q := fake.Queries(); q != 1 {
		t.Errorf("expected exactly 1 native query, got %d", q)
	}
	if c.Len() != 1 {
		t.Errorf("expected 1 cache entry, got %d", c.Len())
	}
	stored, ok := c.Cached(".log", false, Small)
	if !ok {
		t.Fatal("expected .log to be cached")
	}
	for i, icon := range results {
		if icon != stored {
			t.Errorf("caller %d got %p, expected stored icon %p", i, icon, stored)
		}
	}
	if err := fake.Balanced(); err != nil {
		t.Error(err)
	}
}

func TestCacheObserver(t *testing.T) {
	fake := shelltest.New()
	fake.Add("a.txt", green)
	fake.Add("b.txt", green)
	fake.Add("run.exe", color.NRGBA{R: 0xFF, A: 0xFF})
	obs := newRecordingObserver()
	c := NewCache(NewResolver(fake), WithCacheObserver(obs))

	c.FileIcon("a.txt", false, Small)
	c.FileIcon("b.txt", false, Small)
	c.FileIcon("run.exe", false, Small)

	if obs.lookups[LookupMiss] != 1 || obs.lookups[LookupHit] != 1 || obs.lookups[LookupBypass] != 1 {
		t.Errorf("unexpected lookups %v", obs.lookups)
	}
}

func TestCacheConcurrentLookupsCountOneMiss(t *testing.T) {
	const n = 8

	fake := shelltest.New()
	for i := 0; i < n; i++ {
		fake.Add(string(rune('a'+i))+".log", green)
	}
	fake.OnQuery = func(string) { time.Sleep(20 * time.Millisecond) }
	obs := newRecordingObserver()
	c := NewCache(NewResolver(fake, WithResolverObserver(obs)), WithCacheObserver(obs))

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			c.FileIcon(string(rune('a'+i))+".log", false, Small)
		}(i)
	}
	close(start)
	wg.Wait()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	if obs.lookups[LookupMiss] != 1 {
		t.Errorf("expected exactly 1 miss, got %v", obs.lookups)
	}
	if obs.lookups[LookupMiss] != obs.outcomes[Found] {
		t.Errorf("misses (%d) should equal resolutions (%d)", obs.lookups[LookupMiss], obs.outcomes[Found])
	}
	if got := obs.lookups[LookupHit] + obs.lookups[LookupShared]; got != n-1 {
		t.Errorf("expected %d hits or shared waits, got %v", n-1, obs.lookups)
	}
}

func TestExtTableLoadResults(t *testing.T) {
	var tbl extTable
	ic := &Icon{}

	got, result := tbl.load(".txt", func() *Icon { return ic })
	if got != ic || result != LookupMiss {
		t.Errorf("first load: got %p %q, expected %p miss", got, result, ic)
	}
	got, result = tbl.load(".txt", func() *Icon {
		t.Error("resolve called for a stored extension")
		return nil
	})
	if got != ic || result != LookupHit {
		t.Errorf("second load: got %p %q, expected %p hit", got, result, ic)
	}
}
