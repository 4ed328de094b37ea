package prefetch

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/justyntemme/shellicon/internal/fs"
	"github.com/justyntemme/shellicon/internal/icon"
	"github.com/justyntemme/shellicon/internal/shell/shelltest"
	"github.com/justyntemme/shellicon/internal/ui"
)

var blue = color.NRGBA{B: 0xff, A: 0xff}

func newCache(f *shelltest.Fake) *icon.Cache {
	return icon.NewCache(icon.NewResolver(f))
}

func TestRunCountsAndCaches(t *testing.T) {
	f := shelltest.New()
	f.Add(`C:\data\a.csv`, blue)
	f.Add(`C:\data\sub`, blue)

	entries := []fs.Entry{
		{Name: "a.csv", Path: `C:\data\a.csv`},
		{Name: "b.csv", Path: `C:\data\b.csv`},
		{Name: "c.CSV", Path: `C:\data\c.CSV`},
		{Name: "sub", Path: `C:\data\sub`, IsDir: true},
		{Name: "missing", Path: `C:\data\missing`, IsDir: true},
		{Name: "tool.exe", Path: `C:\data\tool.exe`},
	}

	c := newCache(f)
	res, err := New(c, Options{Size: icon.Small, Workers: 1}).Run(context.Background(), entries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Files != 4 || res.Folders != 2 {
		t.Errorf("expected 4 files and 2 folders, got %+v", res)
	}
	// With one worker a.csv is resolved first and every .csv shares it.
	if res.Resolved != 4 || res.Missing != 2 {
		t.Errorf("expected 4 resolved and 2 missing, got %+v", res)
	}
	if got := f.QueriesFor(`C:\data\b.csv`); got != 0 {
		t.Errorf("b.csv should come from the cache, got %d queries", got)
	}
	if _, ok := c.Cached(".csv", false, icon.Small); !ok {
		t.Error(".csv not cached after prefetch")
	}
	if err := f.Balanced(); err != nil {
		t.Error(err)
	}
}

func TestRunParallelQueriesOncePerExtension(t *testing.T) {
	f := shelltest.New()
	var entries []fs.Entry
	for i := 0; i < 64; i++ {
		p := filepath.Join("data", "file"+string(rune('a'+i%26))+".txt")
		f.Add(p, blue)
		entries = append(entries, fs.Entry{Name: filepath.Base(p), Path: p})
	}

	res, err := New(newCache(f), Options{Workers: 8}).Run(context.Background(), entries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Resolved != 64 {
		t.Errorf("expected 64 resolved, got %+v", res)
	}
	if f.Queries() != 1 {
		t.Errorf("expected one native query for .txt, got %d", f.Queries())
	}
	if err := f.Balanced(); err != nil {
		t.Error(err)
	}
}

func TestRunCancelled(t *testing.T) {
	f := shelltest.New()
	ctx, cancel := context.WithCancel(context.Background())

	var n atomic.Int32
	f.OnQuery = func(string) {
		if n.Add(1) == 1 {
			cancel()
		}
	}

	var entries []fs.Entry
	for i := 0; i < 50; i++ {
		entries = append(entries, fs.Entry{Name: "tool.exe", Path: `C:\bin\tool.exe`})
	}

	res, err := New(newCache(f), Options{Workers: 1}).Run(ctx, entries)
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if res.Files >= len(entries) {
		t.Errorf("expected the run to stop early, got %+v", res)
	}
	if err := f.Balanced(); err != nil {
		t.Error(err)
	}
}

func TestDir(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"one.md", "two.md"} {
		if err := os.WriteFile(filepath.Join(root, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	f := shelltest.New()
	f.Add(filepath.Join(root, "one.md"), blue)

	// one.md sorts first, so it is the sample for .md.
	res, err := New(newCache(f), Options{Workers: 1}).Dir(context.Background(), root, fs.ListOptions{})
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if res.Files != 2 || res.Folders != 1 {
		t.Errorf("unexpected counts %+v", res)
	}
	if res.Missing != 1 {
		t.Errorf("only the unregistered folder should be missing, got %+v", res)
	}
}

func TestRunBuildsImageOps(t *testing.T) {
	f := shelltest.New()
	f.Add(`C:\data\a.csv`, blue)
	f.Add(`C:\data\sub`, blue)

	entries := []fs.Entry{
		{Name: "a.csv", Path: `C:\data\a.csv`},
		{Name: "b.csv", Path: `C:\data\b.csv`},
		{Name: "sub", Path: `C:\data\sub`, IsDir: true},
		{Name: "gone", Path: `C:\data\gone`, IsDir: true},
	}

	ops := ui.NewIconOps(16)
	c := newCache(f)
	res, err := New(c, Options{Workers: 1, Ops: ops, DisplayPx: 24}).Run(context.Background(), entries)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// a.csv and b.csv share one cached icon; the folder has its own.
	if res.Ops != 2 || ops.Len() != 2 {
		t.Errorf("expected 2 image ops, got result %d, cache %d", res.Ops, ops.Len())
	}
	stored, ok := c.Cached(".csv", false, icon.Small)
	if !ok {
		t.Fatal(".csv not cached")
	}
	if _, size, _ := ops.Op(stored, 24); size.X != 24 || size.Y != 24 {
		t.Errorf("expected ops scaled to 24px, got %v", size)
	}
	if ops.Len() != 2 {
		t.Errorf("looking up a prefetched op should not add one, got %d", ops.Len())
	}
}
