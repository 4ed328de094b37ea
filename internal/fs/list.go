// Package fs lists directories and drives whose icons get resolved.
package fs

import (
	"context"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"

	"github.com/justyntemme/shellicon/internal/debug"
)

// Entry is one listed file or directory.
type Entry struct {
	Name    string
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// ListOptions controls List.
type ListOptions struct {
	// Depth is how many levels below root to include; values below 1 mean 1
	// (direct children only).
	Depth int
	// Follow resolves symlinks to their targets.
	Follow bool
	// Hidden includes dotfiles.
	Hidden bool
}

// skipDirRoots are top-level Unix directories never descended into.
var skipDirRoots = map[string]bool{
	"dev":        true,
	"proc":       true,
	"sys":        true,
	"run":        true,
	"snap":       true,
	"boot":       true,
	"lost+found": true,
}

// shouldSkipPath reports whether path lives under one of skipDirRoots.
func shouldSkipPath(path string) bool {
	if len(path) < 2 || path[0] != '/' {
		return false
	}
	rest := path[1:]
	if i := strings.IndexByte(rest, '/'); i != -1 {
		rest = rest[:i]
	}
	return skipDirRoots[rest]
}

// depthOf returns how many levels rel is below the walk root.
func depthOf(rel string) int {
	if rel == "" {
		return 0
	}
	return strings.Count(rel, "/") + strings.Count(rel, "\\") + 1
}

// List returns the entries under root up to opts.Depth levels deep, sorted
// by path. Unreadable entries are skipped. The walk stops early with
// ctx.Err() when ctx is cancelled.
func List(ctx context.Context, root string, opts ListOptions) ([]Entry, error) {
	depth := opts.Depth
	if depth < 1 {
		depth = 1
	}
	debug.Log(debug.FS, "List: root=%q depth=%d follow=%v", root, depth, opts.Follow)

	var result []Entry
	var mu sync.Mutex

	conf := &fastwalk.Config{Follow: opts.Follow}
	rootLen := len(root)

	err := fastwalk.Walk(conf, root, func(fullPath string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			debug.Log(debug.FS_ENTRY, "List: walk error at %q: %v", fullPath, err)
			return nil
		}
		if fullPath == root {
			return nil
		}

		relStart := rootLen
		if relStart < len(fullPath) && (fullPath[relStart] == '/' || fullPath[relStart] == '\\') {
			relStart++
		}
		level := depthOf(fullPath[relStart:])

		if level > depth {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		if !opts.Hidden && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fastwalk.SkipDir
			}
			return nil
		}
		if d.IsDir() && shouldSkipPath(fullPath) {
			return fastwalk.SkipDir
		}

		info, err := fastwalk.StatDirEntry(fullPath, d)
		if err != nil {
			// broken symlink
			info, err = os.Lstat(fullPath)
			if err != nil {
				debug.Log(debug.FS_ENTRY, "List: skipping %q: %v", fullPath, err)
				return nil
			}
		}

		mu.Lock()
		result = append(result, Entry{
			Name:    d.Name(),
			Path:    fullPath,
			IsDir:   info.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		mu.Unlock()
		if debug.IsEnabled(debug.FS_ENTRY) {
			debug.Log(debug.FS_ENTRY, "List: %q dir=%v size=%d level=%d", fullPath, info.IsDir(), info.Size(), level)
		}

		if d.IsDir() && level == depth {
			return fastwalk.SkipDir
		}
		return nil
	})
	if err != nil {
		debug.Log(debug.FS, "List: %q: %v", root, err)
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	debug.Log(debug.FS, "List: %q: %d entries", root, len(result))
	return result, nil
}
