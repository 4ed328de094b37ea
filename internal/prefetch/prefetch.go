// Package prefetch warms the icon cache for a directory listing.
package prefetch

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/shellicon/internal/debug"
	"github.com/justyntemme/shellicon/internal/fs"
	"github.com/justyntemme/shellicon/internal/icon"
	"github.com/justyntemme/shellicon/internal/ui"
)

// Options controls a prefetch run.
type Options struct {
	Size        icon.Size
	LinkOverlay bool
	// Workers bounds concurrent resolutions; values below 1 mean NumCPU.
	Workers int
	// Ops, if set, also receives a paint.ImageOp for every resolved icon at
	// DisplayPx (0 keeps the icon's own size), so a file list can draw the
	// listing without building ops on the frame path.
	Ops       *ui.IconOps
	DisplayPx int
}

// Result counts what a run resolved.
type Result struct {
	Files    int
	Folders  int
	Resolved int
	Missing  int
	Ops      int // image ops held by Options.Ops after the run
}

// Prefetcher resolves icons for listed entries. Files go through the cache
// so each extension is resolved once; folders are resolved directly.
type Prefetcher struct {
	cache *icon.Cache
	opts  Options
}

// New returns a Prefetcher using c.
func New(c *icon.Cache, opts Options) *Prefetcher {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	return &Prefetcher{cache: c, opts: opts}
}

// Run resolves an icon for every entry. Cancellation is checked between
// resolutions; a native call already in flight runs to completion. Run
// returns the counts so far together with ctx.Err() when cancelled.
func (p *Prefetcher) Run(ctx context.Context, entries []fs.Entry) (Result, error) {
	var files, folders, resolved, missing atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)

	for _, e := range entries {
		if gctx.Err() != nil {
			break
		}
		e := e
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			var ic *icon.Icon
			if e.IsDir {
				folders.Add(1)
				ic = p.cache.Resolver().FolderIcon(e.Path, icon.Closed, p.opts.LinkOverlay, p.opts.Size)
			} else {
				files.Add(1)
				ic = p.cache.FileIcon(e.Path, p.opts.LinkOverlay, p.opts.Size)
			}
			if ic == nil {
				missing.Add(1)
				debug.Log(debug.PREFETCH, "no icon for %q", e.Path)
			} else {
				resolved.Add(1)
				if p.opts.Ops != nil {
					p.opts.Ops.Op(ic, p.opts.DisplayPx)
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	res := Result{
		Files:    int(files.Load()),
		Folders:  int(folders.Load()),
		Resolved: int(resolved.Load()),
		Missing:  int(missing.Load()),
	}
	if p.opts.Ops != nil {
		res.Ops = p.opts.Ops.Len()
	}
	debug.Log(debug.PREFETCH, "run: %d entries, %+v, err=%v", len(entries), res, err)
	return res, err
}

// Dir lists root with opts and prefetches the result.
func (p *Prefetcher) Dir(ctx context.Context, root string, opts fs.ListOptions) (Result, error) {
	entries, err := fs.List(ctx, root, opts)
	if err != nil {
		return Result{}, err
	}
	return p.Run(ctx, entries)
}
