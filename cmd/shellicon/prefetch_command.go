package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/justyntemme/shellicon/internal/fs"
	"github.com/justyntemme/shellicon/internal/prefetch"
	"github.com/justyntemme/shellicon/internal/ui"
)

// maxImageOps bounds the image ops kept per run; a listing rarely has more
// distinct icons than this.
const maxImageOps = 1024

func newPrefetchCommand(ctx *commandContext) *cobra.Command {
	var depth, workers, displayPx int
	var hidden bool
	var filterExpr string

	cmd := &cobra.Command{
		Use:   "prefetch <dir>",
		Short: "Warm the icon cache for a directory listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := ctx.size()
			if err != nil {
				return err
			}
			filter, err := fs.ParseFilter(filterExpr)
			if err != nil {
				return fmt.Errorf("filter: %w", err)
			}
			cfg := ctx.config.Get()
			if workers <= 0 {
				workers = ctx.config.Workers()
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			start := time.Now()
			entries, err := fs.List(runCtx, args[0], fs.ListOptions{
				Depth:  depth,
				Follow: cfg.Prefetch.FollowSymlinks,
				Hidden: hidden,
			})
			if err != nil {
				return fmt.Errorf("list %s: %w", args[0], err)
			}
			entries = filter.Apply(entries)

			var bytes int64
			for _, e := range entries {
				if !e.IsDir {
					bytes += e.Size
				}
			}

			p := prefetch.New(ctx.cache, prefetch.Options{
				Size:        size,
				LinkOverlay: ctx.linkOverlay(),
				Workers:     workers,
				Ops:         ui.NewIconOps(maxImageOps),
				DisplayPx:   displayPx,
			})
			res, runErr := p.Run(runCtx, entries)
			elapsed := time.Since(start)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Directory", "Files", "Folders", "Resolved", "Missing", "Cached", "Image ops", "Listed", "Took"},
				[][]string{{
					args[0],
					strconv.Itoa(res.Files),
					strconv.Itoa(res.Folders),
					strconv.Itoa(res.Resolved),
					strconv.Itoa(res.Missing),
					strconv.Itoa(ctx.cache.Len()),
					strconv.Itoa(res.Ops),
					humanize.Bytes(uint64(bytes)),
					elapsed.Round(time.Millisecond).String(),
				}},
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
			))

			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&depth, "depth", "d", 1, "Directory levels to include")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent resolutions (default from config)")
	cmd.Flags().IntVar(&displayPx, "display-px", 0, "Size of the image ops built for resolved icons (0 = icon size)")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Include dotfiles")
	cmd.Flags().StringVarP(&filterExpr, "filter", "f", "", `Only prefetch matching entries, e.g. "ext:csv size:>1MB kind:file"`)
	return cmd
}
