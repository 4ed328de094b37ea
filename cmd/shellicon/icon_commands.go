package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/justyntemme/shellicon/internal/debug"
	"github.com/justyntemme/shellicon/internal/icon"
)

func newFileCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "file <path>...",
		Short: "Resolve file icons through the extension cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath != "" && len(args) != 1 {
				return errors.New("--out needs exactly one path")
			}
			size, err := ctx.size()
			if err != nil {
				return err
			}
			overlay := ctx.linkOverlay()

			rows := make([][]string, 0, len(args))
			var last *icon.Icon
			for _, path := range args {
				ext := icon.Extension(path)
				ic := ctx.cache.FileIcon(path, overlay, size)
				debug.Log(debug.CLI, "file %q -> %s", path, dimensions(ic))
				rows = append(rows, []string{path, displayExt(ext), yesNo(icon.Cacheable(ext)), dimensions(ic)})
				last = ic
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Path", "Extension", "Cacheable", "Icon"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))

			if outPath == "" {
				return nil
			}
			if last == nil {
				return fmt.Errorf("no icon for %s", args[0])
			}
			return export(ctx, cmd, outPath, last)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the icon to this file (.png or .ico)")
	return cmd
}

func newFolderCommand(ctx *commandContext) *cobra.Command {
	var outPath string
	var open bool

	cmd := &cobra.Command{
		Use:   "folder <path>",
		Short: "Resolve the open or closed icon of a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := ctx.size()
			if err != nil {
				return err
			}
			state := icon.Closed
			if open {
				state = icon.Open
			}

			path := args[0]
			ic := ctx.cache.Resolver().FolderIcon(path, state, ctx.linkOverlay(), size)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Path", "State", "Icon"},
				[][]string{{path, state.String(), dimensions(ic)}},
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))

			if ic == nil {
				return fmt.Errorf("no icon for %s", path)
			}
			if outPath == "" {
				return nil
			}
			return export(ctx, cmd, outPath, ic)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the icon to this file (.png or .ico)")
	cmd.Flags().BoolVar(&open, "open", false, "Resolve the open-folder icon")
	return cmd
}

func newOverlayCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "overlay <base> <badge>",
		Short: "Draw a badge icon over a file icon",
		Long: "Resolves the icon of <base> and draws <badge> over it. A .png badge is read\n" +
			"from disk; any other badge path is resolved through the shell.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := ctx.size()
			if err != nil {
				return err
			}

			base := ctx.cache.FileIcon(args[0], ctx.linkOverlay(), size)
			if base == nil {
				return fmt.Errorf("no icon for %s", args[0])
			}

			var badge *icon.Icon
			if strings.EqualFold(icon.Extension(args[1]), ".png") {
				badge, err = readPNG(args[1])
				if err != nil {
					return err
				}
			} else {
				badge = ctx.cache.FileIcon(args[1], false, size)
				if badge == nil {
					return fmt.Errorf("no icon for %s", args[1])
				}
			}

			return export(ctx, cmd, outPath, icon.Compose(base, badge))
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the composed icon to this file (.png or .ico)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func export(ctx *commandContext, cmd *cobra.Command, outPath string, ic *icon.Icon) error {
	format, err := exportFormat(outPath, ctx.config.ExportFormat())
	if err != nil {
		return err
	}
	n, err := writeIcon(outPath, ic, format)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s %s (%s)\n", format, outPath, humanize.Bytes(uint64(n)))
	return nil
}

func displayExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return ext
}
