package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justyntemme/shellicon/internal/config"
)

func newRootCommand() *cobra.Command {
	var flags globalFlags

	ctx := newCommandContext(&flags)

	rootCmd := &cobra.Command{
		Use:           "shellicon",
		Short:         "Resolve and export shell icons",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			applyDebugFlag(flags.debug, cmd.ErrOrStderr())
			if shouldSkipConfig(cmd) {
				return nil
			}
			if err := ctx.ensureConfig(); err != nil {
				return err
			}
			if err := ctx.config.ParseError(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: ignoring %s, using defaults: %v\n", config.ConfigPath(), err)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			if flags.metricsOut != "" {
				if err := writeMetricsFile(flags.metricsOut, ctx.metrics); err != nil {
					return err
				}
			}
			if !flags.metrics {
				return nil
			}
			return printMetrics(cmd.OutOrStdout(), ctx.metrics)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.size, "size", "s", "", "Icon size: small or large (default from config)")
	pf.BoolVar(&flags.linkOverlay, "link-overlay", false, "Draw the shortcut arrow onto icons")
	pf.BoolVar(&flags.metrics, "metrics", false, "Print lookup counters after the command")
	pf.StringVar(&flags.metricsOut, "metrics-out", "", "Write lookup counters in Prometheus text format to this file")
	pf.StringVar(&flags.debug, "debug", "", "Debug categories, e.g. ICON,CACHE or all,-FS_ENTRY (debug builds only)")

	rootCmd.AddCommand(newFileCommand(ctx))
	rootCmd.AddCommand(newFolderCommand(ctx))
	rootCmd.AddCommand(newOverlayCommand(ctx))
	rootCmd.AddCommand(newPrefetchCommand(ctx))
	rootCmd.AddCommand(newDrivesCommand())
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
