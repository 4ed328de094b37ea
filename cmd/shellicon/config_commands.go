package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justyntemme/shellicon/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Configuration utilities",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	configCmd.AddCommand(newConfigInitCommand(ctx))
	configCmd.AddCommand(newConfigPathCommand())
	configCmd.AddCommand(newConfigSetCommand(ctx))

	return configCmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file, backing up any existing one",
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := ctx.config.GenerateConfig()
			if err != nil {
				return fmt.Errorf("generate config: %w", err)
			}

			out := cmd.OutOrStdout()
			if backup != "" {
				fmt.Fprintf(out, "Backed up previous configuration to %s\n", backup)
			}
			fmt.Fprintf(out, "Wrote default configuration to %s\n", config.ConfigPath())
			return nil
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigPath())
			return nil
		},
	}
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: "Keys: icons.size (small|large), icons.linkOverlay (true|false),\n" +
			"prefetch.workers (0 = number of CPUs), export.format (png|ico).",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := ctx.config
			if err := m.Load(); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := m.ParseError(); err != nil {
				return fmt.Errorf("%s is invalid (%v); fix it or run `shellicon config init`", config.ConfigPath(), err)
			}

			key, value := args[0], strings.TrimSpace(args[1])
			var err error
			switch strings.ToLower(key) {
			case "icons.size":
				err = m.SetIconSize(strings.ToLower(value))
			case "icons.linkoverlay":
				var on bool
				if on, err = strconv.ParseBool(value); err == nil {
					err = m.SetLinkOverlay(on)
				}
			case "prefetch.workers":
				var n int
				if n, err = strconv.Atoi(value); err == nil {
					err = m.SetWorkers(n)
				}
			case "export.format":
				err = m.SetExportFormat(strings.ToLower(value))
			default:
				return fmt.Errorf("unknown key %q", key)
			}
			if err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s in %s\n", key, value, config.ConfigPath())
			return nil
		},
	}
}
