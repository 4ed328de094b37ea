package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/justyntemme/shellicon/internal/fs"
)

func newDrivesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "drives",
		Short:       "List drive roots",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			drives := fs.ListDrives()
			rows := make([][]string, 0, len(drives))
			for _, d := range drives {
				rows = append(rows, []string{d.Name, d.Path, d.Kind})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out, []string{"Name", "Path", "Kind"}, rows, nil))
			return nil
		},
	}
}
