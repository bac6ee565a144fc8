package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/hourslog/internal/core"
)

func newSheetsCmd(opts *rootOptions) *cobra.Command {
	var dated bool

	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "List worksheet titles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			names, err := svc.ListWorksheets(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range names {
				if !dated {
					fmt.Fprintln(out, name)
					continue
				}
				if r, ok := core.ParseWorksheetRange(name); ok {
					fmt.Fprintf(out, "%s\t%s\n", name, r)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dated, "dated", false, "Only show worksheets with a date range, followed by the parsed range")
	return cmd
}
