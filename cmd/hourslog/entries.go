package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/hourslog/internal/core"
)

type entriesOptions struct {
	where  []string
	format string
}

func newEntriesCmd(root *rootOptions) *cobra.Command {
	opts := &entriesOptions{}

	cmd := &cobra.Command{
		Use:   "entries <YYYY-MM-DD-YYYY-MM-DD>",
		Short: "Print the entries of every worksheet overlapping a date range",
		Example: `  hourslog entries 2024-01-01-2024-01-31
  hourslog entries 2024-01-01-2024-01-31 --where original_url
  hourslog entries 2024-01-01-2024-01-31 --where url=https://tracker/T-12 --format table`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dateRange, err := core.ParseQueryRange(args[0])
			if err != nil {
				return err
			}
			filter, err := parseWhere(opts.where)
			if err != nil {
				return err
			}
			if opts.format != "json" && opts.format != "table" {
				return fmt.Errorf("unknown format %q (want json or table)", opts.format)
			}

			svc, err := root.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := svc.Query(cmd.Context(), core.Query{Range: dateRange, Filter: filter})
			if err != nil {
				return err
			}

			if opts.format == "table" {
				return printTable(cmd.OutOrStdout(), result.Entries)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result.Entries)
		},
	}

	cmd.Flags().StringArrayVar(&opts.where, "where", nil,
		"Filter clause: field=value for an exact match, or field alone to require a value (fields: original_url, url)")
	cmd.Flags().StringVar(&opts.format, "format", "json", "Output format (json, table)")
	return cmd
}

// parseWhere turns --where flags into a Filter, keeping their order.
func parseWhere(clauses []string) (core.Filter, error) {
	var f core.Filter
	for _, c := range clauses {
		key, value, hasValue := strings.Cut(c, "=")
		field, err := core.ParseFilterField(key)
		if err != nil {
			return core.Filter{}, err
		}
		if hasValue && strings.TrimSpace(value) == "" {
			return core.Filter{}, fmt.Errorf("--where %s: empty value", c)
		}
		f = f.Where(field, value)
	}
	return f, nil
}

func printTable(w io.Writer, entries []core.LogEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tPROJECT\tFROM\tTO\tTASK\tDESCRIPTION")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Date, deref(e.ProjectName), deref(e.FromTime), deref(e.ToTime), deref(e.TaskURL), deref(e.Description))
	}
	return tw.Flush()
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
