package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/hourslog/internal/config"
	"github.com/JonMunkholm/hourslog/internal/core"
	"github.com/JonMunkholm/hourslog/internal/logging"
)

// opener returns the gateway a command reads from and the configuration it
// was built with.
type opener func(ctx context.Context) (core.Gateway, *config.Config, error)

type rootOptions struct {
	open     opener
	logLevel string
}

func newRootCmd(open opener) *cobra.Command {
	opts := &rootOptions{open: open}

	root := &cobra.Command{
		Use:   "hourslog",
		Short: "Query the hours-log spreadsheet",
		Long: `hourslog reads time-tracking entries from the dated worksheets of the
spreadsheet named by SPREADSHEET_ID. Worksheets are chosen by the
D/M - D/M/YYYY range in their titles.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(opts.logLevel, "text")
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "Log level (debug, info, warn, error)")

	root.AddCommand(newSheetsCmd(opts))
	root.AddCommand(newEntriesCmd(opts))
	return root
}

// service opens the gateway and wraps it the way the server does.
func (o *rootOptions) service(ctx context.Context) (*core.Service, error) {
	gw, cfg, err := o.open(ctx)
	if err != nil {
		return nil, err
	}
	return core.NewService(gw, core.ServiceConfig{
		MaxConcurrentFetches: cfg.Sheets.MaxConcurrent,
		FetchWait:            cfg.Sheets.MaxWait,
		FetchTimeout:         cfg.Sheets.FetchTimeout,
	}), nil
}
