// Command hourslog queries the hours-log spreadsheet from a terminal, using
// the same configuration and selection rules as the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/hourslog/internal/config"
	"github.com/JonMunkholm/hourslog/internal/core"
	"github.com/JonMunkholm/hourslog/internal/sheets"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	if err := newRootCmd(openGateway).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openGateway loads configuration and connects to the spreadsheet.
func openGateway(ctx context.Context) (core.Gateway, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	client, err := sheets.Open(ctx, cfg.Sheets)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}
