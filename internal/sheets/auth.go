package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/JonMunkholm/hourslog/internal/config"
)

// ErrInvalidSpreadsheet is returned for an empty key or a URL that does not
// point at a spreadsheet.
var ErrInvalidSpreadsheet = errors.New("invalid spreadsheet id")

var spreadsheetURL = regexp.MustCompile(`^https://docs\.google\.com/spreadsheets/d/([^/?#]+)`)

// SpreadsheetID accepts a spreadsheet key or a URL such as
// https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/edit
// and returns the key.
func SpreadsheetID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidSpreadsheet
	}

	if strings.Contains(s, "://") {
		m := spreadsheetURL.FindStringSubmatch(s)
		if m == nil {
			return "", fmt.Errorf("%w: expected https://docs.google.com/spreadsheets/d/<key>, got %q", ErrInvalidSpreadsheet, s)
		}
		return m[1], nil
	}

	if strings.ContainsAny(s, "/?# ") {
		return "", fmt.Errorf("%w: %q", ErrInvalidSpreadsheet, s)
	}
	return s, nil
}

// CredentialsOption loads a service-account key with read-only spreadsheet
// scope. inline JSON wins over file. Keys of any other type (user OAuth
// clients, external accounts) are rejected.
func CredentialsOption(ctx context.Context, file, inline string) (option.ClientOption, error) {
	data := []byte(inline)
	if strings.TrimSpace(inline) == "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("unable to read credentials file %s: %w", file, err)
		}
		data = b
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}
	return option.WithTokenSource(jwtConfig.TokenSource(ctx)), nil
}

// Open builds a Client from configuration, loading its credentials first.
func Open(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	creds, err := CredentialsOption(ctx, cfg.CredentialsFile, cfg.CredentialsJSON)
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg.SpreadsheetID, creds)
}
