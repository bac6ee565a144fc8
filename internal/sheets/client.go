// Package sheets reads worksheets from a Google Sheets spreadsheet. Its
// Client satisfies core.Gateway.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Client reads one spreadsheet.
type Client struct {
	service       *sheets.Service
	spreadsheetID string
}

// New connects to the spreadsheet identified by spreadsheet, which may be
// the bare key or a docs.google.com URL. opts typically carries credentials
// (see CredentialsOption).
func New(ctx context.Context, spreadsheet string, opts ...option.ClientOption) (*Client, error) {
	id, err := SpreadsheetID(spreadsheet)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets client: %w", err)
	}

	return &Client{service: service, spreadsheetID: id}, nil
}

// SpreadsheetID returns the key the client reads.
func (c *Client) SpreadsheetID() string {
	return c.spreadsheetID
}

// WorksheetNames lists worksheet titles in tab order.
func (c *Client) WorksheetNames(ctx context.Context) ([]string, error) {
	spreadsheet, err := c.service.Spreadsheets.Get(c.spreadsheetID).
		Fields(googleapi.Field("sheets.properties.title")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, describe(err, "fetch spreadsheet")
	}

	names := make([]string, 0, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties == nil {
			continue
		}
		names = append(names, sheet.Properties.Title)
	}
	return names, nil
}

// Rows returns every populated row of worksheet as text. Rows keep their
// ragged shape: trailing empty cells are not padded.
func (c *Client) Rows(ctx context.Context, worksheet string) ([][]string, error) {
	response, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, A1Range(worksheet)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, describe(err, "fetch worksheet")
	}

	rows := make([][]string, len(response.Values))
	for i, row := range response.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellText(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

// A1Range quotes a worksheet title for use as a whole-sheet range. Single
// quotes inside the title are doubled.
func A1Range(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
}

func cellText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// describe keeps the API status code in the message without leaking the
// response body.
func describe(err error, what string) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: sheets api status %d: %w", what, apiErr.Code, err)
	}
	return fmt.Errorf("%s: %w", what, err)
}
