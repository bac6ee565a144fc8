package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDateRange is returned for a query range that is not two ISO
	// dates joined by a hyphen.
	ErrInvalidDateRange = errors.New("invalid date range format")

	// ErrNoWorksheets is returned when no dated worksheet overlaps the query.
	ErrNoWorksheets = errors.New("no sheets found")

	// ErrUnknownFilterField is returned for a filter key other than
	// original_url or url.
	ErrUnknownFilterField = errors.New("unknown filter field")
)

// Gateway operations, as recorded in GatewayError.Op.
const (
	OpListWorksheets = "list worksheets"
	OpFetchRows      = "fetch rows"
)

// GatewayError wraps a failure reported by the spreadsheet gateway.
type GatewayError struct {
	Op        string
	Worksheet string // empty for OpListWorksheets
	Err       error
}

func (e *GatewayError) Error() string {
	if e.Worksheet == "" {
		return fmt.Sprintf("gateway: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("gateway: %s %q: %v", e.Op, e.Worksheet, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsGatewayError reports whether err is, or wraps, a *GatewayError.
func IsGatewayError(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}
