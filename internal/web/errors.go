package web

// errors.go owns the response contract. Every body carries a status string;
// failures never expose error text to the client; the technical error is
// logged once here with the request id.

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/hourslog/internal/core"
	"github.com/JonMunkholm/hourslog/internal/logging"
)

// Status strings returned to clients.
const (
	statusSuccess          = "success"
	statusError            = "error"
	statusInvalidDateRange = "invalid date range format"
	statusNoSheets         = "no sheets found"
	statusInvalidBody      = "invalid request body"
	statusRateLimited      = "rate limit exceeded"
	statusTimeout          = "request timed out"
	statusBusy             = "spreadsheet busy"
)

// errInvalidBody marks a request body that is not the expected JSON object.
var errInvalidBody = errors.New("invalid request body")

// noEntries is encoded as [] rather than null.
var noEntries = []core.LogEntry{}

// entriesResponse is the success body of every hours-log route.
type entriesResponse struct {
	Total  int             `json:"total"`
	Status string          `json:"status"`
	Data   []core.LogEntry `json:"data"`
}

// statusResponse is the failure body of every hours-log route.
type statusResponse struct {
	Data   []core.LogEntry `json:"data"`
	Status string          `json:"status"`
}

// sheetsResponse is the body of /list-sheets.
type sheetsResponse struct {
	Sheets []string `json:"sheets"`
	Status string   `json:"status"`
}

// classify maps an error to its HTTP status and client status string.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidDateRange):
		return http.StatusBadRequest, statusInvalidDateRange
	case errors.Is(err, core.ErrNoWorksheets):
		return http.StatusBadRequest, statusNoSheets
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest, statusInvalidBody
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, statusTimeout
	case errors.Is(err, core.ErrFetchSlotsBusy), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, statusBusy
	default:
		return http.StatusInternalServerError, statusError
	}
}

// respondError logs err and writes the matching status body.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code, status := classify(err)

	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logging.FromContext(r.Context()).Log(r.Context(), level, "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"status", code,
		"error", err.Error(),
		"gateway", core.IsGatewayError(err),
	)

	writeJSON(w, code, statusResponse{Data: noEntries, Status: status})
}

// writeJSON encodes v with the given status. Encoding errors are only logged
// since the header is already sent.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Endpoint not found", "status": statusError})
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "Method not allowed", "status": statusError})
}
