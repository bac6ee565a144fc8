package web

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/hourslog/internal/core"
	"github.com/JonMunkholm/hourslog/internal/logging"
)

// maxBodySize bounds POST bodies; they only carry a range and two URLs.
const maxBodySize = 64 << 10

// queryBody is the JSON body of the POST hours-log routes. Keys other than
// these are ignored.
type queryBody struct {
	DateRange   string `json:"dateRange"`
	OriginalURL string `json:"original_url"`
	URL         string `json:"url"`
}

// handleListSheets returns every worksheet title.
func (s *Server) handleListSheets(w http.ResponseWriter, r *http.Request) {
	names, err := s.service.ListWorksheets(r.Context())
	if err != nil {
		code, status := classify(err)
		logging.FromContext(r.Context()).Error("list worksheets failed", "error", err, "status", code)
		writeJSON(w, code, sheetsResponse{Sheets: []string{}, Status: status})
		return
	}
	writeJSON(w, http.StatusOK, sheetsResponse{Sheets: names, Status: statusSuccess})
}

// handleSheetByPath returns the entries in range that carry an original URL.
func (s *Server) handleSheetByPath(w http.ResponseWriter, r *http.Request) {
	s.serveQuery(w, r, chi.URLParam(r, "dateRange"), core.Filter{}.WherePresent(core.FieldOriginalURL))
}

// handleAllDataByPath returns every entry in range.
func (s *Server) handleAllDataByPath(w http.ResponseWriter, r *http.Request) {
	s.serveQuery(w, r, chi.URLParam(r, "dateRange"), core.Filter{})
}

// handleSheetByBody filters on original_url when the body provides one.
func (s *Server) handleSheetByBody(w http.ResponseWriter, r *http.Request) {
	body, err := decodeQueryBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.serveQuery(w, r, body.DateRange, bodyFilter(body.OriginalURL, ""))
}

// handleAllDataByBody filters on original_url and url, each only when given.
func (s *Server) handleAllDataByBody(w http.ResponseWriter, r *http.Request) {
	body, err := decodeQueryBody(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.serveQuery(w, r, body.DateRange, bodyFilter(body.OriginalURL, body.URL))
}

// handleStatus reports the worksheet fetch limiter.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status  string                  `json:"status"`
		Fetches core.FetchLimiterStatus `json:"fetches"`
	}{statusSuccess, s.service.FetchStatus()})
}

// serveQuery runs one hours-log query and writes the response.
func (s *Server) serveQuery(w http.ResponseWriter, r *http.Request, rawRange string, filter core.Filter) {
	ctx := r.Context()

	dateRange, err := core.ParseQueryRange(rawRange)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(ctx).Debug("hours-log query",
		"owner", chi.URLParam(r, "owner"),
		"range", dateRange.String(),
		"filter", filter.String(),
	)

	result, err := s.service.Query(ctx, core.Query{Range: dateRange, Filter: filter})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entriesResponse{
		Total:  len(result.Entries),
		Status: statusSuccess,
		Data:   result.Entries,
	})
}

// decodeQueryBody reads a queryBody. An empty body decodes to the zero value,
// which then fails range validation.
func decodeQueryBody(w http.ResponseWriter, r *http.Request) (queryBody, error) {
	var body queryBody

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&body); err != nil && err != io.EOF {
		return queryBody{}, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return body, nil
}

// bodyFilter builds a Filter from optional body fields. A blank value means
// no clause for that field; any other value is matched exactly as sent.
func bodyFilter(originalURL, taskURL string) core.Filter {
	var f core.Filter
	if strings.TrimSpace(originalURL) != "" {
		f = f.Where(core.FieldOriginalURL, originalURL)
	}
	if strings.TrimSpace(taskURL) != "" {
		f = f.Where(core.FieldTaskURL, taskURL)
	}
	return f
}
