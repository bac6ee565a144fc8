package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/JonMunkholm/hourslog/internal/config"
)

// fakeSheetsAPI serves the two Sheets v4 endpoints the client uses.
func fakeSheetsAPI(t *testing.T, titles []string, values map[string][][]interface{}) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "/v4/spreadsheets/sheet-key"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, prefix)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case rest == "":
			sheetList := make([]map[string]any, len(titles))
			for i, title := range titles {
				sheetList[i] = map[string]any{"properties": map[string]any{"title": title}}
			}
			json.NewEncoder(w).Encode(map[string]any{"sheets": sheetList})

		case strings.HasPrefix(rest, "/values/"):
			rng := strings.TrimPrefix(rest, "/values/")
			rows, ok := values[rng]
			if !ok {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"code": 400, "message": "Unable to parse range: " + rng},
				})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"range": rng, "majorDimension": "ROWS", "values": rows})

		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	c, err := New(context.Background(), "sheet-key",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return c
}

func TestClient_WorksheetNames(t *testing.T) {
	srv := fakeSheetsAPI(t, []string{"01/1-15/1/2024", "Thông tin tài khoản"}, nil)
	defer srv.Close()

	names, err := newTestClient(t, srv).WorksheetNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"01/1-15/1/2024", "Thông tin tài khoản"}, names)
}

func TestClient_Rows(t *testing.T) {
	srv := fakeSheetsAPI(t, nil, map[string][][]interface{}{
		"'01/1-15/1/2024'": {
			{"Ngày", "Dự án"},
			{"2024-01-02", "Alpha", 1.5, true},
			{},
		},
	})
	defer srv.Close()

	rows, err := newTestClient(t, srv).Rows(context.Background(), "01/1-15/1/2024")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Ngày", "Dự án"},
		{"2024-01-02", "Alpha", "1.5", "true"},
		{},
	}, rows)
}

func TestClient_RowsEmptyWorksheet(t *testing.T) {
	srv := fakeSheetsAPI(t, nil, map[string][][]interface{}{"'Empty'": nil})
	defer srv.Close()

	rows, err := newTestClient(t, srv).Rows(context.Background(), "Empty")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClient_RowsAPIError(t *testing.T) {
	srv := fakeSheetsAPI(t, nil, map[string][][]interface{}{})
	defer srv.Close()

	_, err := newTestClient(t, srv).Rows(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'01/1-15/1/2024'", A1Range("01/1-15/1/2024"))
	assert.Equal(t, "'Andrew''s log'", A1Range("Andrew's log"))
}

func TestSpreadsheetID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms"},
		{"  abc  ", "abc"},
		{"https://docs.google.com/spreadsheets/d/abc123", "abc123"},
		{"https://docs.google.com/spreadsheets/d/abc123/edit#gid=0", "abc123"},
		{"https://docs.google.com/spreadsheets/d/abc123?usp=sharing", "abc123"},
	}
	for _, tt := range tests {
		got, err := SpreadsheetID(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "   ", "https://example.com/spreadsheets/d/abc", "abc/def"} {
		_, err := SpreadsheetID(bad)
		assert.True(t, errors.Is(err, ErrInvalidSpreadsheet), bad)
	}
}

func TestNew_RejectsBadSpreadsheet(t *testing.T) {
	_, err := New(context.Background(), "")
	assert.True(t, errors.Is(err, ErrInvalidSpreadsheet))
}

func TestCredentialsOption_Errors(t *testing.T) {
	_, err := CredentialsOption(context.Background(), filepath.Join(t.TempDir(), "missing.json"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to read credentials file")

	_, err = CredentialsOption(context.Background(), "", "{not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to parse credentials")
}

func TestCredentialsOption_RequiresServiceAccount(t *testing.T) {
	userKey := `{"type":"authorized_user","client_id":"id","client_secret":"secret","refresh_token":"token"}`

	_, err := CredentialsOption(context.Background(), "", userKey)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to parse credentials")
	assert.Contains(t, err.Error(), "service_account")

	serviceKey := `{"type":"service_account","client_email":"svc@example.iam.gserviceaccount.com","private_key":"unused","token_uri":"https://oauth2.example/token"}`
	opt, err := CredentialsOption(context.Background(), "", serviceKey)
	require.NoError(t, err)
	assert.NotNil(t, opt)
}

func TestOpen_MissingCredentials(t *testing.T) {
	_, err := Open(context.Background(), config.SheetsConfig{
		SpreadsheetID:   "abc",
		CredentialsFile: filepath.Join(t.TempDir(), "credentials.json"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to read credentials file")
}
