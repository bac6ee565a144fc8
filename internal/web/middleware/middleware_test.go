package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/hourslog/internal/logging"
)

func TestRequestID_Generates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestID_ReusesCallerID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = chimw.GetReqID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "trace-abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "trace-abc", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, strings.Repeat("x", 500), seen)
}

func TestTrustedRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted []string
		remote  string
		realIP  string
		xff     string
		want    string
	}{
		{"no trusted proxies", nil, "10.0.0.1:1234", "1.2.3.4", "", "10.0.0.1:1234"},
		{"trusted X-Real-IP", []string{"10.0.0.0/8"}, "10.0.0.1:1234", "1.2.3.4", "", "1.2.3.4"},
		{"trusted XFF first hop", []string{"10.0.0.0/8"}, "10.0.0.1:1234", "", "5.6.7.8, 10.0.0.2", "5.6.7.8"},
		{"untrusted peer", []string{"10.0.0.0/8"}, "192.168.1.1:1234", "1.2.3.4", "", "192.168.1.1:1234"},
		{"bare trusted address", []string{"127.0.0.1"}, "127.0.0.1:5555", "9.9.9.9", "", "9.9.9.9"},
		{"garbage header ignored", []string{"10.0.0.0/8"}, "10.0.0.1:1234", "not-an-ip", "", "10.0.0.1:1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := TrustedRealIP(tt.trusted)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogger_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "info", "text"))
	defer slog.SetDefault(prev)

	h := RequestID(Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/list-sheets", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/list-sheets")
	assert.Contains(t, out, "request_id=req-1")
}
