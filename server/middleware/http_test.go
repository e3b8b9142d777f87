package middleware_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/kbukum/dataprep/errors"
	"github.com/kbukum/dataprep/logger"
	"github.com/kbukum/dataprep/server/middleware"
)

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func status(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	})
}

func TestRecovery(t *testing.T) {
	recovery := middleware.Recovery(logger.Nop())

	rr := serve(recovery(status(http.StatusAccepted)), httptest.NewRequest(http.MethodPost, "/api/v1/transform", http.NoBody))
	if rr.Code != http.StatusAccepted {
		t.Fatalf("expected 202 to pass through, got %d", rr.Code)
	}

	panicking := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("writer exploded") })
	rr = serve(recovery(panicking), httptest.NewRequest(http.MethodPost, "/api/v1/transform", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	var body apperrors.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body.Error.Code != apperrors.ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", body.Error.Code)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get(middleware.HeaderRequestID)
		w.WriteHeader(http.StatusOK)
	}))

	rr := serve(h, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
	got := rr.Header().Get(middleware.HeaderRequestID)
	if got == "" || got != seen {
		t.Errorf("expected the generated id on request and response, got %q and %q", seen, got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set(middleware.HeaderRequestID, "client-7")
	if got := serve(h, req).Header().Get(middleware.HeaderRequestID); got != "client-7" {
		t.Errorf("expected client id to be kept, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		cfg         middleware.CORSConfig
		method      string
		origin      string
		wantCode    int
		wantHeaders map[string]string
	}{
		{
			name:     "allowed origin",
			cfg:      middleware.CORSConfig{AllowedOrigins: []string{"https://ui.example"}, AllowedMethods: []string{"GET", "POST"}},
			method:   http.MethodPost,
			origin:   "https://ui.example",
			wantCode: http.StatusOK,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":  "https://ui.example",
				"Access-Control-Allow-Methods": "GET, POST",
			},
		},
		{
			name:     "wildcard with credentials",
			cfg:      middleware.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true},
			method:   http.MethodGet,
			origin:   "https://any.example",
			wantCode: http.StatusOK,
			wantHeaders: map[string]string{
				"Access-Control-Allow-Origin":      "https://any.example",
				"Access-Control-Allow-Credentials": "true",
			},
		},
		{
			name:        "other origin",
			cfg:         middleware.CORSConfig{AllowedOrigins: []string{"https://ui.example"}},
			method:      http.MethodGet,
			origin:      "https://evil.example",
			wantCode:    http.StatusOK,
			wantHeaders: map[string]string{"Access-Control-Allow-Origin": ""},
		},
		{
			name:        "preflight",
			cfg:         middleware.CORSConfig{AllowedOrigins: []string{"*"}},
			method:      http.MethodOptions,
			origin:      "https://ui.example",
			wantCode:    http.StatusNoContent,
			wantHeaders: map[string]string{"Access-Control-Allow-Origin": "https://ui.example"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/transform", http.NoBody)
			req.Header.Set("Origin", tt.origin)
			rr := serve(middleware.CORS(&tt.cfg)(status(http.StatusOK)), req)

			if rr.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rr.Code)
			}
			for k, want := range tt.wantHeaders {
				if got := rr.Header().Get(k); got != want {
					t.Errorf("%s: expected %q, got %q", k, want, got)
				}
			}
		})
	}
}

func TestRequestLogger_PassesThrough(t *testing.T) {
	log := logger.Nop()
	for _, path := range []string{"/api/v1/transform", "/health"} {
		rr := serve(middleware.RequestLogger(log)(status(http.StatusCreated)), httptest.NewRequest(http.MethodPost, path, http.NoBody))
		if rr.Code != http.StatusCreated {
			t.Errorf("%s: expected 201, got %d", path, rr.Code)
		}
	}
}

func TestBodySizeLimit(t *testing.T) {
	h := middleware.BodySizeLimit("1KB")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	if rr := serve(h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 2048)))); rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 for an oversized body, got %d", rr.Code)
	}
	if rr := serve(h, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name\nann\n"))); rr.Code != http.StatusOK {
		t.Errorf("expected 200 for a small body, got %d", rr.Code)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 7},
		{"512", 512},
		{"1KB", 1024},
		{"10mb", 10 << 20},
		{"2 GB", 2 << 30},
		{"64B", 64},
		{"lots", 7},
		{"-1MB", 7},
	}
	for _, tt := range tests {
		if got := middleware.ParseSize(tt.in, 7); got != tt.want {
			t.Errorf("ParseSize(%q) = %d, expected %d", tt.in, got, tt.want)
		}
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	trace := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+">")
				next.ServeHTTP(w, r)
				order = append(order, "<"+name)
			})
		}
	}
	final := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusOK)
	})

	serve(middleware.Chain(trace("outer"), trace("inner"))(final), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	want := []string{"outer>", "inner>", "handler", "<inner", "<outer"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

type flushRecorder struct {
	*httptest.ResponseRecorder
	flushed bool
}

func (f *flushRecorder) Flush() { f.flushed = true }

func TestRequestLogger_DelegatesFlush(t *testing.T) {
	fr := &flushRecorder{ResponseRecorder: httptest.NewRecorder()}
	h := middleware.RequestLogger(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"records":[`)
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}))

	h.ServeHTTP(fr, httptest.NewRequest(http.MethodPost, "/api/v1/transform", http.NoBody))
	if !fr.flushed {
		t.Error("expected Flush to reach the underlying writer")
	}
}
