package adapthttp

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portions/internal/app"
	"portions/internal/domain"
)

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("OK"))
	})
	handler := s.loggingMiddleware(nextHandler)

	req := httptest.NewRequest("GET", "/test-path", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, w.Code)
	}
	logOutput := buf.String()
	for _, want := range []string{"method=GET", "path=/test-path", "status=418", "duration="} {
		if !strings.Contains(logOutput, want) {
			t.Errorf("log output missing %q. Got: %s", want, logOutput)
		}
	}
}

func TestLoggingMiddleware_ServerErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	s := &Server{logger: slog.New(slog.NewTextHandler(&buf, nil))}
	handler := s.loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/boom", nil))

	if !strings.Contains(buf.String(), "level=ERROR") {
		t.Errorf("expected an error level entry, got %s", buf.String())
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidServingSize, http.StatusBadRequest},
		{domain.ErrInvalidPortionUnit, http.StatusBadRequest},
		{app.ErrInvalidInput, http.StatusBadRequest},
		{app.ErrUnauthorized, http.StatusUnauthorized},
		{app.ErrFoodNotFound, http.StatusNotFound},
		{domain.ErrDuplicateBarcode, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		wrapped := errors.Join(errors.New("context"), tc.err)
		if got := statusFor(wrapped); got != tc.want {
			t.Errorf("statusFor(%v) = %d; want %d", tc.err, got, tc.want)
		}
	}
}

func TestRequestLocale(t *testing.T) {
	tests := []struct {
		explicit string
		header   string
		want     string
	}{
		{"en", "fr", "en"},
		{"", "fr-CA,fr;q=0.9", "fr-CA"},
		{"", "de;q=0.5, en;q=0.8", "en"},
		{"", "", ""},
	}
	for _, tc := range tests {
		r := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			r.Header.Set("Accept-Language", tc.header)
		}
		if got := requestLocale(r, tc.explicit); got != tc.want {
			t.Errorf("requestLocale(%q, %q) = %q; want %q", tc.explicit, tc.header, got, tc.want)
		}
	}
}
