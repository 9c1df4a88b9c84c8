package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORSMiddleware_WildcardOrigin(t *testing.T) {
	handler := CORSMiddleware([]string{"*"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	req.Header.Set("Origin", "https://archive.example.org")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_ConfiguredOriginEchoed(t *testing.T) {
	handler := CORSMiddleware([]string{"https://archive.example.org"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	req.Header.Set("Origin", "https://archive.example.org")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://archive.example.org", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORSMiddleware_UnknownOriginGetsNoHeader(t *testing.T) {
	handler := CORSMiddleware([]string{"https://archive.example.org"})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/countries", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_PreflightShortCircuits(t *testing.T) {
	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	handler := CORSMiddleware([]string{"*"})(inner)

	req := httptest.NewRequest(http.MethodOptions, "/api/countries", nil)
	req.Header.Set("Origin", "https://archive.example.org")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
}
