package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func newTestMiddleware() *Middleware {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewMiddleware(logger)
}

func TestLoggerAssignsRequestID(t *testing.T) {
	m := newTestMiddleware()

	var seen string
	handler := m.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/servicios", nil))

	require.NotEmpty(t, seen)
	require.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestIDFromContextWithoutLogger(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/servicios", nil)
	require.Empty(t, RequestIDFromContext(r.Context()))
}

func TestRecoverReturnsInternalError(t *testing.T) {
	m := newTestMiddleware()

	handler := m.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/servicios", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "INTERNAL_ERROR", body.Code)
}

func TestCORSPreflight(t *testing.T) {
	m := newTestMiddleware()

	nextCalled := false
	handler := m.CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/servicios", nil)
	req.Header.Set("Origin", "https://tablero.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.False(t, nextCalled)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	m := newTestMiddleware()

	handler := m.CORS([]string{"https://tablero.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/servicios", nil)
	req.Header.Set("Origin", "https://otro.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, http.StatusOK, rec.Code)
}
