package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/logging"
)

func observedLogger() (logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logging.NewLoggerFromCore(core), logs
}

func statusHandler(code int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
		_, _ = w.Write([]byte("{}"))
	})
}

func serveLogged(t *testing.T, config LoggingConfig, next http.Handler, target string) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()
	logger, logs := observedLogger()
	h := chimw.RequestID(RequestLogging(logger, config)(next))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w, logs
}

func TestRequestLogging_Levels(t *testing.T) {
	tests := []struct {
		name  string
		code  int
		level zapcore.Level
		msg   string
	}{
		{"ok", http.StatusOK, zapcore.InfoLevel, "HTTP request completed"},
		{"client error", http.StatusBadRequest, zapcore.WarnLevel, "HTTP request completed with client error"},
		{"server error", http.StatusBadGateway, zapcore.ErrorLevel, "HTTP request completed with server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, logs := serveLogged(t, DefaultLoggingConfig(), statusHandler(tt.code), "/api/v1/hits?disease=malaria")
			require.Equal(t, 1, logs.Len())
			entry := logs.All()[0]
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, tt.msg, entry.Message)

			fields := entry.ContextMap()
			assert.Equal(t, "/api/v1/hits?disease=malaria", fields["path"])
			assert.EqualValues(t, tt.code, fields["status"])
			assert.NotEmpty(t, fields[logging.FieldRequestID])
		})
	}
}

func TestRequestLogging_Slow(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
	})
	_, logs := serveLogged(t, LoggingConfig{SlowThreshold: 10 * time.Millisecond}, slow, "/api/v1/targets?disease=x")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	assert.Equal(t, "HTTP request completed (slow)", logs.All()[0].Message)
}

func TestRequestLogging_SkipPaths(t *testing.T) {
	w, logs := serveLogged(t, DefaultLoggingConfig(), statusHandler(http.StatusOK), "/healthz")

	assert.Equal(t, 0, logs.Len())
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID), "skipped paths still echo the request id")
}

func TestRequestLogging_RequestIDInContext(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logging.RequestIDFromContext(r.Context())
	})
	w, _ := serveLogged(t, DefaultLoggingConfig(), next, "/api/v1/targets?disease=x")

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
}

func TestRequestLogging_WithoutRequestIDMiddleware(t *testing.T) {
	logger := logging.NewLoggerFromCore(zap.NewNop().Core())
	h := RequestLogging(logger, DefaultLoggingConfig())(statusHandler(http.StatusOK))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get(HeaderRequestID))
}

func TestStatusRecorder_DefaultsTo200(t *testing.T) {
	rec := newStatusRecorder(httptest.NewRecorder())
	_, err := rec.Write([]byte("hello"))
	require.NoError(t, err)
	rec.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusOK, rec.status)
	assert.EqualValues(t, 5, rec.bytes)
}
