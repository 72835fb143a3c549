package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aushadhiai/screening-console/internal/config"
	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/logging"
	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/prometheus"
	"github.com/aushadhiai/screening-console/internal/interfaces/http/handlers"
	"github.com/aushadhiai/screening-console/internal/interfaces/http/middleware"
	itestutil "github.com/aushadhiai/screening-console/internal/testutil"
	"github.com/aushadhiai/screening-console/pkg/client"
)

type testStack struct {
	router    http.Handler
	backend   *itestutil.FakeBackend
	collector prometheus.MetricsCollector
	logs      *observer.ObservedLogs
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()
	fake := itestutil.NewFakeBackend(t)

	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.NewLoggerFromCore(core)

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "aushadhi"}, logger)
	require.NoError(t, err)
	metrics := prometheus.NewAppMetrics(collector)

	c, err := client.NewClient(fake.URL, client.WithObserver(metrics))
	require.NoError(t, err)

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"http://localhost:3000"}

	router := NewRouter(RouterConfig{
		ScreenHandler:    handlers.NewScreenHandler(c, nil, logger, metrics),
		HealthHandler:    handlers.NewHealthHandler("test", nil),
		CORS:             &cors,
		Logging:          middleware.DefaultLoggingConfig(),
		Logger:           logger,
		MetricsCollector: collector,
		Metrics:          metrics,
	})
	return &testStack{router: router, backend: fake, collector: collector, logs: logs}
}

func (s *testStack) get(target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestNewRouter_ScreenRoutes(t *testing.T) {
	s := newTestStack(t)
	s.backend.Respond(itestutil.PathFindTargets, http.StatusOK, `[]`)
	s.backend.Respond(itestutil.PathHitsByDisease, http.StatusOK, `[]`)
	s.backend.Respond(itestutil.PathAlternates, http.StatusOK, `[]`)
	s.backend.Respond(itestutil.PathEvaluation, http.StatusOK, `[]`)

	for _, target := range []string{
		"/api/v1/targets?disease=x",
		"/api/v1/hits?disease=x",
		"/api/v1/alternates?disease=x",
		"/api/v1/evaluations?smiles=C",
	} {
		w := s.get(target)
		assert.Equal(t, http.StatusOK, w.Code, target)
		assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID), target)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "loaded", body["state"], target)
	}
	assert.Len(t, s.backend.Calls(), 4)
}

func TestNewRouter_Probes(t *testing.T) {
	s := newTestStack(t)

	assert.Equal(t, http.StatusOK, s.get("/healthz").Code)
	assert.Equal(t, http.StatusOK, s.get("/readyz").Code)
	assert.Equal(t, 0, s.logs.FilterMessageSnippet("HTTP request completed").Len(), "probes are not logged")
}

func TestNewRouter_MethodAndPath(t *testing.T) {
	s := newTestStack(t)

	assert.Equal(t, http.StatusNotFound, s.get("/api/v1/patents").Code)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/hits?disease=x", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Empty(t, s.backend.Calls())
}

func TestNewRouter_MetricsEndpoint(t *testing.T) {
	s := newTestStack(t)
	s.backend.Respond(itestutil.PathHitsByDisease, http.StatusBadGateway, `oops`)

	require.Equal(t, http.StatusOK, s.get("/api/v1/hits?disease=x").Code)

	expected := `
# HELP aushadhi_backend_calls_total Screening backend calls by outcome
# TYPE aushadhi_backend_calls_total counter
aushadhi_backend_calls_total{endpoint="hits_by_disease",outcome="status"} 1
# HELP aushadhi_page_loads_total Committed page loads by final state
# TYPE aushadhi_page_loads_total counter
aushadhi_page_loads_total{screen="hits",state="failed"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(s.collector.Gatherer(), strings.NewReader(expected),
		"aushadhi_backend_calls_total", "aushadhi_page_loads_total"))

	w := s.get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `aushadhi_http_requests_total{method="GET",path="/api/v1/hits",status_code="200"} 1`)
}

func TestNewRouter_CORSPreflight(t *testing.T) {
	s := newTestStack(t)

	r := httptest.NewRequest(http.MethodOptions, "/api/v1/hits", nil)
	r.Header.Set("Origin", "http://localhost:3000")
	r.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRouter_NilHandlers_NoPanic(t *testing.T) {
	router := NewRouter(RouterConfig{})
	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/hits?disease=x", nil))
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s := newTestStack(t)
	srv := NewServer(config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            8080,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		ShutdownTimeout: time.Second,
	}, s.router, nil)
	assert.Equal(t, "127.0.0.1:8080", srv.Addr())

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- srv.Serve(l) }()

	resp, err := http.Get("http://" + l.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}
