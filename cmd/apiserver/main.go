// Command apiserver serves the screening screens as a JSON API for the web
// front end.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/aushadhiai/screening-console/internal/config"
	"github.com/aushadhiai/screening-console/internal/domain/ranking"
	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/logging"
	"github.com/aushadhiai/screening-console/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/aushadhiai/screening-console/internal/interfaces/http"
	"github.com/aushadhiai/screening-console/internal/interfaces/http/handlers"
	"github.com/aushadhiai/screening-console/internal/interfaces/http/middleware"
	"github.com/aushadhiai/screening-console/pkg/client"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if err := run(*configPath, *port); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, port int) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	var loadOpts []config.LoadOption
	if configPath != "" {
		loadOpts = append(loadOpts, config.WithConfigPath(configPath))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	logger.Info("starting screening API server",
		logging.String("version", version),
		logging.String("addr", cfg.Server.Addr()),
		logging.String("api_base_url", cfg.API.BaseURL),
	)

	if configPath != "" {
		err := config.Watch(configPath, func(next *config.Config) {
			if logging.SetLevel(logger, next.Log.Level) {
				logger.Info("log level reloaded", logging.String("level", next.Log.Level.String()))
			}
		}, func(err error) {
			logger.Warn("ignoring invalid config change", logging.Err(err))
		})
		if err != nil {
			logger.Warn("config watch disabled", logging.Err(err))
		}
	}

	var (
		collector prometheus.MetricsCollector
		metrics   *prometheus.AppMetrics
	)
	if cfg.Metrics.Enabled {
		collector, err = prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger)
		if err != nil {
			return err
		}
		metrics = prometheus.NewAppMetrics(collector)
	}

	collation, err := ranking.NewCollation(cfg.Ranking.Locale)
	if err != nil {
		return err
	}

	httpClient := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	clientOpts := []client.Option{
		client.WithHTTPClient(httpClient),
		client.WithTimeout(cfg.API.Timeout),
		client.WithLogger(logging.Printf(logger.Named("client"))),
	}
	if cfg.API.UserAgent != "" {
		clientOpts = append(clientOpts, client.WithUserAgent(cfg.API.UserAgent))
	}
	for k, v := range cfg.API.Headers {
		clientOpts = append(clientOpts, client.WithHeader(k, v))
	}
	var healthRecorder handlers.HealthRecorder
	if metrics != nil {
		clientOpts = append(clientOpts, client.WithObserver(metrics))
		healthRecorder = func(component string, up bool) {
			prometheus.RecordHealthCheck(metrics, component, up)
		}
	}
	apiClient, err := client.NewClient(cfg.API.BaseURL, clientOpts...)
	if err != nil {
		return err
	}

	routerCfg := httpserver.RouterConfig{
		HealthHandler: handlers.NewHealthHandler(version, healthRecorder,
			handlers.BackendChecker{URL: apiClient.BaseURL(), Client: httpClient}),
		Logging: middleware.DefaultLoggingConfig(),
		Logger:  logger,
	}
	if metrics != nil {
		routerCfg.ScreenHandler = handlers.NewScreenHandler(apiClient, collation, logger, metrics)
		routerCfg.MetricsCollector = collector
		routerCfg.Metrics = metrics
	} else {
		routerCfg.ScreenHandler = handlers.NewScreenHandler(apiClient, collation, logger, nil)
	}
	if len(cfg.Server.AllowedOrigins) > 0 {
		cors := middleware.DefaultCORSConfig()
		cors.AllowedOrigins = cfg.Server.AllowedOrigins
		routerCfg.CORS = &cors
	}

	srv := httpserver.NewServer(cfg.Server, httpserver.NewRouter(routerCfg), logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutdown signal received")
	if err := srv.Shutdown(context.Background()); err != nil {
		return err
	}
	return <-errCh
}
