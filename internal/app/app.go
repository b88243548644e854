package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/drivncook/fleetops/internal/health"
	"github.com/drivncook/fleetops/internal/metrics"
	"github.com/drivncook/fleetops/internal/service/rest"
	"github.com/drivncook/fleetops/internal/version"
)

// Config описывает минимальные настройки запуска приложения.
type Config struct {
	APIAddr     string
	MetricsAddr string
	PostgresDSN string
	SeedDemo    bool
}

// DefaultConfig возвращает базовые адреса API и HTTP-метрик.
// Без DSN приложение работает на in-memory реестрах с демо-набором.
func DefaultConfig() Config {
	return Config{
		APIAddr:     ":8080",
		MetricsAddr: ":9090",
		SeedDemo:    true,
	}
}

// snapshotMaxAge — возраст снапшота справочников, после которого
// health-проверка помечает сервис как degraded.
const snapshotMaxAge = time.Hour

func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("ошибка при закрытии зависимостей")
		}
	}()

	validationMetrics := metrics.NewValidationMetrics()

	service := rest.NewService(rest.Dependencies{
		Warehouses:     deps.Warehouses,
		Products:       deps.Products,
		Stocks:         deps.Stocks,
		Trucks:         deps.Trucks,
		Assignments:    deps.Assignments,
		Authorizations: deps.Authorizations,
		Metrics:        validationMetrics,
		Logger:         logger.WithField("layer", "rest"),
	})

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	if deps.Store != nil {
		healthHandler.RegisterChecker("storage", healthcheck.NewSimpleChecker("storage", func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return deps.Store.Ping(pingCtx)
		}))
	}
	healthHandler.RegisterChecker("snapshot", healthcheck.NewStalenessChecker(
		"snapshot", snapshotMaxAge, deps.SnapshotLoadedAt))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.APIAddr, Handler: service.Handler()}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("валидационный API слушает %s", cfg.APIAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем API сервер")
		shutdownHTTP(apiSrv, logger)
		shutdownHTTP(metricsSrv, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчик /metrics для Prometheus.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
