package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/drivncook/fleetops/internal/app"
	"github.com/drivncook/fleetops/internal/version"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(log.InfoLevel)
}

// readConfig формирует конфигурацию приложения, позволяя переопределить
// настройки через переменные окружения (и локальный .env при наличии).
func readConfig() app.Config {
	cfg := app.DefaultConfig()
	if v := os.Getenv("FLEETOPS_API_ADDR"); v != "" {
		cfg.APIAddr = v
	}
	if v := os.Getenv("FLEETOPS_METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("FLEETOPS_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
	if v := os.Getenv("FLEETOPS_SEED_DEMO"); v != "" {
		if seed, err := strconv.ParseBool(v); err == nil {
			cfg.SeedDemo = seed
		}
	}
	return cfg
}

func main() {
	// .env опционален: в контейнере конфигурация приходит из окружения.
	_ = godotenv.Load()

	setupLogger()
	cfg := readConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"api_addr":     cfg.APIAddr,
		"metrics_addr": cfg.MetricsAddr,
		"postgres":     cfg.PostgresDSN != "",
		"version":      version.GetVersion(),
	}).Info("запускаем валидационное ядро консоли")

	if err := app.Run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	log.Info("валидационное ядро остановлено")
}
