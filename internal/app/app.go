package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	healthcheck "github.com/badrothmani2021/merjane/internal/health"
	"github.com/badrothmani2021/merjane/internal/messaging/kafka"
	"github.com/badrothmani2021/merjane/internal/metrics"
	"github.com/badrothmani2021/merjane/internal/service/availability"
	"github.com/badrothmani2021/merjane/internal/service/fulfillment"
	"github.com/badrothmani2021/merjane/internal/storage/postgres"
	"github.com/badrothmani2021/merjane/internal/transport/httpapi"
	"github.com/badrothmani2021/merjane/internal/version"
)

// Config описывает минимальные настройки запуска приложения.
type Config struct {
	HTTPAddr    string
	MetricsAddr string
}

// DefaultConfig возвращает базовые адреса для API и HTTP-метрик.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:    ":8080",
		MetricsAddr: ":9090",
	}
}

func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps := NewDependencies(logger)

	healthHandler := healthcheck.NewHandler(version.GetVersion())

	// Инициализация PostgreSQL (опционально): без DSN работаем на in-memory хранилище.
	var store *postgres.Store
	if dsn := strings.TrimSpace(os.Getenv("MERJANE_POSTGRES_DSN")); dsn != "" {
		var err error
		store, err = postgres.Open(ctx, dsn)
		if err != nil {
			return err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return err
		}
		products := postgres.NewProductRepository(store)
		deps.Products = products
		deps.Orders = postgres.NewOrderRepository(store, products)
		healthHandler.RegisterChecker("postgres", healthcheck.NewCheckFunc("postgres", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(checkCtx)
		}))
		logger.Info("postgres storage initialized")
	}

	// Инициализация Kafka producer (опционально)
	var kafkaProducer *kafka.Producer
	if kafkaBrokers := os.Getenv("KAFKA_BROKERS"); kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		producer, err := kafka.NewProducer(brokers, logger.WithField("component", "kafka-producer"))
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing with mock notifier")
		} else {
			kafkaProducer = producer
			deps.Notifier = kafka.NewNotifier(producer, logger.WithField("component", "kafka-notifier")).
				WithMetrics(metrics.NewFulfillmentMetrics())
			logger.WithField("brokers", brokers).Info("kafka producer initialized")
		}
	}

	selector := availability.NewSelector(deps.Products, deps.Notifier)
	processor := fulfillment.NewProcessor(selector, logger.WithField("component", "fulfillment"))
	apiHandler := httpapi.NewHandler(deps.Products, deps.Orders, processor, logger.WithField("layer", "http"))

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	apiSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: apiHandler.Router()}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- apiSrv.ListenAndServe()
	}()

	cleanup := func() {
		shutdownHTTP(metricsSrv, logger)

		// Закрываем Kafka producer
		if kafkaProducer != nil {
			if err := kafkaProducer.Close(); err != nil {
				logger.WithError(err).Warn("failed to close kafka producer")
			} else {
				logger.Info("kafka producer closed")
			}
		}

		if store != nil {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("failed to close postgres store")
			}
		}
	}

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP API")
		shutdownHTTP(apiSrv, logger)
		cleanup()
		return ctx.Err()
	case err := <-errCh:
		cleanup()
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
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/readyz, %s/livez", addr, addr, addr)
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
