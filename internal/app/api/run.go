package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	dogshouseserver "github.com/Apurer/dogshouse-service/go"
	dogsmemory "github.com/Apurer/dogshouse-service/internal/domains/dogs/adapters/memory"
	dogsobs "github.com/Apurer/dogshouse-service/internal/domains/dogs/adapters/observability"
	dogspostgres "github.com/Apurer/dogshouse-service/internal/domains/dogs/adapters/persistence/postgres"
	dogsworkflows "github.com/Apurer/dogshouse-service/internal/domains/dogs/adapters/workflows"
	dogsapp "github.com/Apurer/dogshouse-service/internal/domains/dogs/application"
	dogsports "github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
	"github.com/Apurer/dogshouse-service/internal/platform/migrations"
	platformobservability "github.com/Apurer/dogshouse-service/internal/platform/observability"
	platformpostgres "github.com/Apurer/dogshouse-service/internal/platform/postgres"
	"github.com/Apurer/dogshouse-service/internal/platform/ratelimit"
	"github.com/Apurer/dogshouse-service/internal/platform/requestid"
)

const (
	serviceName     = "dogshouse-api"
	shutdownTimeout = 10 * time.Second
)

// Run boots the Dogshouse HTTP API with observability, repositories, workflows and the
// admission gate wired. It returns when ctx ends or the server fails.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		LogLevel:       cfg.LogLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	dogService, store, cleanupRepo := NewDogService(ctx, cfg, instruments)
	defer cleanupRepo()

	dogWorkflows, closeWorkflows := newDogWorkflows(store, dogService, func() (client.Client, error) {
		return DialTemporal(cfg, instruments, "temporal-client")
	}, logger)
	defer closeWorkflows()
	if _, durable := dogWorkflows.(*dogsworkflows.TemporalDogWorkflows); durable {
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	gate, cleanupGate, err := newGate(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to configure rate limiting: %w", err)
	}
	defer cleanupGate()

	handlers := dogshouseserver.ApiHandleFunctions{
		DogsAPI: dogshouseserver.NewDogsAPI(dogService, dogWorkflows),
		PingAPI: dogshouseserver.NewPingAPI(cfg.App.ApplicationName, cfg.App.Version),
	}
	router := dogshouseserver.NewRouter(handlers,
		otelgin.Middleware(serviceName, otelgin.WithTracerProvider(instruments.TracerProvider)),
		requestid.Middleware(),
		dogshouseserver.AccessLog(logger),
		ratelimit.Middleware(gate, ratelimit.ClientIPKey),
		dogshouseserver.ErrorMiddleware(logger),
	)
	return serve(ctx, logger, ":"+cfg.Port, router)
}

// Store names the repository backing the dogs service.
type Store string

const (
	StoreMemory   Store = "memory"
	StorePostgres Store = "postgres"
)

// Shared reports whether other processes, such as the Temporal worker, see the same dogs.
func (s Store) Shared() bool { return s == StorePostgres }

// NewDogService builds the dogs service on PostgreSQL when it is reachable and on the
// in-memory repository otherwise, decorated with logs, spans and counters.
func NewDogService(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (dogsports.Service, Store, func()) {
	logger := instruments.Logger
	store := StoreMemory
	var repo dogsports.DogRepository = dogsmemory.NewRepository()
	db, cleanup := platformpostgres.ConnectOrFallback(ctx, platformpostgres.Config{
		DSN:    cfg.PostgresDSN,
		Driver: cfg.PostgresDriver,
	}, logger)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Warn("failed to migrate dogs schema, falling back to in-memory repository", slog.String("error", err.Error()))
			cleanup()
			cleanup = func() {}
		} else {
			repo = dogspostgres.NewRepository(db)
			store = StorePostgres
			logger.Info("dog repository configured with postgres")
		}
	}
	service := dogsobs.New(
		dogsapp.NewService(repo),
		dogsobs.WithLogger(logger),
		dogsobs.WithTracer(instruments.Tracer("internal.dogs.application")),
		dogsobs.WithMeter(instruments.Meter("internal.dogs.application")),
	)
	return service, store, cleanup
}

// newDogWorkflows creates dogs through Temporal only when the worker writes to the store this
// process reads. Otherwise, or when the cluster is unreachable, dogs are created inline.
func newDogWorkflows(store Store, service dogsports.Service, dial func() (client.Client, error), logger *slog.Logger) (dogsports.WorkflowOrchestrator, func()) {
	inline := dogsworkflows.NewInlineDogWorkflows(service)
	if !store.Shared() {
		logger.Warn("dog store is not shared with the worker, creating dogs inline", slog.String("store", string(store)))
		return inline, func() {}
	}
	temporalClient, err := dial()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, creating dogs inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	return dogsworkflows.NewTemporalDogWorkflows(temporalClient), temporalClient.Close
}

// DialTemporal connects a traced Temporal client unless TEMPORAL_DISABLED is set.
func DialTemporal(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// newGate counts admissions in Redis when REDIS_ADDR is set and reachable, in process otherwise.
func newGate(ctx context.Context, cfg Config, logger *slog.Logger) (*ratelimit.Gate, func(), error) {
	opts := cfg.RateLimiting.GateOptions()
	cleanup := func() {}
	gateOpts := []ratelimit.GateOption{ratelimit.WithLogger(logger)}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, counting admissions in process",
				slog.String("addr", cfg.RedisAddr), slog.String("error", err.Error()))
			_ = rdb.Close()
		} else {
			gateOpts = append(gateOpts, ratelimit.WithWindow(ratelimit.NewRedisWindow(rdb, opts.PermitLimit, opts.Window)))
			cleanup = func() { _ = rdb.Close() }
			logger.Info("rate limiting backed by redis", slog.String("addr", cfg.RedisAddr))
		}
	}
	gate, err := ratelimit.NewGate(opts, gateOpts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return gate, cleanup, nil
}

func serve(ctx context.Context, logger *slog.Logger, addr string, router *gin.Engine) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Dogshouse API listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("Dogshouse API stopped")
		return nil
	case err := <-errCh:
		logger.Error("Dogshouse API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
}
