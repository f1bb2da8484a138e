package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/dogshouse-service/internal/app/api"
	dogactivities "github.com/Apurer/dogshouse-service/internal/durable/temporal/activities/dogs"
	dogworkflows "github.com/Apurer/dogshouse-service/internal/durable/temporal/workflows/dogs"
	platformobservability "github.com/Apurer/dogshouse-service/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "dogshouse-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:    serviceName,
		ServiceVersion: cfg.App.Version,
		LogLevel:       cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	dogService, store, cleanupRepo := api.NewDogService(ctx, cfg, instruments)
	defer cleanupRepo()
	if !store.Shared() {
		logger.Error("worker requires postgres, the API cannot read dogs from the worker's memory", slog.String("store", string(store)))
		os.Exit(1)
	}
	dogActivities := dogactivities.NewActivities(dogService)

	temporalClient, err := api.DialTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, dogworkflows.DogCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(dogworkflows.DogCreationWorkflow, workflow.RegisterOptions{Name: dogworkflows.DogCreationWorkflowName})
	w.RegisterActivityWithOptions(dogActivities.PersistDog, activity.RegisterOptions{Name: dogactivities.PersistDogActivityName})

	logger.Info("worker listening", slog.String("taskQueue", dogworkflows.DogCreationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
