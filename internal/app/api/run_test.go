package api

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"

	dogsmemory "github.com/Apurer/dogshouse-service/internal/domains/dogs/adapters/memory"
	dogsworkflows "github.com/Apurer/dogshouse-service/internal/domains/dogs/adapters/workflows"
	dogsapp "github.com/Apurer/dogshouse-service/internal/domains/dogs/application"
)

func TestNewDogWorkflows(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := dogsapp.NewService(dogsmemory.NewRepository())

	t.Run("memory store never dials temporal", func(t *testing.T) {
		dialed := false
		orchestrator, closeFn := newDogWorkflows(StoreMemory, service, func() (client.Client, error) {
			dialed = true
			return &mocks.Client{}, nil
		}, logger)
		defer closeFn()
		require.False(t, dialed)
		require.IsType(t, &dogsworkflows.InlineDogWorkflows{}, orchestrator)
	})

	t.Run("unreachable cluster falls back inline", func(t *testing.T) {
		orchestrator, closeFn := newDogWorkflows(StorePostgres, service, func() (client.Client, error) {
			return nil, errors.New("connection refused")
		}, logger)
		defer closeFn()
		require.IsType(t, &dogsworkflows.InlineDogWorkflows{}, orchestrator)
	})

	t.Run("shared store uses temporal", func(t *testing.T) {
		temporalClient := &mocks.Client{}
		temporalClient.On("Close").Return().Once()
		orchestrator, closeFn := newDogWorkflows(StorePostgres, service, func() (client.Client, error) {
			return temporalClient, nil
		}, logger)
		require.IsType(t, &dogsworkflows.TemporalDogWorkflows{}, orchestrator)
		closeFn()
		temporalClient.AssertExpectations(t)
	})
}

func TestStoreShared(t *testing.T) {
	require.True(t, StorePostgres.Shared())
	require.False(t, StoreMemory.Shared())
}
