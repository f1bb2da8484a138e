//go:build integration

package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedisContainer(t *testing.T) (*redis.Client, func()) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	require.NoError(t, rdb.Ping(ctx).Err())

	cleanup := func() {
		_ = rdb.Close()
		container.Terminate(ctx)
	}
	return rdb, cleanup
}

func TestRedisWindow_SharedBetweenGates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	rdb, cleanup := setupRedisContainer(t)
	defer cleanup()

	opts := Options{PermitLimit: 2, Window: time.Minute}
	replicaA, err := NewGate(opts, WithWindow(NewRedisWindow(rdb, opts.PermitLimit, opts.Window)))
	require.NoError(t, err)
	replicaB, err := NewGate(opts, WithWindow(NewRedisWindow(rdb, opts.PermitLimit, opts.Window)))
	require.NoError(t, err)
	ctx := context.Background()

	decision, err := replicaA.Admit(ctx, "client")
	require.NoError(t, err)
	require.True(t, decision.Allowed)
	decision, err = replicaB.Admit(ctx, "client")
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = replicaA.Admit(ctx, "client")
	require.NoError(t, err)
	require.False(t, decision.Allowed)

	keys, err := rdb.Keys(ctx, "dogshouse:ratelimit:client:*").Result()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	ttl, err := rdb.PTTL(ctx, keys[0]).Result()
	require.NoError(t, err)
	require.Positive(t, ttl)
}

func TestRedisWindow_ResetsAfterWindow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	rdb, cleanup := setupRedisContainer(t)
	defer cleanup()

	window := NewRedisWindow(rdb, 1, 200*time.Millisecond, WithKeyPrefix("test:"))
	ctx := context.Background()

	res, err := window.Take(ctx, "client")
	require.NoError(t, err)
	require.True(t, res.Allowed)

	res, err = window.Take(ctx, "client")
	require.NoError(t, err)
	require.False(t, res.Allowed)

	time.Sleep(res.ResetIn + 10*time.Millisecond)
	res, err = window.Take(ctx, "client")
	require.NoError(t, err)
	require.True(t, res.Allowed)
}
