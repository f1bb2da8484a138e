package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWindow struct{}

func (failingWindow) Take(context.Context, string) (Result, error) {
	return Result{}, errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")
}

func TestOptions_Validate(t *testing.T) {
	require.NoError(t, Options{PermitLimit: 1, Window: time.Second}.Validate())
	require.Error(t, Options{PermitLimit: 0, Window: time.Second}.Validate())
	require.Error(t, Options{PermitLimit: 1}.Validate())
	require.Error(t, Options{PermitLimit: 1, Window: time.Second, QueueLimit: -1}.Validate())

	_, err := NewGate(Options{})
	require.Error(t, err)
}

func TestGate_RejectsOverLimitWithoutQueue(t *testing.T) {
	gate, err := NewGate(Options{PermitLimit: 2, Window: time.Minute})
	require.NoError(t, err)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		decision, err := gate.Admit(ctx, "client")
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}

	decision, err := gate.Admit(ctx, "client")
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Greater(t, decision.RetryAfter, 59*time.Second)
}

func TestGate_ReleasesQueuedRequestsOldestFirst(t *testing.T) {
	const window = 150 * time.Millisecond
	gate, err := NewGate(Options{PermitLimit: 1, Window: window, QueueLimit: 3})
	require.NoError(t, err)
	ctx := context.Background()

	decision, err := gate.Admit(ctx, "client")
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	var (
		mu       sync.Mutex
		admitted []string
		wg       sync.WaitGroup
	)
	for i, name := range []string{"first", "second", "third"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := gate.Admit(ctx, "client")
			if assert.NoError(t, err) && assert.True(t, decision.Allowed) {
				mu.Lock()
				admitted = append(admitted, name)
				mu.Unlock()
			}
		}()
		require.Eventually(t, func() bool { return gate.Queued("client") == i+1 }, time.Second, time.Millisecond)
		time.Sleep(5 * time.Millisecond)
	}

	decision, err = gate.Admit(ctx, "client")
	require.NoError(t, err)
	require.False(t, decision.Allowed, "queue is full")

	wg.Wait()
	require.Equal(t, []string{"first", "second", "third"}, admitted)
	require.Zero(t, gate.Queued("client"))
}

func TestGate_DropsQueuedRequestWhenContextEnds(t *testing.T) {
	gate, err := NewGate(Options{PermitLimit: 1, Window: time.Minute, QueueLimit: 1})
	require.NoError(t, err)

	_, err = gate.Admit(context.Background(), "client")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = gate.Admit(ctx, "client")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Zero(t, gate.Queued("client"))
}

func TestGate_FailsOpenWhenWindowErrors(t *testing.T) {
	gate, err := NewGate(Options{PermitLimit: 1, Window: time.Minute}, WithWindow(failingWindow{}))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		decision, err := gate.Admit(context.Background(), "client")
		require.NoError(t, err)
		require.True(t, decision.Allowed)
	}
}
