package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	dogmemory "github.com/Apurer/dogshouse-service/internal/domains/dogs/adapters/memory"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/application"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
)

type harness struct {
	svc    ports.Service
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
	logs   *bytes.Buffer
}

func newHarness() harness {
	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	logs := &bytes.Buffer{}
	svc := New(application.NewService(dogmemory.NewRepository()),
		WithTracer(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans)).Tracer(tracerName)),
		WithMeter(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter(tracerName)),
		WithLogger(slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))),
	)
	return harness{svc: svc, spans: spans, reader: reader, logs: logs}
}

func (h harness) counter(t *testing.T, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestService_RecordsSuccessfulLifecycle(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_, err := h.svc.Add(ctx, domain.Dog{Name: "Neo", Color: "red", TailLength: 1, Weight: 2})
	require.NoError(t, err)
	_, err = h.svc.Update(ctx, domain.Dog{Name: "Neo", Color: "blue", TailLength: 1, Weight: 2})
	require.NoError(t, err)
	require.NoError(t, h.svc.Delete(ctx, "Neo"))

	assert.Equal(t, int64(1), h.counter(t, "dogs.service.created"))
	assert.Equal(t, int64(1), h.counter(t, "dogs.service.updated"))
	assert.Equal(t, int64(1), h.counter(t, "dogs.service.deleted"))

	ended := h.spans.Ended()
	require.Len(t, ended, 3)
	assert.Equal(t, "DogService.Add", ended[0].Name())
	assert.Equal(t, "DogService.Delete", ended[2].Name())
	assert.Contains(t, h.logs.String(), `"msg":"dog created"`)
	assert.Contains(t, h.logs.String(), `"dog.name":"Neo"`)
}

func TestService_RecordsFailures(t *testing.T) {
	h := newHarness()

	_, err := h.svc.Add(context.Background(), domain.Dog{Name: "Neo", TailLength: -1, Weight: 2})
	require.ErrorIs(t, err, domain.ErrNegativeTailLength)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Zero(t, h.counter(t, "dogs.service.created"))
	assert.Contains(t, h.logs.String(), `"level":"WARN"`)
	assert.Contains(t, h.logs.String(), "Tail length cannot be negative.")
}

func TestService_GetByIDAbsentPassesThrough(t *testing.T) {
	h := newHarness()

	dog, err := h.svc.GetByID(context.Background(), "Ghost")
	require.NoError(t, err)
	require.Nil(t, dog)
	assert.Contains(t, h.logs.String(), `"reason":"not found"`)
}

func TestNew_DefaultsAreSafe(t *testing.T) {
	svc := New(application.NewService(dogmemory.NewRepository()), nil, WithTracer(nil), WithLogger(nil))

	dogs, err := svc.GetAllSorted(context.Background(), ports.SortQuery{})
	require.NoError(t, err)
	require.Empty(t, dogs)
}
