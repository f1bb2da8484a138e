package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
	apierrors "github.com/Apurer/dogshouse-service/internal/shared/errors"
)

const tracerName = "github.com/Apurer/dogshouse-service/internal/domains/dogs/adapters/observability/service"

// Service decorates the dogs service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core dogs service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) Add(ctx context.Context, dog domain.Dog) (domain.Dog, error) {
	ctx, span := s.startSpan(ctx, "DogService.Add", dog.Name)
	defer span.End()

	result, err := s.inner.Add(ctx, dog)
	if err != nil {
		return domain.Dog{}, s.handleError(ctx, span, err, "failed to create dog", dog.Name)
	}
	s.metrics.addCounter(ctx, s.metrics.created)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "dog created", slog.String("dog.name", result.Name))
	return result, nil
}

func (s *Service) Update(ctx context.Context, dog domain.Dog) (domain.Dog, error) {
	ctx, span := s.startSpan(ctx, "DogService.Update", dog.Name)
	defer span.End()

	result, err := s.inner.Update(ctx, dog)
	if err != nil {
		return domain.Dog{}, s.handleError(ctx, span, err, "failed to update dog", dog.Name)
	}
	s.metrics.addCounter(ctx, s.metrics.updated)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "dog updated", slog.String("dog.name", result.Name))
	return result, nil
}

func (s *Service) Delete(ctx context.Context, name string) error {
	ctx, span := s.startSpan(ctx, "DogService.Delete", name)
	defer span.End()

	if err := s.inner.Delete(ctx, name); err != nil {
		return s.handleError(ctx, span, err, "failed to delete dog", name)
	}
	s.metrics.addCounter(ctx, s.metrics.deleted)
	s.logger.LogAttrs(ctx, slog.LevelInfo, "dog deleted", slog.String("dog.name", name))
	return nil
}

func (s *Service) GetAll(ctx context.Context, page ports.Page) ([]domain.Dog, error) {
	ctx, span := s.tracer.Start(ctx, "DogService.GetAll")
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelDebug, "retrieving dogs")
	result, err := s.inner.GetAll(ctx, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list dogs", "")
	}
	span.SetAttributes(attribute.Int("dogs.count", len(result)))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, name string) (*domain.Dog, error) {
	ctx, span := s.startSpan(ctx, "DogService.GetByID", name)
	defer span.End()

	result, err := s.inner.GetByID(ctx, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to retrieve dog", name)
	}
	if result == nil {
		span.SetAttributes(attribute.Bool("dog.found", false))
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to retrieve dog",
			slog.String("dog.name", name), slog.String("reason", "not found"))
		return nil, nil
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, "dog retrieved", slog.String("dog.name", name))
	return result, nil
}

func (s *Service) GetAllSorted(ctx context.Context, query ports.SortQuery) ([]domain.Dog, error) {
	ctx, span := s.tracer.Start(ctx, "DogService.GetAllSorted", trace.WithAttributes(
		attribute.String("dogs.sort.attribute", query.Attribute.String()),
		attribute.String("dogs.sort.order", string(query.Order)),
	))
	defer span.End()

	s.logger.LogAttrs(ctx, slog.LevelDebug, "retrieving dogs",
		slog.String("sort.attribute", query.Attribute.String()), slog.String("sort.order", string(query.Order)))
	result, err := s.inner.GetAllSorted(ctx, query)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list dogs", "")
	}
	span.SetAttributes(attribute.Int("dogs.count", len(result)))
	return result, nil
}

func (s *Service) startSpan(ctx context.Context, name, dogName string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(attribute.String("dog.name", dogName)))
}

// handleError records err on the span. Classified failures are expected outcomes and log at
// warn; anything else logs at error.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg, dogName string) error {
	kind := apierrors.KindOf(err)
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("error.kind", kind.String()))
	}
	attrs := []slog.Attr{slog.String("reason", err.Error())}
	if dogName != "" {
		attrs = append(attrs, slog.String("dog.name", dogName))
	}
	level := slog.LevelWarn
	if kind == apierrors.KindUnknown {
		level = slog.LevelError
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
	return err
}

type serviceMetrics struct {
	created metric.Int64Counter
	updated metric.Int64Counter
	deleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("dogs.service.created", metric.WithDescription("Number of dogs created"))
	updated, _ := m.Int64Counter("dogs.service.updated", metric.WithDescription("Number of dogs updated"))
	deleted, _ := m.Int64Counter("dogs.service.deleted", metric.WithDescription("Number of dogs deleted"))
	return serviceMetrics{created: created, updated: updated, deleted: deleted}
}

func (m serviceMetrics) addCounter(ctx context.Context, counter metric.Int64Counter) {
	if counter != nil {
		counter.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ ports.Service = (*Service)(nil)
