package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
	dogactivities "github.com/Apurer/dogshouse-service/internal/durable/temporal/activities/dogs"
	dogworkflows "github.com/Apurer/dogshouse-service/internal/durable/temporal/workflows/dogs"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalDogWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineDogWorkflows)(nil)
)

// DefaultExecutionTimeout bounds a creation workflow, so a request fails instead of waiting
// when no worker polls the task queue.
const DefaultExecutionTimeout = 30 * time.Second

// TemporalDogWorkflows starts dog workflows on a Temporal cluster.
type TemporalDogWorkflows struct {
	client           client.Client
	taskQueue        string
	executionTimeout time.Duration
}

// NewTemporalDogWorkflows wires a Temporal client into the orchestrator.
func NewTemporalDogWorkflows(c client.Client) *TemporalDogWorkflows {
	return &TemporalDogWorkflows{
		client:           c,
		taskQueue:        dogworkflows.DogCreationTaskQueue,
		executionTimeout: DefaultExecutionTimeout,
	}
}

// CreateDog runs the creation workflow and waits for its result. Classified activity
// failures come back with the same kind and message the service produced.
func (o *TemporalDogWorkflows) CreateDog(ctx context.Context, dog domain.Dog) (domain.Dog, error) {
	if o == nil || o.client == nil {
		return domain.Dog{}, errors.New("temporal dog workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	options := client.StartWorkflowOptions{
		ID:                       buildDogCreationWorkflowID(dog, traceComponent),
		TaskQueue:                o.taskQueue,
		WorkflowExecutionTimeout: o.executionTimeout,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		dogworkflows.DogCreationWorkflowName,
		dogworkflows.DogCreationWorkflowInput{Dog: dog, TraceID: traceComponent},
	)
	if err != nil {
		return domain.Dog{}, err
	}
	var created domain.Dog
	if err := run.Get(ctx, &created); err != nil {
		return domain.Dog{}, dogactivities.FromApplicationError(err)
	}
	return created, nil
}

// InlineDogWorkflows executes the service directly without Temporal, used when no cluster is reachable.
type InlineDogWorkflows struct {
	service ports.Service
}

// NewInlineDogWorkflows wraps the dogs service for synchronous execution.
func NewInlineDogWorkflows(service ports.Service) *InlineDogWorkflows {
	return &InlineDogWorkflows{service: service}
}

// CreateDog delegates to the service without durable orchestration.
func (o *InlineDogWorkflows) CreateDog(ctx context.Context, dog domain.Dog) (domain.Dog, error) {
	if o == nil || o.service == nil {
		return domain.Dog{}, errors.New("inline dog workflows not configured")
	}
	return o.service.Add(ctx, dog)
}

func buildDogCreationWorkflowID(dog domain.Dog, traceComponent string) string {
	name := strings.Join(strings.Fields(dog.Name), "-")
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("dog-creation-%s-%s", name, traceComponent)
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
