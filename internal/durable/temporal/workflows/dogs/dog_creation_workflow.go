package dogs

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
	"github.com/Apurer/dogshouse-service/internal/durable/temporal/sequences"
)

const (
	// DogCreationWorkflowName is the public identifier for registering the workflow.
	DogCreationWorkflowName = "dogs.workflows.Creation"
	// DogCreationTaskQueue is the queue consumed by the worker processing dog workflows.
	DogCreationTaskQueue = "DOG_CREATION"
)

// DogCreationWorkflowInput captures the payload required to create a dog.
type DogCreationWorkflowInput struct {
	Dog     domain.Dog
	TraceID string
}

// DogCreationWorkflow orchestrates the activities needed to persist a new dog.
func DogCreationWorkflow(ctx workflow.Context, input DogCreationWorkflowInput) (domain.Dog, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("DogCreationWorkflow started", withTraceID(input.TraceID, "dogName", input.Dog.Name)...)
	created, err := sequences.RunDogPersistenceSequence(ctx, input.Dog)
	if err != nil {
		logger.Error("DogCreationWorkflow failed", withTraceID(input.TraceID, "dogName", input.Dog.Name, "error", err)...)
		return domain.Dog{}, err
	}
	logger.Info("DogCreationWorkflow completed", withTraceID(input.TraceID, "dogName", created.Name)...)
	return created, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
