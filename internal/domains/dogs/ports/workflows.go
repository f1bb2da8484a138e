package ports

import (
	"context"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
)

// WorkflowOrchestrator exposes durable workflow operations required by the dogs bounded context.
type WorkflowOrchestrator interface {
	CreateDog(ctx context.Context, dog domain.Dog) (domain.Dog, error)
}
