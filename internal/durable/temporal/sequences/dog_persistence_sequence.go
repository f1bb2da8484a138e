package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
	dogactivities "github.com/Apurer/dogshouse-service/internal/durable/temporal/activities/dogs"
	apierrors "github.com/Apurer/dogshouse-service/internal/shared/errors"
)

// RunDogPersistenceSequence executes the activities needed to persist a new dog.
// Infrastructure failures are retried; classified failures end the sequence immediately.
func RunDogPersistenceSequence(ctx workflow.Context, dog domain.Dog) (domain.Dog, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("dog persistence sequence started", "dogName", dog.Name)
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
			NonRetryableErrorTypes: []string{
				apierrors.KindValidation.String(),
				apierrors.KindNotFound.String(),
				apierrors.KindConflict.String(),
			},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var created domain.Dog
	if err := workflow.ExecuteActivity(ctx, dogactivities.PersistDogActivityName, dog).Get(ctx, &created); err != nil {
		logger.Error("dog persistence sequence failed", "dogName", dog.Name, "error", err)
		return domain.Dog{}, err
	}
	logger.Info("dog persistence sequence completed", "dogName", created.Name)
	return created, nil
}
