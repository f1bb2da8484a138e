package dogs

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
	apierrors "github.com/Apurer/dogshouse-service/internal/shared/errors"
)

// PersistDogActivityName persists a new dog through the dogs service.
const PersistDogActivityName = "dogs.activities.PersistDog"

// Activities groups activities that operate on the dogs bounded context.
type Activities struct {
	service ports.Service
}

// NewActivities wires the dogs service into the Temporal activities bundle.
func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// PersistDog stores a new dog. Classified failures are returned as non-retryable application
// errors whose type is the error kind and whose single detail is the client message.
func (a *Activities) PersistDog(ctx context.Context, dog domain.Dog) (domain.Dog, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("dog persist activity not initialized", "dogName", dog.Name)
		return domain.Dog{}, errors.New("dog persist activity not initialized")
	}
	logger.Info("PersistDog activity started", "dogName", dog.Name)
	created, err := a.service.Add(ctx, dog)
	if err != nil {
		logger.Error("PersistDog activity failed", "dogName", dog.Name, "error", err)
		return domain.Dog{}, ToApplicationError(err)
	}
	logger.Info("PersistDog activity completed", "dogName", created.Name)
	return created, nil
}

// ToApplicationError converts classified errors into non-retryable Temporal errors.
// Unclassified errors are returned unchanged so Temporal may retry them.
func ToApplicationError(err error) error {
	kind := apierrors.KindOf(err)
	if err == nil || kind == apierrors.KindUnknown {
		return err
	}
	return temporal.NewNonRetryableApplicationError(err.Error(), kind.String(), nil, err.Error())
}

// FromApplicationError rebuilds a classified error from a Temporal failure chain.
// It returns err unchanged when the chain carries no classified application error.
func FromApplicationError(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	kind := apierrors.ParseKind(appErr.Type())
	if kind == apierrors.KindUnknown {
		return err
	}
	var message string
	if !appErr.HasDetails() || appErr.Details(&message) != nil {
		return err
	}
	return apierrors.New(kind, message)
}
