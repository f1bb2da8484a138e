package ports

import (
	"context"
	"math"

	apierrors "github.com/Apurer/dogshouse-service/internal/shared/errors"
)

// DogEntity is the persisted shape of a dog. Name is the primary key.
type DogEntity struct {
	Name       string
	Color      string
	TailLength int
	Weight     int
}

// Identifier returns the primary key.
func (e DogEntity) Identifier() string { return e.Name }

var (
	ErrAlreadyExists        = apierrors.Conflict("The dog with this name already in the database")
	ErrUniqueViolation      = apierrors.Conflict("Dog name violates unique constraint")
	ErrNotFound             = apierrors.NotFound("The dog with this name does not exist in the database")
	ErrIDNotFound           = apierrors.NotFound("The dog with this id does not exist in the database")
	ErrNegativeTailLength   = apierrors.Validation("Tail length cannot be negative")
	ErrPageNumberOutOfRange = apierrors.Validation("Page number must be greater than zero")
	ErrPageSizeOutOfRange   = apierrors.Validation("Page size must be greater than zero")
)

// Repository is the CRUD contract over entities of type E identified by ID.
// Every mutating call is committed before it returns.
type Repository[E any, ID comparable] interface {
	// GetAll returns every entity in store order.
	GetAll(ctx context.Context) ([]E, error)
	// GetPage returns entities [(pageNumber-1)*pageSize, pageNumber*pageSize) in store order.
	// Non-positive arguments are rejected, never coerced.
	GetPage(ctx context.Context, pageNumber, pageSize int) ([]E, error)
	// GetByID returns nil without error when nothing matches.
	GetByID(ctx context.Context, id ID) (*E, error)
	Add(ctx context.Context, entity E) (E, error)
	// Update overwrites every non-key field of the stored entity.
	Update(ctx context.Context, entity E) (E, error)
	Delete(ctx context.Context, id ID) error
}

// DogRepository persists dogs keyed by name. It checks tail length but not weight.
type DogRepository interface {
	Repository[DogEntity, string]
}

// ValidatePage applies the repository paging rules.
func ValidatePage(pageNumber, pageSize int) error {
	if pageNumber <= 0 {
		return ErrPageNumberOutOfRange
	}
	if pageSize <= 0 {
		return ErrPageSizeOutOfRange
	}
	return nil
}

// ValidateEntity applies the repository level entity rules.
func ValidateEntity(entity DogEntity) error {
	if entity.TailLength < 0 {
		return ErrNegativeTailLength
	}
	return nil
}

// PageOffset returns the index of the first item of a page. ok is false when the offset does
// not fit in an int, which means the page lies past any store.
func PageOffset(pageNumber, pageSize int) (offset int, ok bool) {
	if pageNumber < 1 || pageSize < 1 {
		return 0, false
	}
	if pageNumber-1 > math.MaxInt/pageSize {
		return 0, false
	}
	return (pageNumber - 1) * pageSize, true
}

// PageBounds returns the half-open slice bounds of a page over n items.
func PageBounds(n, pageNumber, pageSize int) (int, int) {
	start, ok := PageOffset(pageNumber, pageSize)
	if !ok || start > n {
		return n, n
	}
	end := start + pageSize
	if end > n || end < start {
		end = n
	}
	return start, end
}
