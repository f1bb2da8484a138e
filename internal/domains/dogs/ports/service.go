package ports

import (
	"context"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
)

// Page carries optional paging arguments. Paging applies only when both are set.
type Page struct {
	Number *int
	Size   *int
}

// Requested reports whether both paging arguments were supplied.
func (p Page) Requested() bool {
	return p.Number != nil && p.Size != nil
}

// Coerced returns the page number and size with non-positive values raised to 1.
func (p Page) Coerced() (int, int) {
	number, size := 1, 1
	if p.Number != nil && *p.Number > 0 {
		number = *p.Number
	}
	if p.Size != nil && *p.Size > 0 {
		size = *p.Size
	}
	return number, size
}

// SortQuery describes a sorted, optionally paged listing.
type SortQuery struct {
	Attribute domain.SortBy
	Order     domain.Order
	Page      Page
}

// Service defines the dogs use cases exposed to adapters (inbound/driving port).
type Service interface {
	Add(ctx context.Context, dog domain.Dog) (domain.Dog, error)
	Update(ctx context.Context, dog domain.Dog) (domain.Dog, error)
	Delete(ctx context.Context, name string) error
	GetAll(ctx context.Context, page Page) ([]domain.Dog, error)
	// GetByID returns nil without error when the dog does not exist.
	GetByID(ctx context.Context, name string) (*domain.Dog, error)
	GetAllSorted(ctx context.Context, query SortQuery) ([]domain.Dog, error)
}
