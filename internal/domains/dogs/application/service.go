package application

import (
	"context"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
)

// Service orchestrates the dogs bounded context use cases.
type Service struct {
	repo ports.DogRepository
}

// NewService wires the dogs service with its repository.
func NewService(repo ports.DogRepository) *Service {
	return &Service{repo: repo}
}

// Add validates and persists a new dog.
func (s *Service) Add(ctx context.Context, dog domain.Dog) (domain.Dog, error) {
	if err := dog.Validate(); err != nil {
		return domain.Dog{}, err
	}
	added, err := s.repo.Add(ctx, EntityFromModel(dog))
	if err != nil {
		return domain.Dog{}, err
	}
	return ModelFromEntity(added), nil
}

// Update validates and overwrites an existing dog identified by name.
func (s *Service) Update(ctx context.Context, dog domain.Dog) (domain.Dog, error) {
	if err := dog.Validate(); err != nil {
		return domain.Dog{}, err
	}
	updated, err := s.repo.Update(ctx, EntityFromModel(dog))
	if err != nil {
		return domain.Dog{}, err
	}
	return ModelFromEntity(updated), nil
}

// Delete removes a dog.
func (s *Service) Delete(ctx context.Context, name string) error {
	return s.repo.Delete(ctx, name)
}

// GetAll lists dogs in store order. Paging is applied only when both arguments are given,
// with non-positive values raised to 1.
func (s *Service) GetAll(ctx context.Context, page ports.Page) ([]domain.Dog, error) {
	var (
		entities []ports.DogEntity
		err      error
	)
	if page.Requested() {
		number, size := page.Coerced()
		entities, err = s.repo.GetPage(ctx, number, size)
	} else {
		entities, err = s.repo.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}
	return ModelsFromEntities(entities), nil
}

// GetByID loads a single dog; nil means it does not exist.
func (s *Service) GetByID(ctx context.Context, name string) (*domain.Dog, error) {
	entity, err := s.repo.GetByID(ctx, name)
	if err != nil || entity == nil {
		return nil, err
	}
	dog := ModelFromEntity(*entity)
	return &dog, nil
}

// GetAllSorted loads every dog, sorts by the requested attribute and only then pages the result.
func (s *Service) GetAllSorted(ctx context.Context, query ports.SortQuery) ([]domain.Dog, error) {
	if !query.Attribute.Valid() {
		return nil, domain.ErrInvalidSortBy
	}
	dogs, err := s.GetAll(ctx, ports.Page{})
	if err != nil {
		return nil, err
	}
	if err := sortDogs(dogs, query.Attribute, query.Order); err != nil {
		return nil, err
	}
	if query.Page.Requested() {
		number, size := query.Page.Coerced()
		start, end := ports.PageBounds(len(dogs), number, size)
		dogs = dogs[start:end]
	}
	return dogs, nil
}

var _ ports.Service = (*Service)(nil)
