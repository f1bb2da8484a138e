package memory

import (
	"context"
	"sync"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
)

var _ ports.DogRepository = (*Repository)(nil)

// Repository is an in-memory dog persistence adapter. It keeps insertion order as store order.
type Repository struct {
	mu    sync.RWMutex
	dogs  map[string]*ports.DogEntity
	order []string
}

func NewRepository() *Repository {
	return &Repository{dogs: map[string]*ports.DogEntity{}}
}

func (r *Repository) GetAll(_ context.Context) ([]ports.DogEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sliceLocked(0, len(r.order)), nil
}

func (r *Repository) GetPage(_ context.Context, pageNumber, pageSize int) ([]ports.DogEntity, error) {
	if err := ports.ValidatePage(pageNumber, pageSize); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	start, end := ports.PageBounds(len(r.order), pageNumber, pageSize)
	return r.sliceLocked(start, end), nil
}

func (r *Repository) GetByID(_ context.Context, name string) (*ports.DogEntity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dog, ok := r.dogs[name]
	if !ok {
		return nil, nil
	}
	clone := *dog
	return &clone, nil
}

func (r *Repository) Add(_ context.Context, entity ports.DogEntity) (ports.DogEntity, error) {
	if err := ports.ValidateEntity(entity); err != nil {
		return ports.DogEntity{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dogs[entity.Name]; ok {
		return ports.DogEntity{}, ports.ErrAlreadyExists
	}
	clone := entity
	r.dogs[entity.Name] = &clone
	r.order = append(r.order, entity.Name)
	return clone, nil
}

func (r *Repository) Update(_ context.Context, entity ports.DogEntity) (ports.DogEntity, error) {
	if err := ports.ValidateEntity(entity); err != nil {
		return ports.DogEntity{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.dogs[entity.Name]
	if !ok {
		return ports.DogEntity{}, ports.ErrNotFound
	}
	existing.Color = entity.Color
	existing.TailLength = entity.TailLength
	existing.Weight = entity.Weight
	return *existing, nil
}

func (r *Repository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dogs[name]; !ok {
		return ports.ErrIDNotFound
	}
	delete(r.dogs, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *Repository) sliceLocked(start, end int) []ports.DogEntity {
	list := make([]ports.DogEntity, 0, end-start)
	for _, name := range r.order[start:end] {
		list = append(list, *r.dogs[name])
	}
	return list
}
