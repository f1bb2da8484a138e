package application

import (
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
)

// EntityFromModel converts the domain model to its persisted shape.
func EntityFromModel(dog domain.Dog) ports.DogEntity {
	return ports.DogEntity{
		Name:       dog.Name,
		Color:      dog.Color,
		TailLength: dog.TailLength,
		Weight:     dog.Weight,
	}
}

// ModelFromEntity converts a persisted dog to the domain model.
func ModelFromEntity(entity ports.DogEntity) domain.Dog {
	return domain.Dog{
		Name:       entity.Name,
		Color:      entity.Color,
		TailLength: entity.TailLength,
		Weight:     entity.Weight,
	}
}

func ModelsFromEntities(entities []ports.DogEntity) []domain.Dog {
	dogs := make([]domain.Dog, 0, len(entities))
	for _, entity := range entities {
		dogs = append(dogs, ModelFromEntity(entity))
	}
	return dogs
}
