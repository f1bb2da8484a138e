package mapper

import (
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
)

// CreateDog is the inbound payload of POST /dog.
type CreateDog struct {
	Name       string `json:"name"`
	Color      string `json:"color"`
	TailLength int    `json:"tail_length"`
	Weight     int    `json:"weight"`
}

// UpdateDog is the inbound payload of POST /dog/update. Name selects the dog to overwrite.
type UpdateDog struct {
	Name       string `json:"name"`
	Color      string `json:"color"`
	TailLength int    `json:"tail_length"`
	Weight     int    `json:"weight"`
}

// Dog is the HTTP representation returned by every read and write endpoint.
type Dog struct {
	Name       string `json:"name"`
	Color      string `json:"color"`
	TailLength int    `json:"tail_length"`
	Weight     int    `json:"weight"`
}

// ToModelFromCreate maps a create payload into the domain model.
func ToModelFromCreate(input CreateDog) domain.Dog {
	return domain.Dog{
		Name:       input.Name,
		Color:      input.Color,
		TailLength: input.TailLength,
		Weight:     input.Weight,
	}
}

// ToModelFromUpdate maps an update payload into the domain model.
func ToModelFromUpdate(input UpdateDog) domain.Dog {
	return domain.Dog{
		Name:       input.Name,
		Color:      input.Color,
		TailLength: input.TailLength,
		Weight:     input.Weight,
	}
}

func ToCreate(dog domain.Dog) CreateDog {
	return CreateDog{Name: dog.Name, Color: dog.Color, TailLength: dog.TailLength, Weight: dog.Weight}
}

func ToUpdate(dog domain.Dog) UpdateDog {
	return UpdateDog{Name: dog.Name, Color: dog.Color, TailLength: dog.TailLength, Weight: dog.Weight}
}

// FromModel converts the domain model into the transport shape.
func FromModel(dog domain.Dog) Dog {
	return Dog{
		Name:       dog.Name,
		Color:      dog.Color,
		TailLength: dog.TailLength,
		Weight:     dog.Weight,
	}
}

// FromModels converts a listing. The result is never nil so it encodes as [].
func FromModels(dogs []domain.Dog) []Dog {
	out := make([]Dog, 0, len(dogs))
	for _, dog := range dogs {
		out = append(out, FromModel(dog))
	}
	return out
}
