package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/application"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
	"github.com/Apurer/dogshouse-service/internal/domains/dogs/ports"
)

func TestRoundTrip_EntityModelDTO(t *testing.T) {
	entities := []ports.DogEntity{
		{Name: "Neo", Color: "red&amber", TailLength: 22, Weight: 32},
		{Name: "Jessy", Color: "black&white", TailLength: 0, Weight: 1},
		{Name: "Ünïcødé", Color: "", TailLength: 1 << 20, Weight: 1 << 30},
	}
	for _, entity := range entities {
		model := application.ModelFromEntity(entity)

		fromCreate := ToModelFromCreate(ToCreate(model))
		require.Equal(t, entity, application.EntityFromModel(fromCreate))

		fromUpdate := ToModelFromUpdate(ToUpdate(model))
		require.Equal(t, entity, application.EntityFromModel(fromUpdate))

		read := FromModel(model)
		require.Equal(t, entity, ports.DogEntity(read))
	}
}

func TestDog_SnakeCaseWireNames(t *testing.T) {
	body, err := json.Marshal(FromModel(domain.Dog{Name: "Doggy", Color: "red", TailLength: 173, Weight: 33}))
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"Doggy","color":"red","tail_length":173,"weight":33}`, string(body))

	var input CreateDog
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Doggy","color":"red","tail_length":173,"weight":33}`), &input))
	require.Equal(t, CreateDog{Name: "Doggy", Color: "red", TailLength: 173, Weight: 33}, input)
}

func TestFromModels_EmptyEncodesAsArray(t *testing.T) {
	body, err := json.Marshal(FromModels(nil))
	require.NoError(t, err)
	require.Equal(t, "[]", string(body))
}
