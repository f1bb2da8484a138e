package application

import (
	"cmp"
	"slices"

	"github.com/Apurer/dogshouse-service/internal/domains/dogs/domain"
)

// sortDogs orders dogs in place. The sort is stable in both directions.
func sortDogs(dogs []domain.Dog, attribute domain.SortBy, order domain.Order) error {
	compare, err := comparatorFor(attribute)
	if err != nil {
		return err
	}
	if order == domain.OrderDesc {
		asc := compare
		compare = func(a, b domain.Dog) int { return asc(b, a) }
	}
	slices.SortStableFunc(dogs, compare)
	return nil
}

func comparatorFor(attribute domain.SortBy) (func(a, b domain.Dog) int, error) {
	switch attribute {
	case domain.SortByName:
		return func(a, b domain.Dog) int { return cmp.Compare(a.Name, b.Name) }, nil
	case domain.SortByColor:
		return func(a, b domain.Dog) int { return cmp.Compare(a.Color, b.Color) }, nil
	case domain.SortByTailLength:
		return func(a, b domain.Dog) int { return cmp.Compare(a.TailLength, b.TailLength) }, nil
	case domain.SortByWeight:
		return func(a, b domain.Dog) int { return cmp.Compare(a.Weight, b.Weight) }, nil
	default:
		return nil, domain.ErrInvalidSortBy
	}
}
