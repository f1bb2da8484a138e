package domain

import (
	"strconv"
	"strings"

	apierrors "github.com/Apurer/dogshouse-service/internal/shared/errors"
)

// Dog is the domain model of the dogs bounded context. Name is the identity and never changes.
type Dog struct {
	Name       string
	Color      string
	TailLength int
	Weight     int
}

var (
	ErrEmptyName          = apierrors.Validation("Dog name is required.")
	ErrNegativeTailLength = apierrors.Validation("Tail length cannot be negative.")
	ErrNonPositiveWeight  = apierrors.Validation("Weight must be greater than zero.")
	ErrInvalidSortBy      = apierrors.Validation("Invalid sort attribute.")
)

// Validate enforces the invariants every dog reachable through the service must hold.
func (d Dog) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	if d.TailLength < 0 {
		return ErrNegativeTailLength
	}
	if d.Weight <= 0 {
		return ErrNonPositiveWeight
	}
	return nil
}

// SortBy enumerates the attributes a dog listing can be ordered by.
type SortBy int

const (
	SortByName SortBy = iota
	SortByColor
	SortByTailLength
	SortByWeight
)

func (s SortBy) String() string {
	switch s {
	case SortByName:
		return "Name"
	case SortByColor:
		return "Color"
	case SortByTailLength:
		return "TailLength"
	case SortByWeight:
		return "Weight"
	default:
		return "SortBy(" + strconv.Itoa(int(s)) + ")"
	}
}

// Valid reports whether s is one of the known attributes.
func (s SortBy) Valid() bool {
	return s >= SortByName && s <= SortByWeight
}

// ParseSortBy accepts attribute names in any case, plus their numeric values.
// An empty value selects SortByName.
func ParseSortBy(raw string) (SortBy, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return SortByName, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		if s := SortBy(n); s.Valid() {
			return s, nil
		}
		return 0, ErrInvalidSortBy
	}
	for s := SortByName; s <= SortByWeight; s++ {
		if strings.EqualFold(value, s.String()) {
			return s, nil
		}
	}
	return 0, ErrInvalidSortBy
}

// Order is the direction of a sorted listing.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder treats "desc" in any case as descending and everything else as ascending.
func ParseOrder(raw string) Order {
	if strings.EqualFold(strings.TrimSpace(raw), string(OrderDesc)) {
		return OrderDesc
	}
	return OrderAsc
}
