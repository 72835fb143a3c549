// Package ranking derives the displayed order of a result list from the raw
// list and a sort state.
//
// Ordering never touches the input: DeriveOrder returns a fresh slice holding
// the same elements, and sorting is stable in both directions, so records that
// compare equal always keep the relative order the backend sent them in.
package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/aushadhiai/screening-console/pkg/errors"
)

// SortField names an ordering key.
type SortField string

const (
	FieldNone    SortField = ""
	FieldPotency SortField = "potency"
	FieldName    SortField = "name"
	FieldMatch   SortField = "match"
)

func (f SortField) String() string { return string(f) }

// ParseField parses user input.  "ic50" is accepted for potency.
func ParseField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "potency", "ic50":
		return FieldPotency, nil
	case "name":
		return FieldName, nil
	case "match", "confidence":
		return FieldMatch, nil
	default:
		return FieldNone, errors.InvalidParam("unsupported sort field: " + s)
	}
}

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) String() string { return string(d) }

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// ParseDirection parses user input.  An empty string is Asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Asc, nil
	case "desc", "descending":
		return Desc, nil
	default:
		return "", errors.InvalidParam("unsupported sort direction: " + s)
	}
}

// SortState is the active ordering.  The zero value keeps insertion order.
type SortState struct {
	Field     SortField `json:"field,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// IsZero reports whether the state keeps insertion order.
func (s SortState) IsZero() bool { return s.Field == FieldNone }

// Toggle selects field.  Selecting the active field flips its direction;
// selecting any other field starts it ascending.
func (s SortState) Toggle(field SortField) SortState {
	if field == s.Field && !s.IsZero() {
		return SortState{Field: field, Direction: s.Direction.Flip()}
	}
	return SortState{Field: field, Direction: Asc}
}

// Comparator orders two records: negative, zero or positive.
type Comparator[T any] func(a, b T) int

// ByPotency compares numerically on key.
func ByPotency[T any](key func(T) float64) Comparator[T] {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

// ByName compares key with a locale-aware collation.  A nil collation uses
// English.
func ByName[T any](c *Collation, key func(T) string) Comparator[T] {
	if c == nil {
		c = English()
	}
	return func(a, b T) int { return c.Compare(key(a), key(b)) }
}

// DeriveOrder returns a new slice with the elements of records ordered by c
// in direction dir.  records is never modified.
func DeriveOrder[T any](records []T, c Comparator[T], dir Direction) []T {
	out := slices.Clone(records)
	if out == nil {
		out = []T{}
	}
	if c == nil {
		return out
	}
	if dir == Desc {
		slices.SortStableFunc(out, func(a, b T) int { return c(b, a) })
	} else {
		slices.SortStableFunc(out, c)
	}
	return out
}

// Set is the closed list of fields a page can sort by.
type Set[T any] struct {
	order  []SortField
	fields map[SortField]Comparator[T]
}

// NewSet returns an empty field set.
func NewSet[T any]() *Set[T] {
	return &Set[T]{fields: make(map[SortField]Comparator[T])}
}

// With registers a field.  Registering a field twice replaces its comparator.
func (s *Set[T]) With(field SortField, c Comparator[T]) *Set[T] {
	if _, ok := s.fields[field]; !ok {
		s.order = append(s.order, field)
	}
	s.fields[field] = c
	return s
}

// Fields lists the registered fields in registration order.
func (s *Set[T]) Fields() []SortField { return slices.Clone(s.order) }

// Supports reports whether field is registered.
func (s *Set[T]) Supports(field SortField) bool {
	_, ok := s.fields[field]
	return ok
}

// Validate rejects states the set cannot derive.
func (s *Set[T]) Validate(state SortState) error {
	if state.IsZero() {
		return nil
	}
	if !s.Supports(state.Field) {
		return errors.InvalidParam("field not sortable here: " + state.Field.String())
	}
	if state.Direction != Asc && state.Direction != Desc {
		return errors.InvalidParam("unsupported sort direction: " + state.Direction.String())
	}
	return nil
}

// Derive orders records by state.  The zero state returns a copy in
// insertion order.
func (s *Set[T]) Derive(records []T, state SortState) ([]T, error) {
	if err := s.Validate(state); err != nil {
		return nil, err
	}
	if state.IsZero() {
		return DeriveOrder[T](records, nil, Asc), nil
	}
	return DeriveOrder(records, s.fields[state.Field], state.Direction), nil
}
