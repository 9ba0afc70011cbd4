package catalog

import (
	"cmp"
	"fmt"
	"slices"
)

// Scale is the total order of the distances within one distance type.
type Scale struct {
	typeCode  string
	ordered   []Distance
	positions map[string]int64
}

// NewScale orders distances by position. Every distance must belong to
// typeCode, and codes and positions must be unique.
func NewScale(typeCode string, distances []Distance) (*Scale, error) {
	s := &Scale{
		typeCode:  typeCode,
		ordered:   slices.Clone(distances),
		positions: make(map[string]int64, len(distances)),
	}

	byPosition := make(map[int64]string, len(distances))
	for _, d := range distances {
		if d.Type != typeCode {
			return nil, fmt.Errorf("distance %q belongs to type %q, not %q", d.Code, d.Type, typeCode)
		}
		if _, dup := s.positions[d.Code]; dup {
			return nil, fmt.Errorf("distance type %q: duplicate distance code %q", typeCode, d.Code)
		}
		if other, dup := byPosition[d.Position]; dup {
			return nil, fmt.Errorf("distance type %q: %q and %q share position %d", typeCode, other, d.Code, d.Position)
		}
		s.positions[d.Code] = d.Position
		byPosition[d.Position] = d.Code
	}

	slices.SortFunc(s.ordered, func(a, b Distance) int {
		return cmp.Compare(a.Position, b.Position)
	})
	return s, nil
}

// Type returns the distance type code of the scale.
func (s *Scale) Type() string { return s.typeCode }

// Codes returns the distance codes from closest to farthest.
func (s *Scale) Codes() []string {
	codes := make([]string, len(s.ordered))
	for i, d := range s.ordered {
		codes[i] = d.Code
	}
	return codes
}

// Position returns the ordinal position of code.
func (s *Scale) Position(code string) (int64, bool) {
	p, ok := s.positions[code]
	return p, ok
}

// Compare returns -1 if a is closer than b, 0 if they are the same
// distance and +1 if a is farther than b.
func (s *Scale) Compare(a, b string) (int, error) {
	pa, err := s.mustPosition(a)
	if err != nil {
		return 0, err
	}
	pb, err := s.mustPosition(b)
	if err != nil {
		return 0, err
	}
	return cmp.Compare(pa, pb), nil
}

// Closer reports whether a is strictly closer than b.
func (s *Scale) Closer(a, b string) (bool, error) {
	c, err := s.Compare(a, b)
	if err != nil {
		return false, err
	}
	return c < 0, nil
}

// Between returns the absolute difference between the positions of a and b.
func (s *Scale) Between(a, b string) (int64, error) {
	pa, err := s.mustPosition(a)
	if err != nil {
		return 0, err
	}
	pb, err := s.mustPosition(b)
	if err != nil {
		return 0, err
	}
	if pa > pb {
		return pa - pb, nil
	}
	return pb - pa, nil
}

func (s *Scale) mustPosition(code string) (int64, error) {
	p, ok := s.positions[code]
	if !ok {
		return 0, fmt.Errorf("distance type %q has no distance %q", s.typeCode, code)
	}
	return p, nil
}
