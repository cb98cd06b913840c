package domain

import (
	"fmt"
	"maps"
)

// UnitWeights maps each unit to the grams one unit represents. For count and
// container units these are coarse defaults that apply when the item does not
// carry its own per-unit weight.
type UnitWeights map[PortionUnit]Grams

var defaultUnitWeights = UnitWeights{
	Gram:       1,
	Kilogram:   1000,
	Per100g:    1,
	Milliliter: 1, // 1:1 density approximation
	Liter:      1000,
	Cup:        200,
	Tablespoon: 15,
	Piece:      20,
	Slice:      30,
	Serving:    150,
	Bottle:     330,
	Can:        250,
}

// DefaultUnitWeights returns a copy of the built-in weight table.
func DefaultUnitWeights() UnitWeights {
	return maps.Clone(defaultUnitWeights)
}

// With returns a copy of w with the given overrides applied. Overrides must
// target contextual or volume units and be positive; weight units are fixed.
func (w UnitWeights) With(overrides map[PortionUnit]Grams) (UnitWeights, error) {
	out := maps.Clone(w)
	if out == nil {
		out = DefaultUnitWeights()
	}
	for u, g := range overrides {
		if !u.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPortionUnit, u)
		}
		if u.IsWeightBased() {
			return nil, fmt.Errorf("weight of %q is fixed", u)
		}
		if g <= 0 {
			return nil, fmt.Errorf("%w: weight for %q must be > 0, got %v", ErrInvalidServingSize, u, float64(g))
		}
		out[u] = g
	}
	return out, nil
}

// PerUnit returns the grams for one unit of u, falling back to the default
// table for units missing from w.
func (w UnitWeights) PerUnit(u PortionUnit) Grams {
	if g, ok := w[u]; ok && g > 0 {
		return g
	}
	return defaultUnitWeights[u]
}
