package domain

import (
	"cmp"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// Bounds for a plausible serving.
const (
	MinServingGrams Grams = 1
	MaxServingGrams Grams = 5000
)

// Ceilings on the unit count of contextual servings ("100 pieces" is
// rejected even when the pieces are light).
var maxUnitCounts = map[PortionUnit]float64{
	Piece:   10,
	Slice:   10,
	Serving: 10,
	Bottle:  8,
	Can:     8,
}

var (
	suggestionMultipliers = []float64{0.5, 1, 1.5, 2, 3}
	suggestionGrams       = []float64{50, 100, 200}
)

// FoodServingData is the structured serving carried by catalog records.
type FoodServingData struct {
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// QuantityConverter parses, converts and validates servings. It holds no
// mutable state and is safe for concurrent use.
type QuantityConverter struct {
	weights UnitWeights
	logger  *slog.Logger
}

// ConverterOption configures a QuantityConverter.
type ConverterOption func(*QuantityConverter)

// WithUnitWeights overrides the default per-unit gram weights of volume,
// count and container units. Weight units keep their fixed factors; unknown
// units and non-positive weights are ignored. Use UnitWeights.With to have
// such entries reported as errors.
func WithUnitWeights(w UnitWeights) ConverterOption {
	return func(c *QuantityConverter) {
		if len(w) == 0 {
			return
		}
		c.weights = DefaultUnitWeights()
		for u, g := range w {
			if u.Valid() && !u.IsWeightBased() && g > 0 {
				c.weights[u] = g
			}
		}
	}
}

// WithLogger sets the logger used for fallback diagnostics.
func WithLogger(l *slog.Logger) ConverterOption {
	return func(c *QuantityConverter) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewQuantityConverter returns a converter using the default unit weights.
func NewQuantityConverter(opts ...ConverterOption) *QuantityConverter {
	c := &QuantityConverter{
		weights: DefaultUnitWeights(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Weights returns a copy of the converter's unit weight table.
func (c *QuantityConverter) Weights() UnitWeights {
	return maps.Clone(c.weights)
}

// ParseServingString parses text into a serving. Empty text fails with
// ErrInvalidServingSize; text that is present but unreadable yields the
// 100 g default so downstream calculations can proceed.
func (c *QuantityConverter) ParseServingString(text string) (ServingSize, error) {
	if strings.TrimSpace(text) == "" {
		return ServingSize{}, fmt.Errorf("%w: empty input", ErrInvalidServingSize)
	}
	s, err := parseServingSize(text, c.weights)
	if err != nil {
		c.logger.Warn("unparseable serving size, using default",
			"input", text,
			"default", DefaultServingSize(),
			"error", err)
		return DefaultServingSize(), nil
	}
	return s, nil
}

// ParseServingSize is the strict counterpart of ParseServingString: it uses the
// converter's unit weights and reports every parse failure.
func (c *QuantityConverter) ParseServingSize(text string) (ServingSize, error) {
	return parseServingSize(text, c.weights)
}

// ConvertToGrams returns the gram equivalent of amount units.
func (c *QuantityConverter) ConvertToGrams(amount float64, unit PortionUnit) (Grams, error) {
	s, err := newServing(amount, unit, c.weights.PerUnit(unit))
	if err != nil {
		return 0, err
	}
	return s.ToGrams(), nil
}

// GenerateDisplayContext describes selected relative to serving.
func (c *QuantityConverter) GenerateDisplayContext(serving ServingSize, selected Grams) DisplayContext {
	return serving.DisplayContext(selected)
}

// ExtractServingSizeFromFoodData adapts a catalog {amount, unit} pair. Catalog
// data is untrusted: anything unusable yields the 100 g default.
func (c *QuantityConverter) ExtractServingSizeFromFoodData(data FoodServingData) ServingSize {
	unit, err := ParsePortionUnit(data.Unit)
	if err == nil {
		var s ServingSize
		s, err = newServing(data.Amount, unit, c.weights.PerUnit(unit))
		if err == nil {
			return s
		}
	}
	c.logger.Warn("unusable catalog serving, using default",
		"amount", data.Amount,
		"unit", data.Unit,
		"error", err)
	return DefaultServingSize()
}

// CalculatePortionRatio returns selected divided by the base serving weight.
func (c *QuantityConverter) CalculatePortionRatio(base ServingSize, selected Grams) Ratio {
	return Ratio(selected / base.ToGrams())
}

// ScaleCalories returns calories declared for base scaled linearly to selected.
func (c *QuantityConverter) ScaleCalories(calories Kilocalories, base ServingSize, selected Grams) Kilocalories {
	return calories.Scale(c.CalculatePortionRatio(base, selected))
}

// ValidateServingSize reports whether s weighs between 1 g and 5000 g and, for
// contextual units, does not exceed the unit's count ceiling.
func (c *QuantityConverter) ValidateServingSize(s ServingSize) bool {
	if !s.unit.Valid() || !positive(s.amount) {
		return false
	}
	g := s.ToGrams()
	if g < MinServingGrams || g > MaxServingGrams {
		return false
	}
	if limit, ok := maxUnitCounts[s.unit]; ok && s.amount > limit {
		return false
	}
	return true
}

// GetSuggestedServings returns quick-pick candidates: the base serving scaled
// by fixed multipliers and, for non-weight units, a few gram amounts. Invalid
// candidates are dropped.
func (c *QuantityConverter) GetSuggestedServings(base ServingSize) []ServingSize {
	out := make([]ServingSize, 0, len(suggestionMultipliers)+len(suggestionGrams))
	add := func(s ServingSize) {
		if !c.ValidateServingSize(s) {
			return
		}
		for _, existing := range out {
			if existing.Equal(s) {
				return
			}
		}
		out = append(out, s)
	}

	for _, m := range suggestionMultipliers {
		if s, err := base.Scale(m); err == nil {
			add(s)
		}
	}
	if !base.unit.IsWeightBased() {
		for _, g := range suggestionGrams {
			if s, err := NewGrams(g); err == nil {
				add(s)
			}
		}
	}
	return out
}

// CompareServings orders servings by gram weight, regardless of unit.
func (c *QuantityConverter) CompareServings(a, b ServingSize) int {
	return cmp.Compare(a.ToGrams(), b.ToGrams())
}

// FormatForLogging renders "{amount} {unit} ({grams}g)".
func (c *QuantityConverter) FormatForLogging(s ServingSize) string {
	return s.String()
}
