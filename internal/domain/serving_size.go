package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidServingSize is returned when a serving amount is not positive or
// when no amount can be read from the input.
var ErrInvalidServingSize = errors.New("invalid serving size")

// DefaultServingGrams is the serving used when upstream data cannot be read.
const DefaultServingGrams Grams = 100

var (
	amountPattern    = regexp.MustCompile(`[-+]?\d+(?:[.,]\d+)?`)
	unitWeightSuffix = regexp.MustCompile(`(?i)\(\s*(\d+(?:[.,]\d+)?)\s*(?:g|ml)\s*\)`)
)

// ServingSize is an immutable amount of a unit, e.g. 2 slices or 150 grams.
// The zero value is not a valid serving; use one of the constructors.
type ServingSize struct {
	amount       float64
	unit         PortionUnit
	gramsPerUnit Grams
}

// DisplayContext describes a gram quantity in terms of a serving's unit.
type DisplayContext struct {
	QuantityText       string `json:"quantityText"`
	ServingDescription string `json:"servingDescription"`
	IsPerProduct       bool   `json:"isPerProduct"`
}

// NewServingSize builds a serving using the default weight for unit.
func NewServingSize(amount float64, unit PortionUnit) (ServingSize, error) {
	return newServing(amount, unit, defaultUnitWeights.PerUnit(unit))
}

// NewContextualServing builds a count or container serving whose items weigh
// gramsEach.
func NewContextualServing(amount float64, unit PortionUnit, gramsEach Grams) (ServingSize, error) {
	if !unit.RequiresContextualConversion() {
		return ServingSize{}, fmt.Errorf("%w: %q has a fixed gram weight", ErrInvalidServingSize, unit)
	}
	if !positive(float64(gramsEach)) {
		return ServingSize{}, fmt.Errorf("%w: weight per %s must be > 0, got %v", ErrInvalidServingSize, unit, float64(gramsEach))
	}
	return newServing(amount, unit, gramsEach)
}

// NewGrams returns a weight serving of amount grams.
func NewGrams(amount float64) (ServingSize, error) {
	return NewServingSize(amount, Gram)
}

// NewPieces returns count pieces weighing gramsEach.
func NewPieces(count float64, gramsEach Grams) (ServingSize, error) {
	return NewContextualServing(count, Piece, gramsEach)
}

// NewSlices returns count slices weighing gramsEach.
func NewSlices(count float64, gramsEach Grams) (ServingSize, error) {
	return NewContextualServing(count, Slice, gramsEach)
}

// DefaultServingSize returns the 100 g fallback serving.
func DefaultServingSize() ServingSize {
	return ServingSize{amount: float64(DefaultServingGrams), unit: Gram, gramsPerUnit: 1}
}

func newServing(amount float64, unit PortionUnit, gramsPerUnit Grams) (ServingSize, error) {
	if !unit.Valid() {
		return ServingSize{}, fmt.Errorf("%w: %q", ErrInvalidPortionUnit, unit)
	}
	if !positive(amount) {
		return ServingSize{}, fmt.Errorf("%w: amount must be > 0, got %v", ErrInvalidServingSize, amount)
	}
	return ServingSize{amount: amount, unit: unit, gramsPerUnit: gramsPerUnit}, nil
}

// ParseServingSize reads a serving from free text such as "100g", "21,5g",
// "1 piece" or "2 tranches (60g)". Both "." and "," are accepted as decimal
// separators. A parenthesised weight on a count or container serving, in
// grams or millilitres at 1 g/ml, is taken as the total weight of the serving.
func ParseServingSize(text string) (ServingSize, error) {
	return parseServingSize(text, defaultUnitWeights)
}

func parseServingSize(text string, weights UnitWeights) (ServingSize, error) {
	if strings.TrimSpace(text) == "" {
		return ServingSize{}, fmt.Errorf("%w: empty input", ErrInvalidServingSize)
	}
	raw := amountPattern.FindString(text)
	if raw == "" {
		return ServingSize{}, fmt.Errorf("%w: no amount in %q", ErrInvalidServingSize, text)
	}
	amount, err := parseDecimal(raw)
	if err != nil {
		return ServingSize{}, fmt.Errorf("%w: bad amount %q", ErrInvalidServingSize, raw)
	}
	if !positive(amount) {
		return ServingSize{}, fmt.Errorf("%w: amount must be > 0, got %v", ErrInvalidServingSize, amount)
	}

	unit, err := ParsePortionUnit(text)
	if err != nil {
		return ServingSize{}, err
	}

	perUnit := weights.PerUnit(unit)
	if unit.RequiresContextualConversion() {
		if m := unitWeightSuffix.FindStringSubmatch(text); m != nil {
			if total, err := parseDecimal(m[1]); err == nil && positive(total) {
				perUnit = Grams(total / amount)
			}
		}
	}
	return newServing(amount, unit, perUnit)
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Amount returns the number of units.
func (s ServingSize) Amount() float64 { return s.amount }

// Unit returns the serving's unit.
func (s ServingSize) Unit() PortionUnit { return s.unit }

// GramsPerUnit returns the weight of one unit of this serving.
func (s ServingSize) GramsPerUnit() Grams { return s.gramsPerUnit }

// ToGrams returns the gram equivalent of the whole serving.
func (s ServingSize) ToGrams() Grams {
	return Grams(s.amount) * s.gramsPerUnit
}

// Equal reports whether both servings have the same amount and unit. Two
// servings with the same gram weight in different units are not equal.
func (s ServingSize) Equal(other ServingSize) bool {
	return s.amount == other.amount && s.unit == other.unit
}

// WithAmount returns a copy of s holding amount units.
func (s ServingSize) WithAmount(amount float64) (ServingSize, error) {
	return newServing(amount, s.unit, s.gramsPerUnit)
}

// Scale returns a copy of s with its amount multiplied by factor.
func (s ServingSize) Scale(factor float64) (ServingSize, error) {
	return newServing(s.amount*factor, s.unit, s.gramsPerUnit)
}

// DisplayString renders "1 pièce", "100 grammes" or "2 slices". An empty
// locale renders French.
func (s ServingSize) DisplayString(locale string) string {
	loc := resolveLocale(locale)
	name := DisplayName(s.unit, loc).For(s.amount, loc)
	return formatAmount(s.amount, locales[loc].decimalSep) + " " + name
}

// DisplayContext describes selected in French terms of this serving.
func (s ServingSize) DisplayContext(selected Grams) DisplayContext {
	return s.DisplayContextIn(selected, DefaultLocale)
}

// DisplayContextIn describes selected relative to this serving. Weight and
// volume servings render the grams as given ("pour 150g"); count and
// container servings render the nearest whole number of units, never fewer
// than one ("pour 2 tranches").
func (s ServingSize) DisplayContextIn(selected Grams, locale string) DisplayContext {
	loc := resolveLocale(locale)
	info := locales[loc]
	grams := formatAmount(float64(selected), info.decimalSep) + "g"

	if !s.unit.RequiresContextualConversion() {
		return DisplayContext{
			QuantityText:       info.forWord + " " + grams,
			ServingDescription: grams,
			IsPerProduct:       false,
		}
	}

	units := 0.0
	if s.gramsPerUnit > 0 {
		units = math.Round(float64(selected / s.gramsPerUnit))
	}
	if units < 1 && selected > 0 {
		units = 1
	}
	count := formatAmount(units, info.decimalSep) + " " + DisplayName(s.unit, loc).For(units, loc)
	return DisplayContext{
		QuantityText:       info.forWord + " " + count,
		ServingDescription: count + " (" + grams + ")",
		IsPerProduct:       true,
	}
}

// String renders "{amount} {unit} ({grams}g)" for diagnostics.
func (s ServingSize) String() string {
	return fmt.Sprintf("%s %s (%s)", formatAmount(s.amount, "."), s.unit.short(), Grams(roundTo(float64(s.ToGrams()), 2)))
}

// LogValue implements slog.LogValuer.
func (s ServingSize) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("amount", s.amount),
		slog.String("unit", string(s.unit)),
		slog.Float64("grams", float64(s.ToGrams())),
	)
}

type servingJSON struct {
	Amount       float64     `json:"amount"`
	Unit         PortionUnit `json:"unit"`
	GramsPerUnit Grams       `json:"gramsPerUnit"`
	Grams        Grams       `json:"grams"`
}

// MarshalJSON encodes the serving with its gram equivalent.
func (s ServingSize) MarshalJSON() ([]byte, error) {
	return json.Marshal(servingJSON{
		Amount:       s.amount,
		Unit:         s.unit,
		GramsPerUnit: s.gramsPerUnit,
		Grams:        s.ToGrams(),
	})
}
