package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidPortionUnit is returned when a unit token does not match the
// closed unit vocabulary.
var ErrInvalidPortionUnit = errors.New("invalid portion unit")

// PortionUnit is a recognized unit of measure for a serving.
type PortionUnit string

const (
	Gram       PortionUnit = "g"
	Kilogram   PortionUnit = "kg"
	Per100g    PortionUnit = "100g"
	Milliliter PortionUnit = "ml"
	Liter      PortionUnit = "l"
	Cup        PortionUnit = "cup"
	Tablespoon PortionUnit = "tbsp"
	Piece      PortionUnit = "piece"
	Slice      PortionUnit = "slice"
	Serving    PortionUnit = "serving"
	Bottle     PortionUnit = "bottle"
	Can        PortionUnit = "can"
)

// UnitCategory groups units by how their gram value is determined.
type UnitCategory string

const (
	CategoryWeight    UnitCategory = "weight"
	CategoryVolume    UnitCategory = "volume"
	CategoryCount     UnitCategory = "count"
	CategoryContainer UnitCategory = "container"
)

var unitCategories = map[PortionUnit]UnitCategory{
	Gram:       CategoryWeight,
	Kilogram:   CategoryWeight,
	Per100g:    CategoryWeight,
	Milliliter: CategoryVolume,
	Liter:      CategoryVolume,
	Cup:        CategoryVolume,
	Tablespoon: CategoryVolume,
	Piece:      CategoryCount,
	Slice:      CategoryCount,
	Serving:    CategoryCount,
	Bottle:     CategoryContainer,
	Can:        CategoryContainer,
}

// AllUnits lists every unit in declaration order.
func AllUnits() []PortionUnit {
	return []PortionUnit{Gram, Kilogram, Per100g, Milliliter, Liter, Cup, Tablespoon, Piece, Slice, Serving, Bottle, Can}
}

// Valid reports whether u belongs to the unit vocabulary.
func (u PortionUnit) Valid() bool {
	_, ok := unitCategories[u]
	return ok
}

// Category returns the unit's category, or "" for an unknown unit.
func (u PortionUnit) Category() UnitCategory {
	return unitCategories[u]
}

// IsWeightBased reports whether u is a mass unit.
func (u PortionUnit) IsWeightBased() bool { return u.Category() == CategoryWeight }

// IsVolumeBased reports whether u is a volume unit.
func (u PortionUnit) IsVolumeBased() bool { return u.Category() == CategoryVolume }

// short is the unit's log abbreviation. Per100g servings count grams.
func (u PortionUnit) short() string {
	if u == Per100g {
		return string(Gram)
	}
	return string(u)
}

// RequiresContextualConversion reports whether the gram value of u depends on
// the item (pieces, slices, servings, bottles, cans).
func (u PortionUnit) RequiresContextualConversion() bool {
	c := u.Category()
	return c == CategoryCount || c == CategoryContainer
}

var (
	per100gPattern = regexp.MustCompile(`(?:\bper|\bpour|/)\s*100\s*g\b|\b100\s*g\s*(?:per|pour)\b`)
	// Captures the word directly after the first number in the text.
	amountSuffix   = regexp.MustCompile(`^\D*?\d+(?:[.,]\d+)?\s*(\p{L}*)`)
	wordSplitter   = regexp.MustCompile(`[^\p{L}]+`)
)

// Suffixes that follow a number directly ("100g", "2 cups"). Keys are
// accent-folded.
var measureSuffixes = map[string]PortionUnit{
	"g": Gram, "gr": Gram, "gram": Gram, "grams": Gram, "gramme": Gram, "grammes": Gram,
	"kg": Kilogram, "kilo": Kilogram, "kilos": Kilogram, "kilogram": Kilogram, "kilograms": Kilogram,
	"kilogramme": Kilogram, "kilogrammes": Kilogram,
	"ml": Milliliter, "milliliter": Milliliter, "milliliters": Milliliter, "millilitre": Milliliter, "millilitres": Milliliter,
	"l": Liter, "liter": Liter, "liters": Liter, "litre": Liter, "litres": Liter,
	"cup": Cup, "cups": Cup, "tasse": Cup, "tasses": Cup,
	"tbsp": Tablespoon, "tablespoon": Tablespoon, "tablespoons": Tablespoon,
	"cuillere": Tablespoon, "cuilleres": Tablespoon, "cas": Tablespoon,
}

// Count and container words, matched anywhere in the remaining text.
var unitWords = map[string]PortionUnit{
	"piece": Piece, "pieces": Piece, "pc": Piece, "pcs": Piece, "unite": Piece, "unites": Piece,
	"slice": Slice, "slices": Slice, "tranche": Slice, "tranches": Slice,
	"serving": Serving, "servings": Serving, "portion": Serving, "portions": Serving,
	"bottle": Bottle, "bottles": Bottle, "bouteille": Bottle, "bouteilles": Bottle,
	"can": Can, "cans": Can, "canette": Can, "canettes": Can,
}

// ParsePortionUnit resolves free text such as "100g", "2 tranches" or
// "per 100g" into a unit. Matching is case and accent insensitive and accepts
// English and French synonyms. A weight or volume suffix on the first number
// wins over count words elsewhere in the text ("Portion 30g" is 30 g).
func ParsePortionUnit(input string) (PortionUnit, error) {
	s := foldText(input)
	if s == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidPortionUnit)
	}
	if per100gPattern.MatchString(s) {
		return Per100g, nil
	}

	m := amountSuffix.FindStringSubmatch(s)
	if m != nil {
		if u, ok := measureSuffixes[m[1]]; ok {
			return u, nil
		}
		if u, ok := unitWords[m[1]]; ok {
			return u, nil
		}
	}
	words := compact(wordSplitter.Split(s, -1))
	if len(words) == 0 {
		return "", fmt.Errorf("%w: no unit in %q", ErrInvalidPortionUnit, input)
	}
	if m == nil {
		if u, ok := measureSuffixes[words[0]]; ok {
			return u, nil
		}
	}
	for _, w := range words {
		if u, ok := unitWords[w]; ok {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: unrecognized unit in %q", ErrInvalidPortionUnit, input)
}

// foldText lower-cases, trims and strips diacritics ("Pièces" -> "pieces").
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

func compact(words []string) []string {
	out := words[:0]
	for _, w := range words {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}
