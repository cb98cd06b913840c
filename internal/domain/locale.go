package domain

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	LocaleFR = "fr"
	LocaleEN = "en"

	// DefaultLocale is used when the caller passes no locale at all.
	DefaultLocale = LocaleFR
	// FallbackLocale is used when the caller passes a locale we have no names for.
	FallbackLocale = LocaleEN
)

// UnitName holds the singular and plural display forms of a unit.
type UnitName struct {
	Singular string
	Plural   string
}

// For picks the form matching amount using the locale's plural rule.
func (n UnitName) For(amount float64, locale string) string {
	if isSingular(amount, resolveLocale(locale)) {
		return n.Singular
	}
	return n.Plural
}

type localeInfo struct {
	decimalSep string
	forWord    string
	names      map[PortionUnit]UnitName
}

var locales = map[string]localeInfo{
	LocaleFR: {
		decimalSep: ",",
		forWord:    "pour",
		names: map[PortionUnit]UnitName{
			Gram:       {"gramme", "grammes"},
			Kilogram:   {"kilogramme", "kilogrammes"},
			Per100g:    {"gramme", "grammes"},
			Milliliter: {"millilitre", "millilitres"},
			Liter:      {"litre", "litres"},
			Cup:        {"tasse", "tasses"},
			Tablespoon: {"cuillère à soupe", "cuillères à soupe"},
			Piece:      {"pièce", "pièces"},
			Slice:      {"tranche", "tranches"},
			Serving:    {"portion", "portions"},
			Bottle:     {"bouteille", "bouteilles"},
			Can:        {"canette", "canettes"},
		},
	},
	LocaleEN: {
		decimalSep: ".",
		forWord:    "for",
		names: map[PortionUnit]UnitName{
			Gram:       {"gram", "grams"},
			Kilogram:   {"kilogram", "kilograms"},
			Per100g:    {"gram", "grams"},
			Milliliter: {"milliliter", "milliliters"},
			Liter:      {"liter", "liters"},
			Cup:        {"cup", "cups"},
			Tablespoon: {"tablespoon", "tablespoons"},
			Piece:      {"piece", "pieces"},
			Slice:      {"slice", "slices"},
			Serving:    {"serving", "servings"},
			Bottle:     {"bottle", "bottles"},
			Can:        {"can", "cans"},
		},
	},
}

// DisplayName returns the display forms of unit in locale. An empty locale
// means French; a locale without a name table falls back to English. Region
// subtags are ignored ("fr-CA" uses the French names).
func DisplayName(unit PortionUnit, locale string) UnitName {
	info := locales[resolveLocale(locale)]
	if n, ok := info.names[unit]; ok {
		return n
	}
	return UnitName{Singular: string(unit), Plural: string(unit)}
}

// resolveLocale maps a caller-supplied locale to a key of the locales table.
func resolveLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return FallbackLocale
	}
	base, _ := tag.Base()
	if _, ok := locales[base.String()]; ok {
		return base.String()
	}
	return FallbackLocale
}

// French treats amounts below 2 as singular ("1,5 tranche"); English only 1.
func isSingular(amount float64, locale string) bool {
	if locale == LocaleFR {
		return amount < 2
	}
	return amount == 1
}
