package domain_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"portions/internal/domain"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func mustParse(t *testing.T, text string) domain.ServingSize {
	t.Helper()
	s, err := domain.ParseServingSize(text)
	if err != nil {
		t.Fatalf("ParseServingSize(%q): %v", text, err)
	}
	return s
}

func TestParseServingSize_ToGrams(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"100g", 100},
		{"21,5g", 21.5},
		{"21.5g", 21.5},
		{"1kg", 1000},
		{"1l", 1000},
		{"330 ml", 330},
		{"1 cup", 200},
		{"1 tbsp", 15},
		{"1 bottle", 330},
		{"1 can", 250},
		{"1 piece", 20},
		{"1 slice", 30},
		{"1 serving", 150},
		{"2 tranches (60g)", 60},
		{"per 100g", 100},
		{"Portion 30g", 30},
		{"Serving size: 30 g", 30},
		{"Tranche 25 g", 25},
		{"1 portion (30 g)", 30},
		{"1 can (330ml)", 330},
		{"2 bouteilles (500 mL)", 500},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := mustParse(t, tc.input).ToGrams()
			if !almostEqual(float64(got), tc.want, 1e-9) {
				t.Errorf("ParseServingSize(%q).ToGrams() = %v; want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseServingSize_UnitWeightFromParentheses(t *testing.T) {
	s := mustParse(t, "2 tranches (60g)")
	if s.Unit() != domain.Slice || s.Amount() != 2 {
		t.Fatalf("got %v", s)
	}
	if s.GramsPerUnit() != 30 {
		t.Errorf("GramsPerUnit = %v; want 30", s.GramsPerUnit())
	}

	can := mustParse(t, "1 can (330ml)")
	if can.Unit() != domain.Can || can.GramsPerUnit() != 330 {
		t.Errorf("got %v; want 1 can of 330g", can)
	}
}

func TestParseServingSize_Errors(t *testing.T) {
	tests := []struct {
		input string
		want  error
	}{
		{"", domain.ErrInvalidServingSize},
		{"   ", domain.ErrInvalidServingSize},
		{"0g", domain.ErrInvalidServingSize},
		{"-5g", domain.ErrInvalidServingSize},
		{"une poignée", domain.ErrInvalidServingSize},
		{"12 widgets", domain.ErrInvalidPortionUnit},
	}
	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			_, err := domain.ParseServingSize(tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("ParseServingSize(%q) error = %v; want %v", tc.input, err, tc.want)
			}
		})
	}
}

func TestFactories(t *testing.T) {
	g, err := domain.NewGrams(150)
	if err != nil {
		t.Fatalf("NewGrams: %v", err)
	}
	if g.ToGrams() != 150 {
		t.Errorf("NewGrams(150).ToGrams() = %v", g.ToGrams())
	}

	p, err := domain.NewPieces(3, 25)
	if err != nil {
		t.Fatalf("NewPieces: %v", err)
	}
	if p.ToGrams() != 75 {
		t.Errorf("NewPieces(3, 25).ToGrams() = %v", p.ToGrams())
	}

	sl, err := domain.NewSlices(2, 30)
	if err != nil {
		t.Fatalf("NewSlices: %v", err)
	}
	if sl.ToGrams() != 60 {
		t.Errorf("NewSlices(2, 30).ToGrams() = %v", sl.ToGrams())
	}

	bad := []struct {
		name string
		fn   func() (domain.ServingSize, error)
	}{
		{"zero grams", func() (domain.ServingSize, error) { return domain.NewGrams(0) }},
		{"negative grams", func() (domain.ServingSize, error) { return domain.NewGrams(-1) }},
		{"NaN grams", func() (domain.ServingSize, error) { return domain.NewGrams(math.NaN()) }},
		{"zero pieces", func() (domain.ServingSize, error) { return domain.NewPieces(0, 20) }},
		{"weightless pieces", func() (domain.ServingSize, error) { return domain.NewPieces(2, 0) }},
		{"negative slices", func() (domain.ServingSize, error) { return domain.NewSlices(-2, 30) }},
		{"contextual grams", func() (domain.ServingSize, error) { return domain.NewContextualServing(1, domain.Gram, 10) }},
	}
	for _, tc := range bad {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.fn(); !errors.Is(err, domain.ErrInvalidServingSize) {
				t.Fatalf("expected ErrInvalidServingSize, got %v", err)
			}
		})
	}

	if _, err := domain.NewServingSize(1, "oz"); !errors.Is(err, domain.ErrInvalidPortionUnit) {
		t.Errorf("expected ErrInvalidPortionUnit, got %v", err)
	}
}

func TestUnitConstants(t *testing.T) {
	tests := []struct {
		unit domain.PortionUnit
		want domain.Grams
	}{
		{domain.Kilogram, 1000},
		{domain.Liter, 1000},
		{domain.Cup, 200},
		{domain.Bottle, 330},
		{domain.Can, 250},
		{domain.Piece, 20},
		{domain.Slice, 30},
		{domain.Serving, 150},
	}
	for _, tc := range tests {
		t.Run(string(tc.unit), func(t *testing.T) {
			s, err := domain.NewServingSize(1, tc.unit)
			if err != nil {
				t.Fatalf("NewServingSize: %v", err)
			}
			if s.ToGrams() != tc.want {
				t.Errorf("1 %s = %v; want %v", tc.unit, s.ToGrams(), tc.want)
			}
		})
	}
}

func TestServingSize_Equal(t *testing.T) {
	a, _ := domain.NewGrams(100)
	b, _ := domain.NewGrams(100)
	if !a.Equal(b) {
		t.Error("expected equal servings")
	}

	piece := mustParse(t, "1 piece")
	twenty, _ := domain.NewGrams(20)
	if piece.ToGrams() != twenty.ToGrams() {
		t.Fatalf("test setup: expected same gram weight")
	}
	if piece.Equal(twenty) {
		t.Error("same weight in different units must not be equal")
	}
}

func TestServingSize_WithAmountAndScale(t *testing.T) {
	base, _ := domain.NewSlices(1, 30)

	two, err := base.WithAmount(2)
	if err != nil {
		t.Fatalf("WithAmount: %v", err)
	}
	if two.ToGrams() != 60 || base.Amount() != 1 {
		t.Errorf("WithAmount(2) = %v, base = %v", two, base)
	}

	half, err := base.Scale(0.5)
	if err != nil {
		t.Fatalf("Scale: %v", err)
	}
	if half.ToGrams() != 15 || half.GramsPerUnit() != 30 {
		t.Errorf("Scale(0.5) = %v", half)
	}

	if _, err := base.WithAmount(0); !errors.Is(err, domain.ErrInvalidServingSize) {
		t.Errorf("WithAmount(0): expected ErrInvalidServingSize, got %v", err)
	}
	if _, err := base.Scale(-1); !errors.Is(err, domain.ErrInvalidServingSize) {
		t.Errorf("Scale(-1): expected ErrInvalidServingSize, got %v", err)
	}
	if _, err := base.Scale(0); !errors.Is(err, domain.ErrInvalidServingSize) {
		t.Errorf("Scale(0): expected ErrInvalidServingSize, got %v", err)
	}
}

func TestServingSize_DisplayString(t *testing.T) {
	hundred, _ := domain.NewGrams(100)
	pieces, _ := domain.NewPieces(3, 20)

	tests := []struct {
		name    string
		serving domain.ServingSize
		locale  string
		want    string
	}{
		{"piece fr", mustParse(t, "1 piece"), "fr", "1 pièce"},
		{"piece en", mustParse(t, "1 piece"), "en", "1 piece"},
		{"piece default", mustParse(t, "1 piece"), "", "1 pièce"},
		{"grams fr", hundred, "fr", "100 grammes"},
		{"grams en", hundred, "en", "100 grams"},
		{"decimal fr", mustParse(t, "21,5g"), "fr", "21,5 grammes"},
		{"decimal en", mustParse(t, "21,5g"), "en", "21.5 grams"},
		{"plural fr", pieces, "fr", "3 pièces"},
		{"unknown locale", pieces, "de", "3 pieces"},
		{"tablespoon fr", mustParse(t, "2 tbsp"), "fr", "2 cuillères à soupe"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.serving.DisplayString(tc.locale); got != tc.want {
				t.Errorf("DisplayString(%q) = %q; want %q", tc.locale, got, tc.want)
			}
		})
	}
}

func TestServingSize_DisplayContext(t *testing.T) {
	hundred, _ := domain.NewGrams(100)
	slice, _ := domain.NewSlices(1, 30)

	tests := []struct {
		name    string
		serving domain.ServingSize
		grams   domain.Grams
		locale  string
		want    domain.DisplayContext
	}{
		{
			name: "weight", serving: hundred, grams: 150, locale: "fr",
			want: domain.DisplayContext{QuantityText: "pour 150g", ServingDescription: "150g", IsPerProduct: false},
		},
		{
			name: "slices", serving: slice, grams: 60, locale: "fr",
			want: domain.DisplayContext{QuantityText: "pour 2 tranches", ServingDescription: "2 tranches (60g)", IsPerProduct: true},
		},
		{
			name: "rounds to nearest", serving: slice, grams: 50, locale: "fr",
			want: domain.DisplayContext{QuantityText: "pour 2 tranches", ServingDescription: "2 tranches (50g)", IsPerProduct: true},
		},
		{
			name: "never below one unit", serving: slice, grams: 10, locale: "fr",
			want: domain.DisplayContext{QuantityText: "pour 1 tranche", ServingDescription: "1 tranche (10g)", IsPerProduct: true},
		},
		{
			name: "english", serving: slice, grams: 60, locale: "en",
			want: domain.DisplayContext{QuantityText: "for 2 slices", ServingDescription: "2 slices (60g)", IsPerProduct: true},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.serving.DisplayContextIn(tc.grams, tc.locale); got != tc.want {
				t.Errorf("DisplayContextIn(%v, %q) = %+v; want %+v", tc.grams, tc.locale, got, tc.want)
			}
		})
	}

	if got := hundred.DisplayContext(150); got.QuantityText != "pour 150g" {
		t.Errorf("DisplayContext default locale = %q", got.QuantityText)
	}
}

func TestServingSize_StringAndJSON(t *testing.T) {
	s := mustParse(t, "1 piece")
	if got := s.String(); got != "1 piece (20g)" {
		t.Errorf("String() = %q", got)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m["unit"] != "piece" || m["grams"] != 20.0 {
		t.Errorf("unexpected JSON %s", b)
	}
}
