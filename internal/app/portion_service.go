package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"portions/internal/domain"
)

// EstimateRequest describes a portion to price. Either Barcode names a catalog
// entry, or ServingText and Calories describe the reference serving inline.
type EstimateRequest struct {
	Barcode       string              `json:"barcode"`
	ServingText   string              `json:"servingText"`
	Calories      domain.Kilocalories `json:"calories"`
	SelectedGrams domain.Grams        `json:"selectedGrams"`
	Locale        string              `json:"locale"`
}

// PortionEstimate is the result of scaling a reference serving to the
// selected quantity.
type PortionEstimate struct {
	Food           *domain.Food          `json:"food,omitempty"`
	Serving        domain.ServingSize    `json:"serving"`
	ServingDisplay string                `json:"servingDisplay"`
	BaseGrams      domain.Grams          `json:"baseGrams"`
	SelectedGrams  domain.Grams          `json:"selectedGrams"`
	Ratio          domain.Ratio          `json:"ratio"`
	Calories       domain.Kilocalories   `json:"calories"`
	Display        domain.DisplayContext `json:"display"`
	// Valid is false when the selection, expressed in the serving's unit,
	// falls outside the plausible range (e.g. 40 slices).
	Valid bool `json:"valid"`
}

// SuggestRequest selects the serving to derive quick picks from.
type SuggestRequest struct {
	Barcode     string
	ServingText string
	Locale      string
}

// Suggestion is one quick-pick serving.
type Suggestion struct {
	Serving domain.ServingSize `json:"serving"`
	Grams   domain.Grams       `json:"grams"`
	Display string             `json:"display"`
}

// ParsedServing is the diagnostic view of a parsed serving string.
type ParsedServing struct {
	Serving  domain.ServingSize  `json:"serving"`
	Grams    domain.Grams        `json:"grams"`
	Category domain.UnitCategory `json:"category"`
	Display  string              `json:"display"`
}

// PortionService turns servings and gram selections into calorie estimates.
type PortionService struct {
	catalog   *CatalogService
	converter *domain.QuantityConverter
}

// NewPortionService creates a PortionService. catalog may be nil, in which
// case only inline servings are accepted.
func NewPortionService(catalog *CatalogService, converter *domain.QuantityConverter) *PortionService {
	return &PortionService{catalog: catalog, converter: converter}
}

// Estimate scales the reference serving's calories to req.SelectedGrams.
func (s *PortionService) Estimate(ctx context.Context, req EstimateRequest) (*PortionEstimate, error) {
	if req.SelectedGrams <= 0 || req.SelectedGrams > domain.MaxServingGrams {
		return nil, fmt.Errorf("%w: selected grams must be in (0, %v], got %v",
			domain.ErrInvalidServingSize, float64(domain.MaxServingGrams), float64(req.SelectedGrams))
	}

	food, serving, err := s.resolve(ctx, req.Barcode, req.ServingText)
	if err != nil {
		return nil, err
	}
	calories := req.Calories
	if food != nil {
		calories = food.Calories
	}
	if calories < 0 {
		return nil, fmt.Errorf("%w: calories must be >= 0", ErrInvalidInput)
	}

	ratio := s.converter.CalculatePortionRatio(serving, req.SelectedGrams)
	valid := false
	if selected, err := serving.Scale(float64(ratio)); err == nil {
		valid = s.converter.ValidateServingSize(selected)
	}

	est := &PortionEstimate{
		Food:           food,
		Serving:        serving,
		ServingDisplay: serving.DisplayString(req.Locale),
		BaseGrams:      serving.ToGrams(),
		SelectedGrams:  req.SelectedGrams,
		Ratio:          ratio,
		Calories:       calories.Scale(ratio),
		Display:        serving.DisplayContextIn(req.SelectedGrams, req.Locale),
		Valid:          valid,
	}
	slog.DebugContext(ctx, "portion estimated",
		"serving", serving,
		"selected_grams", float64(req.SelectedGrams),
		"ratio", float64(ratio),
		"valid", valid)
	return est, nil
}

// Suggest returns quick-pick servings derived from the reference serving.
func (s *PortionService) Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error) {
	_, serving, err := s.resolve(ctx, req.Barcode, req.ServingText)
	if err != nil {
		return nil, err
	}
	picks := s.converter.GetSuggestedServings(serving)
	out := make([]Suggestion, 0, len(picks))
	for _, p := range picks {
		out = append(out, Suggestion{
			Serving: p,
			Grams:   p.ToGrams(),
			Display: p.DisplayString(req.Locale),
		})
	}
	return out, nil
}

// Parse reads text strictly and reports any failure.
func (s *PortionService) Parse(text, locale string) (*ParsedServing, error) {
	serving, err := s.converter.ParseServingSize(text)
	if err != nil {
		return nil, err
	}
	return &ParsedServing{
		Serving:  serving,
		Grams:    serving.ToGrams(),
		Category: serving.Unit().Category(),
		Display:  serving.DisplayString(locale),
	}, nil
}

// resolve returns the reference serving for a barcode or inline text.
func (s *PortionService) resolve(ctx context.Context, barcode, servingText string) (*domain.Food, domain.ServingSize, error) {
	if strings.TrimSpace(barcode) == "" {
		serving, err := s.converter.ParseServingString(servingText)
		return nil, serving, err
	}
	if s.catalog == nil {
		return nil, domain.ServingSize{}, ErrFoodNotFound
	}
	food, err := s.catalog.LookupBarcode(ctx, barcode)
	if err != nil {
		return nil, domain.ServingSize{}, err
	}
	return food, s.servingFor(*food), nil
}

// servingFor prefers the structured pair, then the printed text, then the
// 100 g default.
func (s *PortionService) servingFor(f domain.Food) domain.ServingSize {
	if data, ok := f.StructuredServing(); ok {
		return s.converter.ExtractServingSizeFromFoodData(data)
	}
	if strings.TrimSpace(f.ServingText) == "" {
		return domain.DefaultServingSize()
	}
	serving, err := s.converter.ParseServingString(f.ServingText)
	if err != nil {
		return domain.DefaultServingSize()
	}
	return serving
}
