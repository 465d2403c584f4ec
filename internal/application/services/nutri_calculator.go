package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/domain/providers"
)

// gradePoints maps a Nutri-Score grade to its 0-100 score.
var gradePoints = map[string]int{
	"a": 100,
	"b": 80,
	"c": 60,
	"d": 40,
	"e": 20,
}

// Official Nutri-Score point thresholds per 100g/100ml. A nutrient
// earns one point per bound its value exceeds: up to 10 negative
// points each for energy (kJ), sugars (g), saturated fat (g) and
// sodium (mg); up to 5 positive points each for fiber and protein (g).
var (
	energyBounds  = []float64{335, 670, 1005, 1340, 1675, 2010, 2345, 2680, 3015, 3350}
	sugarsBounds  = []float64{4.5, 9, 13.5, 18, 22.5, 27, 31, 36, 40, 45}
	satFatBounds  = []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	sodiumBounds  = []float64{90, 180, 270, 360, 450, 540, 630, 720, 810, 900}
	fiberBounds   = []float64{0.9, 1.9, 2.8, 3.7, 4.7}
	proteinBounds = []float64{1.6, 3.2, 4.8, 6.4, 8}
)

// proteinCutoff is the negative-point total at which protein points
// stop counting. The fruit/vegetable share that would re-enable them
// is not on our labels, so past the cutoff only fiber offsets.
const proteinCutoff = 11

// NutriCalculator produces the nutrient sub-score, preferring the
// external reference service's grade over local derivation.
type NutriCalculator struct {
	reference providers.NutritionReference // nil when disabled
	logger    zerolog.Logger
}

func NewNutriCalculator(reference providers.NutritionReference, logger zerolog.Logger) *NutriCalculator {
	return &NutriCalculator{
		reference: reference,
		logger:    logger.With().Str("service", "nutri_calculator").Logger(),
	}
}

// Compute returns the nutrient sub-score for a product, plus the raw
// reference answer so the orchestrator can reuse its processing
// classification. A reference grade is tagged "api"; the local formula
// is tagged "local"; missing nutrition facts leave the value unset.
func (c *NutriCalculator) Compute(ctx context.Context, product *entities.Product) (entities.SubScore, *providers.ProductReference) {
	ref := c.lookupReference(ctx, product)
	if ref != nil {
		if points, ok := gradePoints[strings.ToLower(ref.NutrientGrade)]; ok {
			return entities.SubScore{Value: entities.IntPtr(points), Source: entities.ScoreSourceAPI}, ref
		}
	}

	if !product.Nutrition.Complete() {
		return entities.SubScore{}, ref
	}
	return entities.SubScore{
		Value:  entities.IntPtr(localNutrientScore(product.Nutrition)),
		Source: entities.ScoreSourceLocal,
	}, ref
}

func (c *NutriCalculator) lookupReference(ctx context.Context, product *entities.Product) *providers.ProductReference {
	if c.reference == nil {
		return nil
	}

	var ref *providers.ProductReference
	var err error
	if product.EAN != "" {
		ref, err = c.reference.LookupBarcode(ctx, product.EAN)
	} else if product.Name != "" {
		ref, err = c.reference.LookupName(ctx, product.Name)
	}
	if err != nil {
		// Best effort: fall back to local derivation.
		c.logger.Warn().Err(err).Str("product_id", product.ID).Msg("reference lookup failed")
		return nil
	}
	return ref
}

// localNutrientScore runs the official Nutri-Score computation:
// negative minus positive points, mapped to a grade, mapped to the
// same 0-100 scale the reference grades use.
func localNutrientScore(facts *entities.NutritionFacts) int {
	negative := thresholdPoints(nutrientValue(facts.EnergyKJ), energyBounds) +
		thresholdPoints(nutrientValue(facts.Sugars), sugarsBounds) +
		thresholdPoints(nutrientValue(facts.SaturatedFat), satFatBounds) +
		thresholdPoints(nutrientValue(facts.SodiumMg), sodiumBounds)

	positive := thresholdPoints(nutrientValue(facts.Fiber), fiberBounds)
	if negative < proteinCutoff {
		positive += thresholdPoints(nutrientValue(facts.Protein), proteinBounds)
	}

	return gradePoints[nutriGrade(negative-positive)]
}

func thresholdPoints(value float64, bounds []float64) int {
	points := 0
	for _, bound := range bounds {
		if value > bound {
			points++
		}
	}
	return points
}

func nutrientValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func nutriGrade(points int) string {
	switch {
	case points <= -1:
		return "a"
	case points <= 2:
		return "b"
	case points <= 10:
		return "c"
	case points <= 18:
		return "d"
	default:
		return "e"
	}
}
