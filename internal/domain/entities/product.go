package entities

import (
	"time"
)

// NutritionFacts holds per-100g values used by the local nutrient
// score calculation. Nil pointers mean the value was not on the label.
type NutritionFacts struct {
	EnergyKJ     *float64 `json:"energy_kj"`
	Sugars       *float64 `json:"sugars"`        // g
	SaturatedFat *float64 `json:"saturated_fat"` // g
	SodiumMg     *float64 `json:"sodium_mg"`     // mg
	Fiber        *float64 `json:"fiber"`         // g
	Protein      *float64 `json:"protein"`       // g
}

// Complete reports whether the negative-point nutrients needed for a
// local nutrient score are all present.
func (n *NutritionFacts) Complete() bool {
	if n == nil {
		return false
	}
	return n.EnergyKJ != nil && n.Sugars != nil && n.SaturatedFat != nil && n.SodiumMg != nil
}

// Product is the record the pipeline reads and writes. Resolution and
// scoring state live on the product row.
type Product struct {
	ID              string              `json:"id" db:"id"`
	EAN             string              `json:"ean" db:"ean"`
	Name            string              `json:"name" db:"name"`
	Description     string              `json:"description" db:"description"`
	IngredientsText string              `json:"ingredients_text" db:"ingredients_text"`
	Nutrition       *NutritionFacts     `json:"nutrition" db:"nutrition"`
	Snapshot        *ResolutionSnapshot `json:"snapshot" db:"snapshot"`
	Scores          ScoreSet            `json:"scores" db:"scores"`
	AIParsed        bool                `json:"ai_parsed" db:"ai_parsed"`
	AIParsedAt      *time.Time          `json:"ai_parsed_at" db:"ai_parsed_at"`
	UpdatedAt       time.Time           `json:"updated_at" db:"updated_at"`
}
