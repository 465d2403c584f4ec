package entities

import (
	"time"
)

// RiskLevel classifies the health risk of an additive-like ingredient.
type RiskLevel string

const (
	RiskFree     RiskLevel = "free"
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"

	// RiskUnknown marks a record whose risk was never assessed.
	RiskUnknown RiskLevel = ""
)

// ValidRiskLevel reports whether s names a recognized risk level.
// Anything else is stored as unknown rather than guessed.
func ValidRiskLevel(s string) bool {
	switch RiskLevel(s) {
	case RiskFree, RiskLow, RiskModerate, RiskHigh:
		return true
	}
	return false
}

// IngredientRecord is a canonical directory entry. Records are never
// deleted; hiding one excludes it from future matches but keeps it for
// audit.
type IngredientRecord struct {
	ID            string    `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`         // English
	RoName        string    `json:"ro_name" db:"ro_name"`   // Romanian
	NovaScore     int       `json:"nova_score" db:"nova_score"` // 1-4, 0 = unknown
	RiskLevel     RiskLevel `json:"risk_level" db:"risk_level"`
	Description   string    `json:"description" db:"description"`
	RoDescription string    `json:"ro_description" db:"ro_description"`
	Visible       bool      `json:"visible" db:"visible"`
	CreatedBy     string    `json:"created_by" db:"created_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
