package entities

import (
	"time"
)

// Additive is a reference record for an E-number additive.
type Additive struct {
	ID        string    `json:"id" db:"id"`
	Code      string    `json:"code" db:"code"` // e.g. "e330"
	Name      string    `json:"name" db:"name"`
	RiskLevel RiskLevel `json:"risk_level" db:"risk_level"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AdditiveLink ties a product to an additive record. Links are created
// by the relation step upstream of scoring and read here only.
type AdditiveLink struct {
	ProductID string    `json:"product_id" db:"product_id"`
	Code      string    `json:"code" db:"code"`
	RiskLevel RiskLevel `json:"risk_level" db:"risk_level"`
}
