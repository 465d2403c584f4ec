package providers

import (
	"context"
)

// ProductReference is the best-effort answer from the external
// nutrition/additive reference service. Zero values mean the service
// had no opinion on that field.
type ProductReference struct {
	NovaGroup     int      // 1-4, 0 = unknown
	NutrientGrade string   // "a".."e", "" = unknown
	AdditiveTags  []string // e.g. ["e330", "e471"]
}

// NutritionReference defines the interface for the external reference
// service. Answers are preferred over local derivation and tagged with
// provenance "api"; a nil reference with nil error means "not found".
type NutritionReference interface {
	LookupBarcode(ctx context.Context, ean string) (*ProductReference, error)
	LookupName(ctx context.Context, name string) (*ProductReference, error)
}
