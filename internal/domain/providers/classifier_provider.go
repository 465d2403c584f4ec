package providers

import (
	"context"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
)

// IngredientClassifier defines the interface for the language-model
// backed validator/enricher used when fuzzy matching cannot resolve a
// candidate.
type IngredientClassifier interface {
	// Classify returns a structured verdict for one candidate string.
	// productContext is free text (product name/description) that may
	// help disambiguation; lang is the declared source language.
	Classify(ctx context.Context, candidate, productContext, lang string) (*entities.Verdict, error)

	// DeriveCandidates asks the model to extract an ingredient
	// candidate list from free text when segmentation found nothing.
	// The list is capped at 10 entries.
	DeriveCandidates(ctx context.Context, text, lang string) ([]string, error)
}
