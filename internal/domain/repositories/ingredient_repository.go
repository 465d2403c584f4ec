package repositories

import (
	"context"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
)

// IngredientRepository defines the interface for the canonical
// ingredient directory.
type IngredientRepository interface {
	// Create inserts a new directory record
	Create(ctx context.Context, record *entities.IngredientRecord) error

	// GetByID retrieves a record by ID
	GetByID(ctx context.Context, id string) (*entities.IngredientRecord, error)

	// GetByName retrieves a record whose lowercased English or
	// Romanian name equals the given key, or nil when absent
	GetByName(ctx context.Context, name string) (*entities.IngredientRecord, error)

	// ListVisible retrieves all visible records for matching
	ListVisible(ctx context.Context) ([]*entities.IngredientRecord, error)

	// Hide marks a record invisible without deleting it
	Hide(ctx context.Context, id string) error
}
