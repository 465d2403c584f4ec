package repositories

import (
	"context"
	"time"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
)

// ProductRepository defines the interface for product reads and the
// pipeline's writes (resolution snapshot, score set, audit stamps).
type ProductRepository interface {
	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id string) (*entities.Product, error)

	// GetByEAN retrieves a product by barcode
	GetByEAN(ctx context.Context, ean string) (*entities.Product, error)

	// List retrieves products matching the filter
	List(ctx context.Context, filter ProductFilter) ([]*entities.Product, error)

	// UpdateResolution persists the snapshot and AI audit stamps
	UpdateResolution(ctx context.Context, id string, snapshot *entities.ResolutionSnapshot, aiParsed bool, aiParsedAt *time.Time) error

	// UpdateScores persists the score set, including explicit nulls
	UpdateScores(ctx context.Context, id string, scores entities.ScoreSet) error
}

// ProductFilter defines filters for listing products
type ProductFilter struct {
	// UnscoredOnly selects products without a final score
	UnscoredOnly bool
	EAN          string
	Limit        int
	Offset       int
}
