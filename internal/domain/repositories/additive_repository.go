package repositories

import (
	"context"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
)

// AdditiveRepository defines read access to additive records and
// product-additive links. Links are created upstream; the scoring
// pipeline only reads them.
type AdditiveRepository interface {
	// GetByCode retrieves an additive by its E-number code
	GetByCode(ctx context.Context, code string) (*entities.Additive, error)

	// ListLinksByProduct retrieves a product's additive links
	ListLinksByProduct(ctx context.Context, productID string) ([]*entities.AdditiveLink, error)
}
