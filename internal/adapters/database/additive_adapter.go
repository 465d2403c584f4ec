package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/doug-martin/goqu/v9"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/domain/repositories"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/apetrei/foodscore/backend/pkg/errors"
)

// AdditiveAdapter implements AdditiveRepository
type AdditiveAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAdditiveAdapter creates a new additive adapter
func NewAdditiveAdapter(client *postgres.Client) repositories.AdditiveRepository {
	return &AdditiveAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByCode retrieves an additive by its E-number code
func (a *AdditiveAdapter) GetByCode(ctx context.Context, code string) (*entities.Additive, error) {
	query, args, err := a.db.Select("id", "code", "name", "risk_level", "created_at").
		From("additives").
		Where(goqu.Ex{"code": strings.ToLower(strings.TrimSpace(code))}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	additive := &entities.Additive{}
	var riskLevel sql.NullString

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&additive.ID,
		&additive.Code,
		&additive.Name,
		&riskLevel,
		&additive.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("additive not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get additive", err)
	}

	additive.RiskLevel = entities.RiskLevel(riskLevel.String)
	return additive, nil
}

// ListLinksByProduct retrieves a product's additive links with the
// linked additive's risk level.
func (a *AdditiveAdapter) ListLinksByProduct(ctx context.Context, productID string) ([]*entities.AdditiveLink, error) {
	query, args, err := a.db.Select(
		goqu.I("pa.product_id"),
		goqu.I("ad.code"),
		goqu.I("ad.risk_level"),
	).
		From(goqu.T("product_additives").As("pa")).
		Join(goqu.T("additives").As("ad"), goqu.On(goqu.Ex{"pa.additive_id": goqu.I("ad.id")})).
		Where(goqu.Ex{"pa.product_id": productID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list additive links", err)
	}
	defer rows.Close()

	var links []*entities.AdditiveLink
	for rows.Next() {
		link := &entities.AdditiveLink{}
		var riskLevel sql.NullString

		if err := rows.Scan(&link.ProductID, &link.Code, &riskLevel); err != nil {
			return nil, apperrors.NewInternalError("failed to scan additive link", err)
		}
		link.RiskLevel = entities.RiskLevel(riskLevel.String)
		links = append(links, link)
	}

	return links, rows.Err()
}
