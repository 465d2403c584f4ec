package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/domain/repositories"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/apetrei/foodscore/backend/pkg/errors"
)

// ProductAdapter implements ProductRepository
type ProductAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProductAdapter creates a new product adapter
func NewProductAdapter(client *postgres.Client) repositories.ProductRepository {
	return &ProductAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var productColumns = []interface{}{
	"id", "ean", "name", "description", "ingredients_text",
	"nutrition", "resolution_snapshot",
	"nutri_score", "nutri_source",
	"additive_score", "additive_source",
	"nova_score", "nova_source",
	"final_score", "display_score",
	"ai_parsed", "ai_parsed_at", "updated_at",
}

// GetByID retrieves a product by ID
func (a *ProductAdapter) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	return a.getByField(ctx, "id", id)
}

// GetByEAN retrieves a product by barcode
func (a *ProductAdapter) GetByEAN(ctx context.Context, ean string) (*entities.Product, error) {
	return a.getByField(ctx, "ean", ean)
}

// List retrieves products matching the filter
func (a *ProductAdapter) List(ctx context.Context, filter repositories.ProductFilter) ([]*entities.Product, error) {
	ds := a.db.Select(productColumns...).From("products")

	if filter.UnscoredOnly {
		ds = ds.Where(goqu.I("final_score").IsNull())
	}
	if filter.EAN != "" {
		ds = ds.Where(goqu.Ex{"ean": filter.EAN})
	}
	ds = ds.Order(goqu.I("updated_at").Asc())
	if filter.Limit > 0 {
		ds = ds.Limit(uint(filter.Limit))
	}
	if filter.Offset > 0 {
		ds = ds.Offset(uint(filter.Offset))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list products", err)
	}
	defer rows.Close()

	var products []*entities.Product
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan product", err)
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

// UpdateResolution persists the snapshot and AI audit stamps
func (a *ProductAdapter) UpdateResolution(ctx context.Context, id string, snapshot *entities.ResolutionSnapshot, aiParsed bool, aiParsedAt *time.Time) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return apperrors.NewInternalError("failed to encode snapshot", err)
	}

	rec := goqu.Record{
		"resolution_snapshot": snapshotJSON,
		"ai_parsed":           aiParsed,
		"updated_at":          time.Now().UTC(),
	}
	if aiParsedAt != nil {
		rec["ai_parsed_at"] = *aiParsedAt
	}

	query, args, err := a.db.Update("products").
		Set(rec).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update resolution", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError("product not found")
	}
	return nil
}

// UpdateScores persists the score set. Nil sub-scores are written as
// NULL so stale values never survive a failed precondition.
func (a *ProductAdapter) UpdateScores(ctx context.Context, id string, scores entities.ScoreSet) error {
	rec := goqu.Record{
		"nutri_score":     nullInt(scores.Nutri.Value),
		"nutri_source":    nullSource(scores.Nutri),
		"additive_score":  nullInt(scores.Additive.Value),
		"additive_source": nullSource(scores.Additive),
		"nova_score":      nullInt(scores.Nova.Value),
		"nova_source":     nullSource(scores.Nova),
		"final_score":     nullInt(scores.Final),
		"display_score":   nullInt(scores.Display),
		"updated_at":      time.Now().UTC(),
	}

	query, args, err := a.db.Update("products").
		Set(rec).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update scores", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError("product not found")
	}
	return nil
}

func (a *ProductAdapter) getByField(ctx context.Context, field, value string) (*entities.Product, error) {
	query, args, err := a.db.Select(productColumns...).
		From("products").
		Where(goqu.Ex{field: value}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	product, err := scanProduct(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("product not found")
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan product", err)
	}
	return product, nil
}

func scanProduct(scan func(dest ...interface{}) error) (*entities.Product, error) {
	product := &entities.Product{}
	var description, ingredientsText sql.NullString
	var nutritionJSON, snapshotJSON []byte
	var nutriScore, additiveScore, novaScore, finalScore, displayScore sql.NullInt64
	var nutriSource, additiveSource, novaSource sql.NullString
	var aiParsedAt sql.NullTime

	err := scan(
		&product.ID,
		&product.EAN,
		&product.Name,
		&description,
		&ingredientsText,
		&nutritionJSON,
		&snapshotJSON,
		&nutriScore,
		&nutriSource,
		&additiveScore,
		&additiveSource,
		&novaScore,
		&novaSource,
		&finalScore,
		&displayScore,
		&product.AIParsed,
		&aiParsedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.Description = description.String
	product.IngredientsText = ingredientsText.String

	if len(nutritionJSON) > 0 {
		var facts entities.NutritionFacts
		if err := json.Unmarshal(nutritionJSON, &facts); err != nil {
			return nil, err
		}
		product.Nutrition = &facts
	}
	if len(snapshotJSON) > 0 {
		var snapshot entities.ResolutionSnapshot
		if err := json.Unmarshal(snapshotJSON, &snapshot); err != nil {
			return nil, err
		}
		product.Snapshot = &snapshot
	}

	product.Scores = entities.ScoreSet{
		Nutri:    subScore(nutriScore, nutriSource),
		Additive: subScore(additiveScore, additiveSource),
		Nova:     subScore(novaScore, novaSource),
		Final:    intPtr(finalScore),
		Display:  intPtr(displayScore),
	}
	if aiParsedAt.Valid {
		product.AIParsedAt = &aiParsedAt.Time
	}

	return product, nil
}

func subScore(value sql.NullInt64, source sql.NullString) entities.SubScore {
	return entities.SubScore{
		Value:  intPtr(value),
		Source: entities.ScoreSource(source.String),
	}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	val := int(v.Int64)
	return &val
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullSource(s entities.SubScore) sql.NullString {
	if s.Value == nil || s.Source == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: string(s.Source), Valid: true}
}
