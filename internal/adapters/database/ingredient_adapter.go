package database

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/domain/repositories"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/apetrei/foodscore/backend/pkg/errors"
)

// IngredientAdapter implements IngredientRepository
type IngredientAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewIngredientAdapter creates a new ingredient directory adapter
func NewIngredientAdapter(client *postgres.Client) repositories.IngredientRepository {
	return &IngredientAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var ingredientColumns = []interface{}{
	"id", "name", "ro_name", "nova_score", "risk_level",
	"description", "ro_description", "visible", "created_by",
	"created_at", "updated_at",
}

// Create inserts a new directory record
func (a *IngredientAdapter) Create(ctx context.Context, record *entities.IngredientRecord) error {
	rec := goqu.Record{
		"id":             record.ID,
		"name":           record.Name,
		"ro_name":        record.RoName,
		"nova_score":     sql.NullInt64{Int64: int64(record.NovaScore), Valid: record.NovaScore != 0},
		"risk_level":     sql.NullString{String: string(record.RiskLevel), Valid: record.RiskLevel != entities.RiskUnknown},
		"description":    sql.NullString{String: record.Description, Valid: record.Description != ""},
		"ro_description": sql.NullString{String: record.RoDescription, Valid: record.RoDescription != ""},
		"visible":        record.Visible,
		"created_by":     record.CreatedBy,
		"created_at":     record.CreatedAt,
		"updated_at":     record.UpdatedAt,
	}

	query, args, err := a.db.Insert("ingredients").Rows(rec).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to create ingredient", err)
	}

	return nil
}

// GetByID retrieves a record by ID
func (a *IngredientAdapter) GetByID(ctx context.Context, id string) (*entities.IngredientRecord, error) {
	query, args, err := a.db.Select(ingredientColumns...).
		From("ingredients").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	record, err := a.scanOne(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperrors.NewNotFoundError("ingredient not found")
	}
	return record, nil
}

// GetByName retrieves a record whose lowercased English or Romanian
// name equals the given key, or nil when absent.
func (a *IngredientAdapter) GetByName(ctx context.Context, name string) (*entities.IngredientRecord, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, apperrors.NewValidationError("name is required")
	}

	query, args, err := a.db.Select(ingredientColumns...).
		From("ingredients").
		Where(goqu.Or(
			goqu.L("LOWER(name)").Eq(key),
			goqu.L("LOWER(ro_name)").Eq(key),
		)).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	return a.scanOne(ctx, query, args)
}

// ListVisible retrieves all visible records for matching
func (a *IngredientAdapter) ListVisible(ctx context.Context) ([]*entities.IngredientRecord, error) {
	query, args, err := a.db.Select(ingredientColumns...).
		From("ingredients").
		Where(goqu.Ex{"visible": true}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list ingredients", err)
	}
	defer rows.Close()

	var records []*entities.IngredientRecord
	for rows.Next() {
		record, err := scanIngredient(rows.Scan)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan ingredient", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Hide marks a record invisible without deleting it
func (a *IngredientAdapter) Hide(ctx context.Context, id string) error {
	query, args, err := a.db.Update("ingredients").
		Set(goqu.Record{"visible": false, "updated_at": time.Now().UTC()}).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to hide ingredient", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError("ingredient not found")
	}
	return nil
}

func (a *IngredientAdapter) scanOne(ctx context.Context, query string, args []interface{}) (*entities.IngredientRecord, error) {
	row := a.client.DB().QueryRowContext(ctx, query, args...)
	record, err := scanIngredient(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to scan ingredient", err)
	}
	return record, nil
}

func scanIngredient(scan func(dest ...interface{}) error) (*entities.IngredientRecord, error) {
	record := &entities.IngredientRecord{}
	var novaScore sql.NullInt64
	var riskLevel, description, roDescription sql.NullString

	err := scan(
		&record.ID,
		&record.Name,
		&record.RoName,
		&novaScore,
		&riskLevel,
		&description,
		&roDescription,
		&record.Visible,
		&record.CreatedBy,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.NovaScore = int(novaScore.Int64)
	record.RiskLevel = entities.RiskLevel(riskLevel.String)
	record.Description = description.String
	record.RoDescription = roDescription.String

	return record, nil
}
