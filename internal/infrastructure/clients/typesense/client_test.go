package typesense

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
)

func TestBuildProductDocument(t *testing.T) {
	updated := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	product := &entities.Product{
		ID:        "prod-1",
		EAN:       "5941234567890",
		Name:      "Iaurt simplu",
		UpdatedAt: updated,
		Scores: entities.ScoreSet{
			Nutri:   entities.SubScore{Value: entities.IntPtr(70), Source: entities.ScoreSourceAPI},
			Nova:    entities.SubScore{Value: entities.IntPtr(50), Source: entities.ScoreSourceLocal},
			Final:   entities.IntPtr(73),
			Display: entities.IntPtr(73),
		},
	}

	doc := BuildProductDocument(product)

	assert.Equal(t, "prod-1", doc["id"])
	assert.Equal(t, "5941234567890", doc["ean"])
	assert.Equal(t, "Iaurt simplu", doc["name"])
	assert.Equal(t, true, doc["scored"])
	assert.Equal(t, 73, doc["display_score"])
	assert.Equal(t, 50, doc["nova_score"])
	assert.Equal(t, "api", doc["nutri_source"])
	assert.Equal(t, updated.Unix(), doc["updated_at"])
}

func TestBuildProductDocument_UnscoredProduct(t *testing.T) {
	product := &entities.Product{
		ID:        "prod-2",
		EAN:       "5949999999999",
		Name:      "Produs nescorat",
		UpdatedAt: time.Now().UTC(),
	}

	doc := BuildProductDocument(product)

	require.Equal(t, false, doc["scored"])
	_, hasDisplay := doc["display_score"]
	assert.False(t, hasDisplay)
	_, hasNova := doc["nova_score"]
	assert.False(t, hasNova)
}
