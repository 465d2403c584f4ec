//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/typesense"
	"github.com/apetrei/foodscore/backend/pkg/config"
)

func TestTypesenseProductIndexing(t *testing.T) {
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("Skipping integration test: TEST_DB_HOST not set")
	}

	cfg := &config.TypesenseConfig{
		URL:    getEnv("TEST_TYPESENSE_URL", "http://localhost:8109"),
		APIKey: getEnv("TEST_TYPESENSE_API_KEY", "xyz"),
	}

	client, err := typesense.NewClient(cfg)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, client.InitSchema(ctx))

	display := 73
	product := &entities.Product{
		ID:        "test-product-ts-1",
		EAN:       "5941234567890",
		Name:      "Iaurt simplu",
		UpdatedAt: time.Now().UTC(),
		Scores: entities.ScoreSet{
			Nutri:   entities.SubScore{Value: entities.IntPtr(70), Source: entities.ScoreSourceAPI},
			Final:   entities.IntPtr(73),
			Display: &display,
		},
		Snapshot: &entities.ResolutionSnapshot{
			Candidates: []string{"lapte"},
			Status:     entities.ResolutionComplete,
		},
	}

	require.NoError(t, client.IndexProduct(ctx, product))

	doc := typesense.BuildProductDocument(product)
	assert.Equal(t, "test-product-ts-1", doc["id"])
	assert.Equal(t, true, doc["scored"])
}
