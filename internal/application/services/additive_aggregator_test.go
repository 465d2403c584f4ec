package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
)

func links(levels ...entities.RiskLevel) []*entities.AdditiveLink {
	out := make([]*entities.AdditiveLink, len(levels))
	for i, level := range levels {
		out[i] = &entities.AdditiveLink{ProductID: "p1", Code: "e330", RiskLevel: level}
	}
	return out
}

func TestAdditiveAggregator_NoLinksScoresClean(t *testing.T) {
	repo := new(MockAdditiveRepo)
	repo.On("ListLinksByProduct", mock.Anything, "p1").Return([]*entities.AdditiveLink{}, nil)

	agg := NewAdditiveAggregator(repo, zerolog.Nop())
	result, err := agg.Aggregate(context.Background(), "p1", nil)
	require.NoError(t, err)
	require.NotNil(t, result.Score)
	assert.Equal(t, 100, *result.Score)
	assert.False(t, result.HasHighRisk)
}

func TestAdditiveAggregator_AveragesRiskPoints(t *testing.T) {
	repo := new(MockAdditiveRepo)
	repo.On("ListLinksByProduct", mock.Anything, "p1").
		Return(links(entities.RiskFree, entities.RiskLow, entities.RiskModerate), nil)

	agg := NewAdditiveAggregator(repo, zerolog.Nop())
	result, err := agg.Aggregate(context.Background(), "p1", nil)
	require.NoError(t, err)
	require.NotNil(t, result.Score)
	assert.Equal(t, 75, *result.Score) // (100+75+50)/3
}

func TestAdditiveAggregator_HighRiskCapsAverage(t *testing.T) {
	repo := new(MockAdditiveRepo)
	repo.On("ListLinksByProduct", mock.Anything, "p1").
		Return(links(entities.RiskFree, entities.RiskHigh), nil)

	agg := NewAdditiveAggregator(repo, zerolog.Nop())
	result, err := agg.Aggregate(context.Background(), "p1", nil)
	require.NoError(t, err)
	require.NotNil(t, result.Score)
	// Raw average is 50; the high-risk cap pulls it to 49.
	assert.Equal(t, 49, *result.Score)
	assert.True(t, result.HasHighRisk)
}

func TestAdditiveAggregator_CapLeavesLowerAveragesAlone(t *testing.T) {
	repo := new(MockAdditiveRepo)
	repo.On("ListLinksByProduct", mock.Anything, "p1").
		Return(links(entities.RiskHigh, entities.RiskHigh, entities.RiskLow), nil)

	agg := NewAdditiveAggregator(repo, zerolog.Nop())
	result, err := agg.Aggregate(context.Background(), "p1", nil)
	require.NoError(t, err)
	require.NotNil(t, result.Score)
	assert.Equal(t, 25, *result.Score) // (0+0+75)/3, already under the cap
	assert.True(t, result.HasHighRisk)
}

func TestAdditiveAggregator_UnknownRiskWithholdsScore(t *testing.T) {
	repo := new(MockAdditiveRepo)
	repo.On("ListLinksByProduct", mock.Anything, "p1").
		Return(links(entities.RiskFree, entities.RiskUnknown), nil)

	agg := NewAdditiveAggregator(repo, zerolog.Nop())
	result, err := agg.Aggregate(context.Background(), "p1", nil)
	require.NoError(t, err)
	assert.Nil(t, result.Score)
}

func TestAdditiveAggregator_ReportsReferenceCodesWithoutLinks(t *testing.T) {
	repo := new(MockAdditiveRepo)
	repo.On("ListLinksByProduct", mock.Anything, "p1").
		Return(links(entities.RiskFree), nil) // e330 linked

	agg := NewAdditiveAggregator(repo, zerolog.Nop())
	result, err := agg.Aggregate(context.Background(), "p1", []string{"E330", "e471", "e471", " "})
	require.NoError(t, err)
	require.NotNil(t, result.Score)
	assert.Equal(t, 100, *result.Score) // only the link rows are scored
	assert.Equal(t, []string{"e471"}, result.Unlinked)
}

func TestAdditiveAggregator_UnlinkedCodesSurfaceWithoutAnyLinks(t *testing.T) {
	repo := new(MockAdditiveRepo)
	repo.On("ListLinksByProduct", mock.Anything, "p1").Return([]*entities.AdditiveLink{}, nil)

	agg := NewAdditiveAggregator(repo, zerolog.Nop())
	result, err := agg.Aggregate(context.Background(), "p1", []string{"e250"})
	require.NoError(t, err)
	require.NotNil(t, result.Score)
	assert.Equal(t, 100, *result.Score)
	assert.Equal(t, []string{"e250"}, result.Unlinked)
}

func TestAdditiveAggregator_RepositoryErrorPropagates(t *testing.T) {
	repo := new(MockAdditiveRepo)
	repo.On("ListLinksByProduct", mock.Anything, "p1").Return(nil, errors.New("timeout"))

	agg := NewAdditiveAggregator(repo, zerolog.Nop())
	result, err := agg.Aggregate(context.Background(), "p1", nil)
	assert.Error(t, err)
	assert.Nil(t, result)
}
