package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/domain/providers"
)

type scoringFixture struct {
	service   *ScoringService
	products  *MockProductRepo
	additives *MockAdditiveRepo
	reference *MockReference
}

func newScoringFixture() *scoringFixture {
	products := new(MockProductRepo)
	additives := new(MockAdditiveRepo)
	reference := new(MockReference)
	service := NewScoringService(
		products,
		NewNutriCalculator(reference, zerolog.Nop()),
		NewAdditiveAggregator(additives, zerolog.Nop()),
		DefaultScoreWeights,
		zerolog.Nop(),
	)
	return &scoringFixture{service: service, products: products, additives: additives, reference: reference}
}

func completeSnapshot(novaScores ...int) *entities.ResolutionSnapshot {
	return &entities.ResolutionSnapshot{
		Candidates: []string{"lapte"},
		Matches:    []entities.MatchResult{{Candidate: "lapte", Visible: true}},
		NovaScores: novaScores,
		Status:     entities.ResolutionComplete,
	}
}

func TestScoringService_BlendsSubScores(t *testing.T) {
	f := newScoringFixture()
	product := &entities.Product{ID: "p1", EAN: "5941234567890"}

	f.reference.On("LookupBarcode", mock.Anything, "5941234567890").
		Return(&providers.ProductReference{NutrientGrade: "c"}, nil)
	f.additives.On("ListLinksByProduct", mock.Anything, "p1").
		Return([]*entities.AdditiveLink{}, nil)
	f.products.On("UpdateScores", mock.Anything, "p1", mock.MatchedBy(func(s entities.ScoreSet) bool {
		return s.Final != nil && *s.Final == 69 &&
			s.Display != nil && *s.Display == 69 &&
			s.Nutri.Source == entities.ScoreSourceAPI &&
			s.Nova.Source == entities.ScoreSourceLocal
	})).Return(nil)

	// Mixed raw/culinary ingredients: NOVA class 3, 50 points.
	scores, _, err := f.service.Score(context.Background(), product, completeSnapshot(1, 2), false)
	require.NoError(t, err)
	// round(0.4*60 + 0.3*100 + 0.3*50)
	assert.Equal(t, 69, *scores.Final)
	assert.Equal(t, 69, *scores.Display)
	f.products.AssertExpectations(t)
}

func TestScoringService_HighRiskAdditiveCapsDisplay(t *testing.T) {
	f := newScoringFixture()
	product := &entities.Product{ID: "p1", EAN: "5941234567890"}

	f.reference.On("LookupBarcode", mock.Anything, mock.Anything).
		Return(&providers.ProductReference{NutrientGrade: "a"}, nil)
	f.additives.On("ListLinksByProduct", mock.Anything, "p1").
		Return(links(entities.RiskFree, entities.RiskHigh), nil)
	f.products.On("UpdateScores", mock.Anything, "p1", mock.Anything).Return(nil)

	scores, _, err := f.service.Score(context.Background(), product, completeSnapshot(1), false)
	require.NoError(t, err)
	// round(0.4*100 + 0.3*49 + 0.3*100) = 85, capped for display.
	assert.Equal(t, 85, *scores.Final)
	assert.Equal(t, 49, *scores.Display)
}

func TestScoringService_IncompleteResolutionClearsFinal(t *testing.T) {
	f := newScoringFixture()
	product := &entities.Product{ID: "p1", EAN: "5941234567890"}

	f.reference.On("LookupBarcode", mock.Anything, mock.Anything).
		Return(&providers.ProductReference{NutrientGrade: "a"}, nil)
	f.additives.On("ListLinksByProduct", mock.Anything, "p1").
		Return([]*entities.AdditiveLink{}, nil)
	f.products.On("UpdateScores", mock.Anything, "p1", mock.MatchedBy(func(s entities.ScoreSet) bool {
		return s.Final == nil && s.Display == nil
	})).Return(nil)

	snapshot := completeSnapshot(1)
	snapshot.Status = entities.ResolutionIncomplete

	scores, _, err := f.service.Score(context.Background(), product, snapshot, false)
	require.NoError(t, err)
	assert.Nil(t, scores.Final)
	assert.Nil(t, scores.Display)
	assert.NotNil(t, scores.Nutri.Value) // sub-scores still recorded
	f.products.AssertExpectations(t)
}

func TestScoringService_WithheldAdditiveScoreWithholdsFinal(t *testing.T) {
	f := newScoringFixture()
	product := &entities.Product{ID: "p1", EAN: "5941234567890"}

	f.reference.On("LookupBarcode", mock.Anything, mock.Anything).
		Return(&providers.ProductReference{NutrientGrade: "a"}, nil)
	f.additives.On("ListLinksByProduct", mock.Anything, "p1").
		Return(links(entities.RiskUnknown), nil)
	f.products.On("UpdateScores", mock.Anything, "p1", mock.Anything).Return(nil)

	scores, _, err := f.service.Score(context.Background(), product, completeSnapshot(1), false)
	require.NoError(t, err)
	assert.Nil(t, scores.Additive.Value)
	assert.Nil(t, scores.Final)
	assert.Nil(t, scores.Display)
}

func TestScoringService_ReferenceNovaGroupPreferred(t *testing.T) {
	f := newScoringFixture()
	product := &entities.Product{ID: "p1", EAN: "5941234567890"}

	f.reference.On("LookupBarcode", mock.Anything, mock.Anything).
		Return(&providers.ProductReference{NutrientGrade: "a", NovaGroup: 4}, nil)
	f.additives.On("ListLinksByProduct", mock.Anything, "p1").
		Return([]*entities.AdditiveLink{}, nil)
	f.products.On("UpdateScores", mock.Anything, "p1", mock.Anything).Return(nil)

	// Local snapshot says class 1, but the reference's class 4 wins.
	scores, _, err := f.service.Score(context.Background(), product, completeSnapshot(1), false)
	require.NoError(t, err)
	require.NotNil(t, scores.Nova.Value)
	assert.Equal(t, 20, *scores.Nova.Value)
	assert.Equal(t, entities.ScoreSourceAPI, scores.Nova.Source)
}

func TestScoringService_SurfacesReferenceAdditivesWithoutLinks(t *testing.T) {
	f := newScoringFixture()
	product := &entities.Product{ID: "p1", EAN: "5941234567890"}

	f.reference.On("LookupBarcode", mock.Anything, mock.Anything).
		Return(&providers.ProductReference{NutrientGrade: "a", AdditiveTags: []string{"e330", "e471"}}, nil)
	f.additives.On("ListLinksByProduct", mock.Anything, "p1").
		Return(links(entities.RiskFree), nil) // only e330 linked
	f.products.On("UpdateScores", mock.Anything, "p1", mock.Anything).Return(nil)

	scores, unlinked, err := f.service.Score(context.Background(), product, completeSnapshot(1), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"e471"}, unlinked)
	// The sub-score still comes from the link rows alone.
	require.NotNil(t, scores.Additive.Value)
	assert.Equal(t, 100, *scores.Additive.Value)
}

func TestScoringService_DryRunSkipsPersistence(t *testing.T) {
	f := newScoringFixture()
	product := &entities.Product{ID: "p1", EAN: "5941234567890"}

	f.reference.On("LookupBarcode", mock.Anything, mock.Anything).
		Return(&providers.ProductReference{NutrientGrade: "c"}, nil)
	f.additives.On("ListLinksByProduct", mock.Anything, "p1").
		Return([]*entities.AdditiveLink{}, nil)

	scores, _, err := f.service.Score(context.Background(), product, completeSnapshot(1, 2), true)
	require.NoError(t, err)
	assert.Equal(t, 69, *scores.Final)
	f.products.AssertNotCalled(t, "UpdateScores", mock.Anything, mock.Anything, mock.Anything)
}
