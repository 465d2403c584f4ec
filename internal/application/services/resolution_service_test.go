package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
)

func pantryDirectory() []*entities.IngredientRecord {
	return []*entities.IngredientRecord{
		visibleRecord("milk", "lapte", 1),
		visibleRecord("sugar", "zahar", 2),
		visibleRecord("salt", "sare", 2),
		visibleRecord("coconut milk", "lapte de cocos", 1),
	}
}

func newTestResolution(records []*entities.IngredientRecord, classifier *MockClassifier, repo *MockIngredientRepo) *ResolutionService {
	blacklist := NewBlacklist()
	return NewResolutionService(
		NewSegmenter(),
		blacklist,
		NewMatchEngine(records, DefaultMatchThreshold),
		NewDirectoryWriter(repo, blacklist, zerolog.Nop()),
		classifier,
		NewRunCache(),
		nil,
		zerolog.Nop(),
	)
}

func TestResolutionService_AllCandidatesMatchLocally(t *testing.T) {
	classifier := new(MockClassifier)
	repo := new(MockIngredientRepo)
	service := newTestResolution(pantryDirectory(), classifier, repo)

	product := &entities.Product{
		ID:              "p1",
		EAN:             "5941234567890",
		Name:            "Iaurt simplu",
		IngredientsText: "Ingrediente: lapte, zahăr, sare.",
	}

	outcome, err := service.Resolve(context.Background(), product, ResolveOptions{})
	require.NoError(t, err)
	require.NotNil(t, outcome.Snapshot)

	assert.Equal(t, entities.ResolutionComplete, outcome.Snapshot.Status)
	assert.Len(t, outcome.Snapshot.Candidates, 3)
	assert.Len(t, outcome.Snapshot.Matches, 3)
	assert.ElementsMatch(t, []int{1, 2, 2}, outcome.Snapshot.NovaScores)
	assert.False(t, outcome.AIUsed)
	assert.False(t, outcome.Snapshot.AIDerived)

	classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	classifier.AssertNotCalled(t, "DeriveCandidates", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolutionService_ReusesCompleteAISnapshot(t *testing.T) {
	classifier := new(MockClassifier)
	repo := new(MockIngredientRepo)
	service := newTestResolution(pantryDirectory(), classifier, repo)

	resolvedAt := time.Now().UTC().Add(-24 * time.Hour)
	prior := &entities.ResolutionSnapshot{
		Candidates: []string{"lapte de cocos"},
		Matches: []entities.MatchResult{{
			Candidate: "lapte de cocos", IngredientID: "coconut milk",
			Score: 100, Method: entities.MatchAIResolved, NovaScore: 1, Visible: true,
		}},
		NovaScores: []int{1},
		Status:     entities.ResolutionComplete,
		AIDerived:  true,
		ResolvedAt: &resolvedAt,
	}
	product := &entities.Product{ID: "p2", Name: "Lapte de cocos", Snapshot: prior}

	outcome, err := service.Resolve(context.Background(), product, ResolveOptions{})
	require.NoError(t, err)
	assert.True(t, outcome.Reused)
	assert.False(t, outcome.AIUsed)
	assert.Same(t, prior, outcome.Snapshot)
	classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	classifier.AssertNotCalled(t, "DeriveCandidates", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolutionService_ForceAIBypassesReuse(t *testing.T) {
	classifier := new(MockClassifier)
	repo := new(MockIngredientRepo)
	service := newTestResolution(pantryDirectory(), classifier, repo)

	prior := &entities.ResolutionSnapshot{
		Candidates: []string{"lapte de cocos"},
		Matches: []entities.MatchResult{{
			Candidate: "lapte de cocos", Score: 100,
			Method: entities.MatchAIResolved, NovaScore: 1, Visible: true,
		}},
		Status:    entities.ResolutionComplete,
		AIDerived: true,
	}
	product := &entities.Product{ID: "p3", Name: "Lapte de cocos", Snapshot: prior}

	classifier.On("DeriveCandidates", mock.Anything, "Lapte de cocos", "ro").
		Return([]string{"lapte de cocos"}, nil).Once()

	outcome, err := service.Resolve(context.Background(), product, ResolveOptions{ForceAI: true})
	require.NoError(t, err)
	assert.False(t, outcome.Reused)
	assert.True(t, outcome.AIUsed)
	assert.Equal(t, entities.ResolutionComplete, outcome.Snapshot.Status)
	assert.True(t, outcome.Snapshot.AIDerived)
	classifier.AssertExpectations(t)
}

func TestResolutionService_DerivesCandidatesWhenNothingMatches(t *testing.T) {
	classifier := new(MockClassifier)
	repo := new(MockIngredientRepo)
	service := newTestResolution(pantryDirectory(), classifier, repo)

	product := &entities.Product{ID: "p4", Name: "Lapte de cocos bio"}

	classifier.On("DeriveCandidates", mock.Anything, "Lapte de cocos bio", "ro").
		Return([]string{"lapte de cocos"}, nil).Once()

	outcome, err := service.Resolve(context.Background(), product, ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, entities.ResolutionComplete, outcome.Snapshot.Status)
	assert.True(t, outcome.Snapshot.AIDerived)
	assert.True(t, outcome.AIUsed)
	require.Len(t, outcome.Snapshot.Matches, 1)
	assert.Equal(t, entities.MatchExact, outcome.Snapshot.Matches[0].Method)
	classifier.AssertExpectations(t)
}

func TestResolutionService_ClassifierInsertsUnmatchedCandidate(t *testing.T) {
	classifier := new(MockClassifier)
	repo := new(MockIngredientRepo)
	service := newTestResolution(pantryDirectory(), classifier, repo)

	product := &entities.Product{
		ID:              "p5",
		Name:            "Desert dietetic",
		IngredientsText: "Ingrediente: lapte, eritritol",
	}

	verdict := &entities.Verdict{
		IsIngredient: true,
		Name:         "erythritol",
		RoName:       "eritritol",
		RiskLevel:    entities.RiskFree,
		NovaScore:    4,
		Confidence:   0.9,
	}
	classifier.On("Classify", mock.Anything, "eritritol", "Desert dietetic", "ro").
		Return(verdict, nil).Once()
	repo.On("GetByName", mock.Anything, "erythritol").Return(nil, nil)
	repo.On("GetByName", mock.Anything, "eritritol").Return(nil, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	outcome, err := service.Resolve(context.Background(), product, ResolveOptions{CreatedBy: "test-run"})
	require.NoError(t, err)
	assert.Equal(t, entities.ResolutionComplete, outcome.Snapshot.Status)
	assert.True(t, outcome.AIUsed)
	require.Len(t, outcome.Snapshot.Matches, 2)
	assert.Equal(t, entities.MatchAIResolved, outcome.Snapshot.Matches[1].Method)
	assert.Contains(t, outcome.Snapshot.NovaScores, 4)

	// The engine learned the new record; a repeat resolves exactly
	// with no further model calls.
	repeat := service.engine.Match("eritritol")
	require.NotNil(t, repeat)
	assert.Equal(t, entities.MatchExact, repeat.Method)
	classifier.AssertExpectations(t)
}

func TestResolutionService_RejectedCandidateLeavesTheList(t *testing.T) {
	classifier := new(MockClassifier)
	repo := new(MockIngredientRepo)
	service := newTestResolution(pantryDirectory(), classifier, repo)

	product := &entities.Product{
		ID:              "p6",
		Name:            "Baton exotic",
		IngredientsText: "Ingrediente: lapte, aroma exotica",
	}

	rejection := &entities.Verdict{IsIngredient: false, Reason: "not specific", RoName: "aroma exotica"}
	classifier.On("Classify", mock.Anything, "aroma exotica", "Baton exotic", "ro").
		Return(rejection, nil).Once()

	outcome, err := service.Resolve(context.Background(), product, ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, entities.ResolutionComplete, outcome.Snapshot.Status)
	assert.Equal(t, []string{"lapte"}, outcome.Snapshot.Candidates)
	assert.Len(t, outcome.Snapshot.Matches, 1)
	classifier.AssertExpectations(t)
}

func TestResolutionService_ClassifierFailureDegradesToIncomplete(t *testing.T) {
	classifier := new(MockClassifier)
	repo := new(MockIngredientRepo)
	service := newTestResolution(pantryDirectory(), classifier, repo)

	product := &entities.Product{
		ID:              "p7",
		Name:            "Desert dietetic",
		IngredientsText: "Ingrediente: lapte, eritritol",
	}

	classifier.On("Classify", mock.Anything, "eritritol", "Desert dietetic", "ro").
		Return(nil, errors.New("model unavailable")).Once()

	outcome, err := service.Resolve(context.Background(), product, ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, entities.ResolutionIncomplete, outcome.Snapshot.Status)
	assert.Len(t, outcome.Snapshot.Candidates, 2)
	assert.Len(t, outcome.Snapshot.Matches, 1)
	classifier.AssertExpectations(t)
}

func TestResolutionService_VerdictCacheSpansProducts(t *testing.T) {
	classifier := new(MockClassifier)
	repo := new(MockIngredientRepo)
	service := newTestResolution(pantryDirectory(), classifier, repo)

	rejection := &entities.Verdict{IsIngredient: false, Reason: "not specific"}
	classifier.On("Classify", mock.Anything, "aroma exotica", mock.Anything, "ro").
		Return(rejection, nil).Once()

	for _, id := range []string{"p8", "p9"} {
		product := &entities.Product{
			ID:              id,
			Name:            "Baton exotic",
			IngredientsText: "Ingrediente: lapte, aroma exotica",
		}
		outcome, err := service.Resolve(context.Background(), product, ResolveOptions{})
		require.NoError(t, err)
		assert.Equal(t, entities.ResolutionComplete, outcome.Snapshot.Status)
	}

	classifier.AssertNumberOfCalls(t, "Classify", 1)
}

func TestResolutionService_EmptyInputIsUnresolved(t *testing.T) {
	classifier := new(MockClassifier)
	repo := new(MockIngredientRepo)
	service := newTestResolution(pantryDirectory(), classifier, repo)

	product := &entities.Product{ID: "p10"}

	outcome, err := service.Resolve(context.Background(), product, ResolveOptions{})
	require.NoError(t, err)
	assert.Equal(t, entities.ResolutionUnresolved, outcome.Snapshot.Status)
	assert.False(t, outcome.AIUsed)
}
