package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/domain/providers"
	"github.com/apetrei/foodscore/backend/internal/domain/repositories"
)

// Shared mocks for the pipeline service tests.

type MockIngredientRepo struct {
	mock.Mock
}

func (m *MockIngredientRepo) Create(ctx context.Context, record *entities.IngredientRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockIngredientRepo) GetByID(ctx context.Context, id string) (*entities.IngredientRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.IngredientRecord), args.Error(1)
}

func (m *MockIngredientRepo) GetByName(ctx context.Context, name string) (*entities.IngredientRecord, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.IngredientRecord), args.Error(1)
}

func (m *MockIngredientRepo) ListVisible(ctx context.Context) ([]*entities.IngredientRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.IngredientRecord), args.Error(1)
}

func (m *MockIngredientRepo) Hide(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) GetByID(ctx context.Context, id string) (*entities.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Product), args.Error(1)
}

func (m *MockProductRepo) GetByEAN(ctx context.Context, ean string) (*entities.Product, error) {
	args := m.Called(ctx, ean)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Product), args.Error(1)
}

func (m *MockProductRepo) List(ctx context.Context, filter repositories.ProductFilter) ([]*entities.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Product), args.Error(1)
}

func (m *MockProductRepo) UpdateResolution(ctx context.Context, id string, snapshot *entities.ResolutionSnapshot, aiParsed bool, aiParsedAt *time.Time) error {
	args := m.Called(ctx, id, snapshot, aiParsed, aiParsedAt)
	return args.Error(0)
}

func (m *MockProductRepo) UpdateScores(ctx context.Context, id string, scores entities.ScoreSet) error {
	args := m.Called(ctx, id, scores)
	return args.Error(0)
}

type MockAdditiveRepo struct {
	mock.Mock
}

func (m *MockAdditiveRepo) GetByCode(ctx context.Context, code string) (*entities.Additive, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Additive), args.Error(1)
}

func (m *MockAdditiveRepo) ListLinksByProduct(ctx context.Context, productID string) ([]*entities.AdditiveLink, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.AdditiveLink), args.Error(1)
}

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, candidate, productContext, lang string) (*entities.Verdict, error) {
	args := m.Called(ctx, candidate, productContext, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Verdict), args.Error(1)
}

func (m *MockClassifier) DeriveCandidates(ctx context.Context, text, lang string) ([]string, error) {
	args := m.Called(ctx, text, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockReference struct {
	mock.Mock
}

func (m *MockReference) LookupBarcode(ctx context.Context, ean string) (*providers.ProductReference, error) {
	args := m.Called(ctx, ean)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.ProductReference), args.Error(1)
}

func (m *MockReference) LookupName(ctx context.Context, name string) (*providers.ProductReference, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*providers.ProductReference), args.Error(1)
}
