package services

import (
	"context"
	"math"

	"github.com/rs/zerolog"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/domain/providers"
	"github.com/apetrei/foodscore/backend/internal/domain/repositories"
)

// ScoreWeights are the final-score blend factors. They must sum to 1.
type ScoreWeights struct {
	Nutri    float64
	Additive float64
	Nova     float64
}

// DefaultScoreWeights matches the published scoring methodology.
var DefaultScoreWeights = ScoreWeights{Nutri: 0.4, Additive: 0.3, Nova: 0.3}

// ScoringService combines the nutrient, additive and processing
// sub-scores into the final and display scores and persists them.
// Products whose resolution is not complete, or with any sub-score
// withheld, get their final/display explicitly cleared rather than
// left stale.
type ScoringService struct {
	products  repositories.ProductRepository
	nutri     *NutriCalculator
	additives *AdditiveAggregator
	weights   ScoreWeights
	logger    zerolog.Logger
}

func NewScoringService(
	products repositories.ProductRepository,
	nutri *NutriCalculator,
	additives *AdditiveAggregator,
	weights ScoreWeights,
	logger zerolog.Logger,
) *ScoringService {
	if weights == (ScoreWeights{}) {
		weights = DefaultScoreWeights
	}
	return &ScoringService{
		products:  products,
		nutri:     nutri,
		additives: additives,
		weights:   weights,
		logger:    logger.With().Str("service", "scoring").Logger(),
	}
}

// Score computes and, unless dryRun, persists the score set for a
// product given its freshly resolved snapshot. The second return value
// lists reference-reported additive codes with no stored link, so runs
// can flag products whose relation data lags the reference.
func (s *ScoringService) Score(ctx context.Context, product *entities.Product, snapshot *entities.ResolutionSnapshot, dryRun bool) (entities.ScoreSet, []string, error) {
	var scores entities.ScoreSet

	nutriScore, ref := s.nutri.Compute(ctx, product)
	scores.Nutri = nutriScore

	var referenceCodes []string
	if ref != nil {
		referenceCodes = ref.AdditiveTags
	}
	additive, err := s.additives.Aggregate(ctx, product.ID, referenceCodes)
	if err != nil {
		return scores, nil, err
	}
	scores.Additive = entities.SubScore{Value: additive.Score}
	if additive.Score != nil {
		scores.Additive.Source = entities.ScoreSourceLocal
	}

	scores.Nova = s.novaScore(ref, snapshot)

	complete := snapshot != nil && snapshot.Status == entities.ResolutionComplete
	if complete && scores.Nutri.Value != nil && scores.Additive.Value != nil && scores.Nova.Value != nil {
		final := int(math.Round(
			s.weights.Nutri*float64(*scores.Nutri.Value) +
				s.weights.Additive*float64(*scores.Additive.Value) +
				s.weights.Nova*float64(*scores.Nova.Value)))
		scores.Final = entities.IntPtr(final)

		display := final
		if additive.HasHighRisk && display > highRiskCap {
			display = highRiskCap
		}
		scores.Display = entities.IntPtr(display)
	}

	if !dryRun {
		if err := s.products.UpdateScores(ctx, product.ID, scores); err != nil {
			return scores, additive.Unlinked, err
		}
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Interface("final", scores.Final).
		Interface("display", scores.Display).
		Bool("dry_run", dryRun).
		Msg("scored product")

	return scores, additive.Unlinked, nil
}

// novaScore prefers the reference service's processing classification
// over the locally derived one.
func (s *ScoringService) novaScore(ref *providers.ProductReference, snapshot *entities.ResolutionSnapshot) entities.SubScore {
	if ref != nil && ref.NovaGroup >= 1 && ref.NovaGroup <= 4 {
		if points, ok := NovaScoreFor(ref.NovaGroup); ok {
			return entities.SubScore{Value: entities.IntPtr(points), Source: entities.ScoreSourceAPI}
		}
	}
	if snapshot != nil {
		if points, ok := NovaScoreFor(ClassifyNova(snapshot.NovaScores)); ok {
			return entities.SubScore{Value: entities.IntPtr(points), Source: entities.ScoreSourceLocal}
		}
	}
	return entities.SubScore{}
}
