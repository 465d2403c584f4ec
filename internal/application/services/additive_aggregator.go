package services

import (
	"context"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/domain/repositories"
	apperrors "github.com/apetrei/foodscore/backend/pkg/errors"
)

// highRiskCap keeps any product carrying a high-risk additive in the
// lower scoring band no matter what the average says.
const highRiskCap = 49

// riskPoints maps an additive's risk level to its score contribution.
var riskPoints = map[entities.RiskLevel]int{
	entities.RiskFree:     100,
	entities.RiskLow:      75,
	entities.RiskModerate: 50,
	entities.RiskHigh:     0,
}

// AdditiveAggregator computes a product's additive sub-score from its
// linked additives.
type AdditiveAggregator struct {
	additives repositories.AdditiveRepository
	logger    zerolog.Logger
}

func NewAdditiveAggregator(additives repositories.AdditiveRepository, logger zerolog.Logger) *AdditiveAggregator {
	return &AdditiveAggregator{
		additives: additives,
		logger:    logger.With().Str("service", "additive_aggregator").Logger(),
	}
}

// AdditiveResult carries the sub-score and the high-risk flag the
// orchestrator needs for the display cap, plus any additive codes the
// reference service reported that have no stored link.
type AdditiveResult struct {
	Score       *int // nil when any linked additive has unknown risk
	HasHighRisk bool
	Unlinked    []string
}

// Aggregate averages the risk points of every linked additive. No
// links scores a clean 100. A single unknown risk level withholds the
// score entirely rather than guessing. referenceCodes are cross-checked
// against the links; codes without a link are reported, not scored —
// the link table stays the source of truth.
func (a *AdditiveAggregator) Aggregate(ctx context.Context, productID string, referenceCodes []string) (*AdditiveResult, error) {
	links, err := a.additives.ListLinksByProduct(ctx, productID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load additive links", err)
	}

	unlinked := a.unlinkedCodes(productID, links, referenceCodes)

	if len(links) == 0 {
		return &AdditiveResult{Score: entities.IntPtr(100), Unlinked: unlinked}, nil
	}

	total := 0
	hasHighRisk := false
	for _, link := range links {
		points, known := riskPoints[link.RiskLevel]
		if !known {
			a.logger.Debug().
				Str("product_id", productID).
				Str("code", link.Code).
				Msg("additive with unknown risk level blocks scoring")
			return &AdditiveResult{HasHighRisk: hasHighRisk, Unlinked: unlinked}, nil
		}
		if link.RiskLevel == entities.RiskHigh {
			hasHighRisk = true
		}
		total += points
	}

	score := int(math.Round(float64(total) / float64(len(links))))
	if hasHighRisk && score > highRiskCap {
		score = highRiskCap
	}
	return &AdditiveResult{Score: entities.IntPtr(score), HasHighRisk: hasHighRisk, Unlinked: unlinked}, nil
}

// unlinkedCodes returns reference-reported additive codes missing from
// the stored links. A non-empty result means the relation step is
// behind the reference data for this product.
func (a *AdditiveAggregator) unlinkedCodes(productID string, links []*entities.AdditiveLink, referenceCodes []string) []string {
	if len(referenceCodes) == 0 {
		return nil
	}

	linked := make(map[string]struct{}, len(links))
	for _, link := range links {
		linked[strings.ToLower(link.Code)] = struct{}{}
	}

	var unlinked []string
	seen := make(map[string]struct{}, len(referenceCodes))
	for _, code := range referenceCodes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		if _, ok := linked[code]; !ok {
			unlinked = append(unlinked, code)
		}
	}

	if len(unlinked) > 0 {
		a.logger.Warn().
			Str("product_id", productID).
			Strs("codes", unlinked).
			Msg("reference reports additives with no stored link")
	}
	return unlinked
}
