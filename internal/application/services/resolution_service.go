package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/domain/providers"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/observability"
)

// ResolutionService drives one product through the resolution state
// machine: segment the declared text, filter, match against the
// directory, and fall back to the classifier for whatever is left.
// It is constructed per run: the match engine and verdict cache it
// holds are shared across the run's products and nothing else.
type ResolutionService struct {
	segmenter  *Segmenter
	blacklist  *Blacklist
	engine     *MatchEngine
	writer     *DirectoryWriter
	classifier providers.IngredientClassifier
	cache      *RunCache
	metrics    *observability.Metrics
	logger     zerolog.Logger
}

// ResolveOptions tune one product's resolution.
type ResolveOptions struct {
	// ForceAI skips snapshot reuse and re-derives even when a prior
	// complete AI snapshot exists.
	ForceAI bool

	// Lang is the declared source language of the ingredient text.
	Lang string

	// CreatedBy tags directory records inserted during this run.
	CreatedBy string
}

// ResolutionOutcome is what one Resolve call produced.
type ResolutionOutcome struct {
	Snapshot *entities.ResolutionSnapshot

	// AIUsed reports whether any model call happened, so the caller
	// can stamp the product with the run's AI timestamp.
	AIUsed bool

	// Reused reports that a prior complete AI snapshot was returned
	// without recomputation.
	Reused bool
}

func NewResolutionService(
	segmenter *Segmenter,
	blacklist *Blacklist,
	engine *MatchEngine,
	writer *DirectoryWriter,
	classifier providers.IngredientClassifier,
	cache *RunCache,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *ResolutionService {
	return &ResolutionService{
		segmenter:  segmenter,
		blacklist:  blacklist,
		engine:     engine,
		writer:     writer,
		classifier: classifier,
		cache:      cache,
		metrics:    metrics,
		logger:     logger.With().Str("service", "resolution").Logger(),
	}
}

// Resolve runs the state machine for one product. Classifier failures
// degrade to an incomplete snapshot; only persistence-level failures
// surface as errors.
func (s *ResolutionService) Resolve(ctx context.Context, product *entities.Product, opts ResolveOptions) (*ResolutionOutcome, error) {
	if opts.Lang == "" {
		opts.Lang = "ro"
	}
	logger := s.logger.With().Str("product_id", product.ID).Str("ean", product.EAN).Logger()

	candidates := s.keptCandidates(s.segmenter.Extract(product.IngredientsText))

	// Idempotence: a product already fully resolved by AI keeps its
	// snapshot instead of paying for new model calls.
	if len(candidates) == 0 && !opts.ForceAI &&
		product.Snapshot != nil &&
		product.Snapshot.Status == entities.ResolutionComplete &&
		product.Snapshot.AIDerived {
		logger.Debug().Msg("reusing complete ai-derived snapshot")
		observability.RecordResolutionOutcome(ctx, s.metrics, "reused")
		return &ResolutionOutcome{Snapshot: product.Snapshot, Reused: true}, nil
	}

	aiUsed := false
	aiDerived := false
	matches := s.matchAll(candidates)

	// Nothing matched: re-derive the candidate list from the best
	// available context. Declared text beats the bare product name.
	if len(matches) == 0 {
		derived, called, err := s.deriveCandidates(ctx, product, opts.Lang)
		aiUsed = aiUsed || called
		if err != nil {
			logger.Warn().Err(err).Msg("candidate derivation failed")
			snapshot := s.snapshot(candidates, nil, aiDerived)
			observability.RecordResolutionOutcome(ctx, s.metrics, string(snapshot.Status))
			return &ResolutionOutcome{Snapshot: snapshot, AIUsed: aiUsed}, nil
		}
		if len(derived) > 0 {
			candidates = derived
			matches = s.matchAll(candidates)
			aiDerived = true
		}
	}

	// Classifier fallback for every candidate still unmatched.
	remaining := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if containsMatch(matches, candidate) {
			remaining = append(remaining, candidate)
			continue
		}

		match, drop, err := s.resolveViaClassifier(ctx, candidate, product, opts)
		aiUsed = true
		if err != nil {
			// Candidate stays unmatched; siblings keep going.
			logger.Warn().Err(err).Str("candidate", candidate).Msg("classifier resolution failed")
			remaining = append(remaining, candidate)
			continue
		}
		if drop {
			// Never a real ingredient; it leaves the list entirely.
			continue
		}
		remaining = append(remaining, candidate)
		if match != nil {
			matches = append(matches, *match)
			aiDerived = true
		}
	}
	candidates = remaining

	snapshot := s.snapshot(candidates, matches, aiDerived)
	observability.RecordResolutionOutcome(ctx, s.metrics, string(snapshot.Status))
	logger.Info().
		Int("candidates", len(candidates)).
		Int("matches", len(matches)).
		Str("status", string(snapshot.Status)).
		Bool("ai_used", aiUsed).
		Msg("resolved product ingredients")

	return &ResolutionOutcome{Snapshot: snapshot, AIUsed: aiUsed}, nil
}

func (s *ResolutionService) keptCandidates(extracted []string) []string {
	kept := make([]string, 0, len(extracted))
	for _, candidate := range extracted {
		if !s.blacklist.Rejects(candidate) {
			kept = append(kept, candidate)
		}
	}
	return kept
}

func (s *ResolutionService) matchAll(candidates []string) []entities.MatchResult {
	var matches []entities.MatchResult
	for _, candidate := range candidates {
		if result := s.engine.Match(candidate); result != nil {
			matches = append(matches, *result)
		}
	}
	return matches
}

func (s *ResolutionService) deriveCandidates(ctx context.Context, product *entities.Product, lang string) ([]string, bool, error) {
	text := product.IngredientsText
	if text == "" {
		text = product.Name
	}
	if text == "" {
		return nil, false, nil
	}
	derived, err := s.classifier.DeriveCandidates(ctx, text, lang)
	if err != nil {
		return nil, true, err
	}
	return s.keptCandidates(derived), true, nil
}

// resolveViaClassifier returns the match to fold in (nil when the
// candidate should stay unmatched), whether to drop the candidate, and
// a classifier error.
func (s *ResolutionService) resolveViaClassifier(ctx context.Context, candidate string, product *entities.Product, opts ResolveOptions) (*entities.MatchResult, bool, error) {
	verdict, hit := s.cache.Get(opts.Lang, candidate)
	if hit {
		observability.RecordCacheHit(ctx, s.metrics, "verdict")
	} else {
		observability.RecordCacheMiss(ctx, s.metrics, "verdict")
		started := time.Now()
		var err error
		verdict, err = s.classifier.Classify(ctx, candidate, product.Name, opts.Lang)
		observability.RecordClassifierMetric(ctx, s.metrics, "classify", err == nil, time.Since(started))
		if err != nil {
			return nil, false, err
		}
		s.cache.Put(opts.Lang, candidate, verdict)
	}

	result, err := s.writer.Insert(ctx, candidate, verdict, opts.CreatedBy)
	if err != nil {
		return nil, false, err
	}

	switch result.Outcome {
	case InsertOutcomeInserted:
		s.engine.Add(result.Record)
		return aiMatch(candidate, result.Record, entities.MatchAIResolved), false, nil
	case InsertOutcomeDuplicate:
		return aiMatch(candidate, result.Record, entities.MatchDuplicate), false, nil
	default:
		return nil, true, nil
	}
}

func aiMatch(candidate string, record *entities.IngredientRecord, method entities.MatchMethod) *entities.MatchResult {
	return &entities.MatchResult{
		Candidate:    candidate,
		IngredientID: record.ID,
		MatchedName:  record.RoName,
		Score:        100,
		Method:       method,
		NovaScore:    record.NovaScore,
		Visible:      record.Visible,
	}
}

func (s *ResolutionService) snapshot(candidates []string, matches []entities.MatchResult, aiDerived bool) *entities.ResolutionSnapshot {
	now := time.Now().UTC()
	snapshot := &entities.ResolutionSnapshot{
		Candidates: candidates,
		Matches:    matches,
		AIDerived:  aiDerived,
		ResolvedAt: &now,
	}
	for _, m := range matches {
		if m.Visible && m.NovaScore >= 1 && m.NovaScore <= 4 {
			snapshot.NovaScores = append(snapshot.NovaScores, m.NovaScore)
		}
	}

	switch {
	case len(candidates) == 0:
		snapshot.Status = entities.ResolutionUnresolved
	case snapshot.IsComplete():
		snapshot.Status = entities.ResolutionComplete
	default:
		snapshot.Status = entities.ResolutionIncomplete
	}
	return snapshot
}

func containsMatch(matches []entities.MatchResult, candidate string) bool {
	for _, m := range matches {
		if m.Candidate == candidate {
			return true
		}
	}
	return false
}
