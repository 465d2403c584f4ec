package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/domain/providers"
	"github.com/apetrei/foodscore/backend/internal/domain/repositories"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/observability"
	apperrors "github.com/apetrei/foodscore/backend/pkg/errors"
)

// DefaultBatchLimit bounds a run when no explicit limit is given.
const DefaultBatchLimit = 200

// SearchIndexer pushes scored products to the search collection.
type SearchIndexer interface {
	IndexProduct(ctx context.Context, product *entities.Product) error
}

// BatchOptions select and tune one processing run.
type BatchOptions struct {
	// EAN processes a single product instead of a batch.
	EAN string

	// Limit bounds the batch size when EAN is empty.
	Limit int

	// DryRun computes everything but persists nothing.
	DryRun bool

	// ForceAI re-derives even products with reusable AI snapshots.
	ForceAI bool

	Lang      string
	CreatedBy string
}

// ProductReport is the per-product outcome of a run.
type ProductReport struct {
	ProductID string
	EAN       string
	Status    entities.ResolutionStatus
	Final     *int
	Display   *int
	AIUsed    bool
	Reused    bool

	// UnlinkedAdditives are additive codes the reference service
	// reports for the product but the link table does not carry.
	UnlinkedAdditives []string

	Err string
}

// BatchReport summarizes one run.
type BatchReport struct {
	Processed  int
	Complete   int
	Incomplete int
	Reused     int
	Failed     int
	CacheHits  int
	CacheMiss  int
	Products   []ProductReport
}

// BatchProcessor wires a full run: it loads the visible directory into
// a fresh match engine, builds the per-run services around it, then
// walks products sequentially through resolution and scoring. The
// directory is the only shared mutable state; a single writer per run
// is assumed.
type BatchProcessor struct {
	products    repositories.ProductRepository
	ingredients repositories.IngredientRepository
	additives   repositories.AdditiveRepository
	classifier  providers.IngredientClassifier
	reference   providers.NutritionReference
	indexer     SearchIndexer // nil when search is disabled
	weights     ScoreWeights
	threshold   int
	metrics     *observability.Metrics
	logger      zerolog.Logger
}

func NewBatchProcessor(
	products repositories.ProductRepository,
	ingredients repositories.IngredientRepository,
	additives repositories.AdditiveRepository,
	classifier providers.IngredientClassifier,
	reference providers.NutritionReference,
	indexer SearchIndexer,
	weights ScoreWeights,
	threshold int,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *BatchProcessor {
	return &BatchProcessor{
		products:    products,
		ingredients: ingredients,
		additives:   additives,
		classifier:  classifier,
		reference:   reference,
		indexer:     indexer,
		weights:     weights,
		threshold:   threshold,
		metrics:     metrics,
		logger:      logger.With().Str("service", "batch_processor").Logger(),
	}
}

// Run executes one processing run. Per-product failures land in the
// report; only setup-level failures return an error.
func (p *BatchProcessor) Run(ctx context.Context, opts BatchOptions) (*BatchReport, error) {
	records, err := p.ingredients.ListVisible(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load ingredient directory", err)
	}

	cache := NewRunCache()
	resolution := NewResolutionService(
		NewSegmenter(),
		NewBlacklist(),
		NewMatchEngine(records, p.threshold),
		NewDirectoryWriter(p.ingredients, NewBlacklist(), p.logger),
		p.classifier,
		cache,
		p.metrics,
		p.logger,
	)
	scoring := NewScoringService(
		p.products,
		NewNutriCalculator(p.reference, p.logger),
		NewAdditiveAggregator(p.additives, p.logger),
		p.weights,
		p.logger,
	)

	batch, err := p.selectProducts(ctx, opts)
	if err != nil {
		return nil, err
	}

	// One timestamp for the whole run: audits can tell a batch sweep
	// from an individually triggered resolution.
	aiStamp := time.Now().UTC()

	report := &BatchReport{}
	for _, product := range batch {
		entry := p.processOne(ctx, resolution, scoring, product, opts, aiStamp)
		report.Products = append(report.Products, entry)
		report.Processed++
		switch {
		case entry.Err != "":
			report.Failed++
		case entry.Reused:
			report.Reused++
		case entry.Status == entities.ResolutionComplete:
			report.Complete++
		default:
			report.Incomplete++
		}
	}

	report.CacheHits, report.CacheMiss = cache.Stats()
	p.logger.Info().
		Int("processed", report.Processed).
		Int("complete", report.Complete).
		Int("incomplete", report.Incomplete).
		Int("reused", report.Reused).
		Int("failed", report.Failed).
		Int("cache_hits", report.CacheHits).
		Bool("dry_run", opts.DryRun).
		Msg("processing run finished")

	return report, nil
}

func (p *BatchProcessor) selectProducts(ctx context.Context, opts BatchOptions) ([]*entities.Product, error) {
	if opts.EAN != "" {
		product, err := p.products.GetByEAN(ctx, opts.EAN)
		if err != nil {
			return nil, err
		}
		return []*entities.Product{product}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultBatchLimit
	}
	return p.products.List(ctx, repositories.ProductFilter{UnscoredOnly: true, Limit: limit})
}

func (p *BatchProcessor) processOne(
	ctx context.Context,
	resolution *ResolutionService,
	scoring *ScoringService,
	product *entities.Product,
	opts BatchOptions,
	aiStamp time.Time,
) ProductReport {
	entry := ProductReport{ProductID: product.ID, EAN: product.EAN}

	outcome, err := resolution.Resolve(ctx, product, ResolveOptions{
		ForceAI:   opts.ForceAI,
		Lang:      opts.Lang,
		CreatedBy: opts.CreatedBy,
	})
	if err != nil {
		entry.Err = err.Error()
		return entry
	}
	entry.Status = outcome.Snapshot.Status
	entry.AIUsed = outcome.AIUsed
	entry.Reused = outcome.Reused

	if !opts.DryRun && !outcome.Reused {
		var aiParsedAt *time.Time
		if outcome.AIUsed {
			aiParsedAt = &aiStamp
		}
		if err := p.products.UpdateResolution(ctx, product.ID, outcome.Snapshot, outcome.AIUsed, aiParsedAt); err != nil {
			entry.Err = err.Error()
			return entry
		}
	}

	scores, unlinked, err := scoring.Score(ctx, product, outcome.Snapshot, opts.DryRun)
	if err != nil {
		entry.Err = err.Error()
		return entry
	}
	entry.Final = scores.Final
	entry.Display = scores.Display
	entry.UnlinkedAdditives = unlinked

	if p.indexer != nil && !opts.DryRun {
		indexed := *product
		indexed.Snapshot = outcome.Snapshot
		indexed.Scores = scores
		if err := p.indexer.IndexProduct(ctx, &indexed); err != nil {
			// Search lags behind the store; not a run failure.
			p.logger.Warn().Err(err).Str("product_id", product.ID).Msg("search index update failed")
		}
	}

	return entry
}
