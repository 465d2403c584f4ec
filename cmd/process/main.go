package main

import (
	"context"
	"flag"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/apetrei/foodscore/backend/internal/adapters/database"
	"github.com/apetrei/foodscore/backend/internal/application/services"
	"github.com/apetrei/foodscore/backend/internal/domain/providers"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/openai"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/openfoodfacts"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/postgres"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/redis"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/typesense"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/observability"
	"github.com/apetrei/foodscore/backend/pkg/config"
)

func main() {
	var ean string
	var limit int
	var dryRun bool
	var forceAI bool
	var lang string

	flag.StringVar(&ean, "ean", "", "Single product barcode to process")
	flag.IntVar(&limit, "limit", services.DefaultBatchLimit, "Max products per batch run")
	flag.BoolVar(&dryRun, "dry-run", false, "Compute scores without persisting anything")
	flag.BoolVar(&forceAI, "force-ai", false, "Re-derive even products with reusable AI snapshots")
	flag.StringVar(&lang, "lang", "ro", "Declared language of ingredient labels")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	observability.InitLogger("foodscore-process", cfg.Env)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var metrics *observability.Metrics
	if cfg.OTEL.Enabled {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to set up telemetry")
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("telemetry shutdown failed")
			}
		}()
		metrics, err = observability.InitMetrics()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to init metrics")
		}
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	ingredientRepo := database.NewIngredientAdapter(pgClient)
	productRepo := database.NewProductAdapter(pgClient)
	additiveRepo := database.NewAdditiveAdapter(pgClient)

	classifier, err := openai.NewClient(&cfg.OpenAI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create classifier client")
	}

	var reference providers.NutritionReference
	if cfg.Reference.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		reference = openfoodfacts.NewClient(&cfg.Reference, redisClient, metrics)
	}

	var indexer services.SearchIndexer
	if cfg.Typesense.Enabled {
		tsClient, err := typesense.NewClient(&cfg.Typesense)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create typesense client")
		}
		indexer = tsClient
	}

	processor := services.NewBatchProcessor(
		productRepo,
		ingredientRepo,
		additiveRepo,
		classifier,
		reference,
		indexer,
		services.ScoreWeights{
			Nutri:    cfg.Scoring.NutriWeight,
			Additive: cfg.Scoring.AdditiveWeight,
			Nova:     cfg.Scoring.NovaWeight,
		},
		cfg.Scoring.MatchThreshold,
		metrics,
		log.Logger,
	)

	start := time.Now()
	report, err := processor.Run(ctx, services.BatchOptions{
		EAN:       ean,
		Limit:     limit,
		DryRun:    dryRun,
		ForceAI:   forceAI,
		Lang:      lang,
		CreatedBy: "process-cli",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("processing run failed")
	}

	for _, entry := range report.Products {
		event := log.Info().
			Str("product_id", entry.ProductID).
			Str("ean", entry.EAN).
			Str("status", string(entry.Status))
		if entry.Final != nil {
			event = event.Int("final", *entry.Final).Int("display", *entry.Display)
		}
		if len(entry.UnlinkedAdditives) > 0 {
			event = event.Strs("unlinked_additives", entry.UnlinkedAdditives)
		}
		if entry.Err != "" {
			event = event.Str("error", entry.Err)
		}
		event.Msg("product processed")
	}

	log.Info().
		Dur("elapsed", time.Since(start)).
		Int("processed", report.Processed).
		Int("complete", report.Complete).
		Int("incomplete", report.Incomplete).
		Int("reused", report.Reused).
		Int("failed", report.Failed).
		Int("cache_hits", report.CacheHits).
		Int("cache_misses", report.CacheMiss).
		Msg("run summary")
}
