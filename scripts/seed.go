package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/apetrei/foodscore/backend/internal/adapters/database"
	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/clients/postgres"
	"github.com/apetrei/foodscore/backend/pkg/config"
)

type seedIngredient struct {
	name   string
	roName string
	nova   int
	risk   entities.RiskLevel
}

// A starter directory: common whole foods, culinary ingredients and
// the additives that show up on most Romanian labels.
var seedIngredients = []seedIngredient{
	{"milk", "lapte", 1, entities.RiskFree},
	{"water", "apa plata", 1, entities.RiskFree},
	{"sugar", "zahar", 2, entities.RiskModerate},
	{"salt", "sare", 2, entities.RiskModerate},
	{"sunflower oil", "ulei de floarea soarelui", 2, entities.RiskLow},
	{"olive oil", "ulei de masline", 2, entities.RiskFree},
	{"butter", "unt", 2, entities.RiskLow},
	{"wheat flour", "faina de grau", 2, entities.RiskLow},
	{"whole wheat flour", "faina integrala de grau", 1, entities.RiskFree},
	{"rice", "orez", 1, entities.RiskFree},
	{"corn", "porumb", 1, entities.RiskFree},
	{"oats", "ovaz", 1, entities.RiskFree},
	{"egg", "ou intreg", 1, entities.RiskFree},
	{"chicken", "carne de pui", 1, entities.RiskFree},
	{"tomato", "rosii", 1, entities.RiskFree},
	{"onion", "ceapa alba", 1, entities.RiskFree},
	{"garlic", "usturoi", 1, entities.RiskFree},
	{"cocoa powder", "pudra de cacao", 2, entities.RiskFree},
	{"coconut milk", "lapte de cocos", 1, entities.RiskFree},
	{"yeast", "drojdie", 2, entities.RiskFree},
	{"honey", "miere", 2, entities.RiskFree},
	{"soy lecithin", "lecitina de soia", 4, entities.RiskLow},
	{"sunflower lecithin", "lecitina de floarea soarelui", 4, entities.RiskLow},
	{"citric acid", "acid citric anhidru", 4, entities.RiskLow},
	{"ascorbic acid", "acid ascorbic pur", 4, entities.RiskFree},
	{"potassium sorbate", "sorbat de potasiu", 4, entities.RiskModerate},
	{"sodium benzoate", "benzoat de sodiu", 4, entities.RiskModerate},
	{"sodium nitrite", "nitrit de sodiu", 4, entities.RiskHigh},
	{"monosodium glutamate", "glutamat monosodic", 4, entities.RiskHigh},
	{"aspartame", "aspartam", 4, entities.RiskHigh},
	{"xanthan gum", "guma xantan", 4, entities.RiskLow},
	{"pectin", "pectina", 4, entities.RiskFree},
	{"maltodextrin", "maltodextrina", 4, entities.RiskModerate},
	{"glucose syrup", "sirop de glucoza", 4, entities.RiskModerate},
	{"whey powder", "zer praf", 3, entities.RiskFree},
	{"skimmed milk powder", "lapte praf degresat", 3, entities.RiskFree},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating pipeline tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				product_additives,
				additives,
				ingredients
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to truncate tables: %v", err)
		}
	}

	repo := database.NewIngredientAdapter(pgClient)

	inserted := 0
	skipped := 0
	for _, seed := range seedIngredients {
		existing, err := repo.GetByName(ctx, seed.name)
		if err != nil {
			log.Fatalf("Failed to check %q: %v", seed.name, err)
		}
		if existing != nil {
			skipped++
			continue
		}

		record := &entities.IngredientRecord{
			ID:        uuid.NewString(),
			Name:      seed.name,
			RoName:    seed.roName,
			NovaScore: seed.nova,
			RiskLevel: seed.risk,
			Visible:   true,
			CreatedBy: "seed",
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		if err := repo.Create(ctx, record); err != nil {
			log.Fatalf("Failed to insert %q: %v", seed.name, err)
		}
		inserted++
	}

	log.Printf("Seed complete: %d inserted, %d already present", inserted, skipped)
}
