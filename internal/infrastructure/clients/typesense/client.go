package typesense

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/apetrei/foodscore/backend/internal/domain/entities"
	"github.com/apetrei/foodscore/backend/pkg/config"
	"github.com/apetrei/foodscore/backend/pkg/retry"
)

const (
	ProductsCollection = "products"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	// Test connection with retry
	retryConfig := retry.DefaultConfig()
	err := retry.DoWithLog(
		context.Background(),
		retryConfig,
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Printf("Typesense connection attempt %d failed: %v. Retrying in %v...", attempt, err, nextDelay)
		},
	)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Println("Successfully connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the products collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == ProductsCollection {
			log.Println("Typesense collection 'products' already exists")
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: ProductsCollection,
		Fields: []api.Field{
			{
				Name: "id",
				Type: "string",
			},
			{
				Name: "ean",
				Type: "string",
			},
			{
				Name: "name",
				Type: "string",
			},
			{
				Name:     "display_score",
				Type:     "int32",
				Facet:    pointer.True(),
				Optional: pointer.True(),
			},
			{
				Name:     "nova_score",
				Type:     "int32",
				Facet:    pointer.True(),
				Optional: pointer.True(),
			},
			{
				Name:     "nutri_source",
				Type:     "string",
				Facet:    pointer.True(),
				Optional: pointer.True(),
			},
			{
				Name: "scored",
				Type: "bool",
			},
			{
				Name: "updated_at",
				Type: "int64",
			},
		},
		DefaultSortingField: pointer.String("updated_at"),
	}

	_, err = c.client.Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Println("Created Typesense collection 'products'")
	return nil
}

// IndexProduct upserts a scored product document
func (c *Client) IndexProduct(ctx context.Context, product *entities.Product) error {
	_, err := c.client.Collection(ProductsCollection).Documents().Upsert(ctx, BuildProductDocument(product))
	return err
}

// BuildProductDocument maps a product to its search document
func BuildProductDocument(product *entities.Product) map[string]interface{} {
	doc := map[string]interface{}{
		"id":         product.ID,
		"ean":        product.EAN,
		"name":       product.Name,
		"scored":     product.Scores.Final != nil,
		"updated_at": product.UpdatedAt.Unix(),
	}
	if product.Scores.Display != nil {
		doc["display_score"] = *product.Scores.Display
	}
	if product.Scores.Nova.Value != nil {
		doc["nova_score"] = *product.Scores.Nova.Value
	}
	if product.Scores.Nutri.Value != nil {
		doc["nutri_source"] = string(product.Scores.Nutri.Source)
	}
	return doc
}
