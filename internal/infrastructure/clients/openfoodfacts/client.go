package openfoodfacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/apetrei/foodscore/backend/internal/domain/providers"
	"github.com/apetrei/foodscore/backend/internal/infrastructure/observability"
	"github.com/apetrei/foodscore/backend/pkg/config"
	apperrors "github.com/apetrei/foodscore/backend/pkg/errors"
	"github.com/apetrei/foodscore/backend/pkg/retry"
)

// Client implements the nutrition/additive reference provider against
// the Open Food Facts public API, with a read-through cache.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      providers.CacheProvider
	cacheTTL   int // seconds
	metrics    *observability.Metrics
}

// NewClient creates a new Open Food Facts client. cache may be nil, in
// which case every lookup goes to the network.
func NewClient(cfg *config.ReferenceConfig, cache providers.CacheProvider, metrics *observability.Metrics) *Client {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 24
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache:    cache,
		cacheTTL: ttl * 3600,
		metrics:  metrics,
	}
}

type offProduct struct {
	NutriscoreGrade string   `json:"nutriscore_grade"`
	NovaGroup       int      `json:"nova_group"`
	AdditivesTags   []string `json:"additives_tags"`
}

type offProductResponse struct {
	Status  int        `json:"status"`
	Product offProduct `json:"product"`
}

type offSearchResponse struct {
	Count    int          `json:"count"`
	Products []offProduct `json:"products"`
}

// LookupBarcode returns the reference record for an EAN barcode, or
// nil when the product is unknown.
func (c *Client) LookupBarcode(ctx context.Context, ean string) (*providers.ProductReference, error) {
	if strings.TrimSpace(ean) == "" {
		return nil, errors.New("ean is required")
	}

	cacheKey := "off|product|" + ean
	if ref, ok := c.cached(ctx, cacheKey); ok {
		return ref, nil
	}

	var body []byte
	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", c.baseURL, url.PathEscape(ean))
	err := retry.DoWithLog(ctx, retry.DefaultConfig(), "OpenFoodFacts", func() error {
		var fetchErr error
		body, fetchErr = c.fetch(ctx, endpoint)
		return fetchErr
	}, func(attempt int, err error, nextDelay time.Duration) {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Str("ean", ean).
			Msg("reference lookup retry")
	})
	if err != nil {
		return nil, apperrors.NewExternalError("reference barcode lookup failed", err)
	}

	var decoded offProductResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("malformed reference response: %w", err)
	}
	if decoded.Status != 1 {
		c.store(ctx, cacheKey, nil)
		return nil, nil
	}

	ref := toReference(decoded.Product)
	c.store(ctx, cacheKey, ref)
	return ref, nil
}

// LookupName searches by product name and returns the first hit, or
// nil when nothing matches.
func (c *Client) LookupName(ctx context.Context, name string) (*providers.ProductReference, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("name is required")
	}

	cacheKey := "off|search|" + strings.ToLower(strings.TrimSpace(name))
	if ref, ok := c.cached(ctx, cacheKey); ok {
		return ref, nil
	}

	params := url.Values{}
	params.Set("search_terms", name)
	params.Set("search_simple", "1")
	params.Set("action", "process")
	params.Set("json", "1")
	params.Set("page_size", "1")
	endpoint := c.baseURL + "/cgi/search.pl?" + params.Encode()

	var body []byte
	err := retry.DoWithLog(ctx, retry.DefaultConfig(), "OpenFoodFacts", func() error {
		var fetchErr error
		body, fetchErr = c.fetch(ctx, endpoint)
		return fetchErr
	}, func(attempt int, err error, nextDelay time.Duration) {
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Str("name", name).
			Msg("reference search retry")
	})
	if err != nil {
		return nil, apperrors.NewExternalError("reference name search failed", err)
	}

	var decoded offSearchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("malformed reference response: %w", err)
	}
	if len(decoded.Products) == 0 {
		c.store(ctx, cacheKey, nil)
		return nil, nil
	}

	ref := toReference(decoded.Products[0])
	c.store(ctx, cacheKey, ref)
	return ref, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reference service returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// cachedReference wraps a possibly-nil answer so "known missing" is
// cached as well as hits.
type cachedReference struct {
	Found bool                         `json:"found"`
	Ref   *providers.ProductReference `json:"ref,omitempty"`
}

func (c *Client) cached(ctx context.Context, key string) (*providers.ProductReference, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("reference cache read failed")
		}
		observability.RecordCacheMiss(ctx, c.metrics, "reference")
		return nil, false
	}

	var entry cachedReference
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	observability.RecordCacheHit(ctx, c.metrics, "reference")
	if !entry.Found {
		return nil, true
	}
	return entry.Ref, true
}

func (c *Client) store(ctx context.Context, key string, ref *providers.ProductReference) {
	if c.cache == nil {
		return
	}
	raw, err := json.Marshal(cachedReference{Found: ref != nil, Ref: ref})
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, raw, c.cacheTTL); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("reference cache write failed")
	}
}

func toReference(p offProduct) *providers.ProductReference {
	ref := &providers.ProductReference{
		NutrientGrade: normalizeGrade(p.NutriscoreGrade),
	}
	if p.NovaGroup >= 1 && p.NovaGroup <= 4 {
		ref.NovaGroup = p.NovaGroup
	}
	for _, tag := range p.AdditivesTags {
		// Tags arrive namespaced, e.g. "en:e330".
		if idx := strings.IndexByte(tag, ':'); idx >= 0 {
			tag = tag[idx+1:]
		}
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			ref.AdditiveTags = append(ref.AdditiveTags, tag)
		}
	}
	return ref
}

func normalizeGrade(grade string) string {
	grade = strings.ToLower(strings.TrimSpace(grade))
	switch grade {
	case "a", "b", "c", "d", "e":
		return grade
	}
	return ""
}
