package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the product catalog endpoint.
const DefaultBaseURL = "https://dummyjson.com/products"

// DefaultTimeout bounds the single catalog fetch.
const DefaultTimeout = 15 * time.Second

// fetchLimit asks the provider for its full product list in one page.
const fetchLimit = 100

// Client fetches the product catalog over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a catalog client with a single overall timeout.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type productPayload struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
}

type listPayload struct {
	Products []productPayload `json:"products"`
}

// FetchAll returns the provider's product list. Any failure — timeout,
// non-success status, malformed payload — degrades to an empty list so the
// pipeline continues with zero enrichment matches.
func (c *Client) FetchAll(ctx context.Context) []Product {
	products, err := c.fetch(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("url", c.baseURL).Msg("catalog fetch failed, continuing with empty catalog")
		return nil
	}
	c.log.Info().Int("products", len(products)).Msg("catalog fetch succeeded")
	return products
}

func (c *Client) fetch(ctx context.Context) ([]Product, error) {
	url := fmt.Sprintf("%s?limit=%d", c.baseURL, fetchLimit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog returned status %d", resp.StatusCode)
	}

	var payload listPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding catalog payload: %w", err)
	}

	products := make([]Product, 0, len(payload.Products))
	for _, p := range payload.Products {
		products = append(products, Product(p))
	}
	return products, nil
}
