package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/platewise/backend/internal/domain"
	"golang.org/x/time/rate"
)

// SearchClient handles communication with the commerce-search collaborator.
// The endpoint is slow (timeouts up to ~25s observed) and flaky; callers are
// expected to bound calls with a context and degrade on ErrCatalogUnavailable.
type SearchClient struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewSearchClient creates a client for the commerce-search API.
// requestsPerHour caps outbound traffic to the collaborator's quota.
func NewSearchClient(apiKey, baseURL string, requestsPerHour int, timeout time.Duration) *SearchClient {
	if requestsPerHour <= 0 {
		requestsPerHour = 600
	}
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	limiter := rate.NewLimiter(rate.Limit(float64(requestsPerHour)/3600.0), 10)

	return &SearchClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: limiter,
	}
}

// SetDebug toggles verbose request logging.
func (c *SearchClient) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying the given attempt.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// SearchProducts fetches raw store option groups for an ingredient list.
// An empty result is not an error: the normalizer treats it as zero
// candidates everywhere. Transport failures and 5xx responses are retried
// up to 3 times; persistent failure maps to ErrCatalogUnavailable.
func (c *SearchClient) SearchProducts(ctx context.Context, ingredients []string) (*domain.SearchResponse, error) {
	if len(ingredients) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	endpoint := fmt.Sprintf("%s/v1/products/search", c.baseURL)
	params := url.Values{}
	params.Add("ingredients", strings.Join(ingredients, ","))
	params.Add("api_key", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if c.debug {
				log.Printf("[COMMERCE] search request error (attempt %d): %v", attempt, err)
			}
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			if c.debug {
				log.Printf("[COMMERCE] search API error (attempt %d) - status: %d, body: %s",
					attempt, resp.StatusCode, string(body))
			}
			if resp.StatusCode == http.StatusNotFound {
				return nil, domain.ErrCatalogUnavailable
			}
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				// Client errors won't heal on retry.
				return nil, lastErr
			}
			time.Sleep(exponentialBackoff(attempt))
			continue
		}

		var searchResp domain.SearchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("%w: decode: %v", domain.ErrCatalogUnavailable, err)
		}

		if c.debug {
			total := 0
			for _, g := range searchResp.Groups {
				total += len(g.Products)
			}
			log.Printf("[COMMERCE] search returned %d store groups, %d products for %d ingredients",
				len(searchResp.Groups), total, len(ingredients))
		}
		return &searchResp, nil
	}

	if lastErr == nil {
		lastErr = domain.ErrCatalogUnavailable
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, lastErr)
}

// doRequest executes an HTTP GET request with proper headers.
func (c *SearchClient) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PlateWise/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	return resp, nil
}
