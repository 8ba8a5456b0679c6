package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/platewise/backend/internal/domain"
)

// CheckoutClient handles communication with the commerce-checkout
// collaborator. The collaborator answers with either a direct cart URL or a
// session id that needs a second build-URL call; both variants resolve here
// to a single openable URL.
//
// Checkout requests are never retried automatically: a duplicate checkout
// session is a correctness hazard for the collaborator, so retry stays a
// user decision.
type CheckoutClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	debug      bool
}

// NewCheckoutClient creates a client for the commerce-checkout API.
func NewCheckoutClient(apiKey, baseURL string, timeout time.Duration) *CheckoutClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &CheckoutClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

// SetDebug toggles verbose request logging.
func (c *CheckoutClient) SetDebug(debug bool) {
	c.debug = debug
}

// CreateCheckout submits the canonical item list and returns the final
// checkout URL. Collaborator rejections and transport failures map to
// ErrCheckoutFailed.
func (c *CheckoutClient) CreateCheckout(ctx context.Context, items []domain.CheckoutItem) (*domain.CheckoutResult, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidRequest
	}

	payload, err := json.Marshal(map[string]interface{}{"items": items})
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %v", domain.ErrCheckoutFailed, err)
	}

	endpoint := fmt.Sprintf("%s/v1/cart", c.baseURL)
	resp, err := c.doPost(ctx, endpoint, payload)
	if err != nil {
		return nil, err
	}

	if c.debug {
		log.Printf("[COMMERCE] checkout created for %d items", len(items))
	}

	if resp.CartURL != "" {
		return &domain.CheckoutResult{URL: resp.CartURL}, nil
	}
	if resp.SessionID != "" {
		return c.buildSessionURL(ctx, resp.SessionID)
	}

	return nil, fmt.Errorf("%w: response carried neither cart_url nor session_id", domain.ErrCheckoutFailed)
}

// buildSessionURL performs the follow-up call for the session-id response
// variant.
func (c *CheckoutClient) buildSessionURL(ctx context.Context, sessionID string) (*domain.CheckoutResult, error) {
	reqURL := fmt.Sprintf("%s/v1/cart/sessions/%s/url?api_key=%s", c.baseURL, sessionID, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}
	req.Header.Set("User-Agent", "PlateWise/1.0")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("%w: session url status %d, body: %s",
			domain.ErrCheckoutFailed, httpResp.StatusCode, string(body))
	}

	var resp domain.CheckoutResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrCheckoutFailed, err)
	}
	if resp.CartURL == "" {
		return nil, fmt.Errorf("%w: session %s resolved to empty url", domain.ErrCheckoutFailed, sessionID)
	}

	return &domain.CheckoutResult{URL: resp.CartURL}, nil
}

func (c *CheckoutClient) doPost(ctx context.Context, endpoint string, payload []byte) (*domain.CheckoutResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "PlateWise/1.0")
	req.Header.Set("X-Api-Key", c.apiKey)

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCheckoutFailed, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK && httpResp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(httpResp.Body)
		if c.debug {
			log.Printf("[COMMERCE] checkout API error - status: %d, body: %s", httpResp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("%w: status %d", domain.ErrCheckoutFailed, httpResp.StatusCode)
	}

	var resp domain.CheckoutResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrCheckoutFailed, err)
	}

	return &resp, nil
}
