package nemlig

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kurvpilot/backend/internal/domain"
	"golang.org/x/time/rate"
)

// ClientConfig holds the settings for the retailer API client.
type ClientConfig struct {
	BaseURL        string
	SearchURL      string
	DeliveryZoneID int
	PageSize       int
	PerSecond      float64
	Burst          int
}

// Client handles communication with the Nemlig.com web API: token
// acquisition, catalog search and basket mutation. One client instance
// serves all items of a batch; the bearer credential is passed in per call.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	searchURL      string
	deliveryZoneID int
	pageSize       int
	rateLimiter    *rate.Limiter
	debug          bool
}

// NewClient creates a new Nemlig API client
func NewClient(cfg ClientConfig) *Client {
	perSecond := cfg.PerSecond
	if perSecond <= 0 {
		perSecond = 2.0
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:        cfg.BaseURL,
		searchURL:      cfg.SearchURL,
		deliveryZoneID: cfg.DeliveryZoneID,
		pageSize:       cfg.PageSize,
		rateLimiter:    rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// SetDebug enables verbose request/response logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// AcquireToken obtains a short-lived bearer credential from the token
// endpoint. It is called once per batch and never retried: a non-success
// status or a body without access_token is a fatal *domain.AuthError.
func (c *Client) AcquireToken(ctx context.Context) (domain.Credential, error) {
	reqURL := fmt.Sprintf("%s/Token", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", &domain.AuthError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &domain.AuthError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("[NEMLIG] Token request failed - Status: %d, Body: %s", resp.StatusCode, string(body))
		return "", &domain.AuthError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var tokenResp domain.TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", &domain.AuthError{Err: fmt.Errorf("failed to decode token response: %w", err)}
	}

	if c.debug {
		log.Printf("[NEMLIG] Token response: type=%s expires_in=%d has_access_token=%v",
			tokenResp.TokenType, tokenResp.ExpiresIn, tokenResp.AccessToken != "")
	}

	if tokenResp.AccessToken == "" {
		return "", &domain.AuthError{Err: domain.ErrNoAccessToken}
	}

	return domain.Credential(tokenResp.AccessToken), nil
}

// Search retrieves raw catalog results for one query. A fixed page size is
// requested, never paginated. A non-success status is that item's terminal
// failure (*domain.SearchError); there is no retry.
func (c *Client) Search(ctx context.Context, cred domain.Credential, query domain.SearchQuery) (*domain.RawSearchResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	params := url.Values{}
	params.Add("query", query.Text)
	params.Add("take", strconv.Itoa(c.pageSize))
	params.Add("skip", "0")
	params.Add("recipeCount", "0")
	params.Add("timestamp", query.Timestamp)
	params.Add("timeslotUtc", query.TimeslotUTC)
	params.Add("deliveryZoneId", strconv.Itoa(c.deliveryZoneID))

	reqURL := fmt.Sprintf("%s?%s", c.searchURL, params.Encode())

	if c.debug {
		log.Printf("[NEMLIG] Searching for %q: %s", query.Text, reqURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setBrowserHeaders(req)
	req.Header.Set("Authorization", "Bearer "+string(cred))
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,da;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed for %q: %w", query.Text, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("[NEMLIG] Search failed for %q - Status: %d, Body: %s", query.Text, resp.StatusCode, string(body))
		return nil, &domain.SearchError{Item: query.Text, StatusCode: resp.StatusCode, Body: string(body)}
	}

	var searchResp domain.RawSearchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to decode search response for %q: %w", query.Text, err)
	}

	if c.debug {
		count := 0
		if searchResp.Products != nil {
			count = len(searchResp.Products.Products)
		}
		log.Printf("[NEMLIG] Search for %q returned %d products", query.Text, count)
	}

	return &searchResp, nil
}

// basketPayload is the fixed add-to-basket request body: always one unit,
// never a partial quantity.
type basketPayload struct {
	ProductID                 string `json:"ProductId"`
	Quantity                  int    `json:"quantity"`
	AffectPartialQuantity     bool   `json:"AffectPartialQuantity"`
	DisableQuantityValidation bool   `json:"disableQuantityValidation"`
}

// AddToBasket adds one unit of the product to the user's basket. A rejected
// request is returned as a *domain.BasketError value so the caller can
// report "chosen but not added" instead of a full item failure.
func (c *Client) AddToBasket(ctx context.Context, cred domain.Credential, productID string) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	payload := basketPayload{
		ProductID:                 productID,
		Quantity:                  1,
		AffectPartialQuantity:     false,
		DisableQuantityValidation: false,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode basket payload: %w", err)
	}

	reqURL := fmt.Sprintf("%s/basket/AddToBasket", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setBrowserHeaders(req)
	req.Header.Set("Authorization", "Bearer "+string(cred))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("basket request failed for product %s: %w", productID, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("[NEMLIG] AddToBasket failed for product %s - Status: %d, Body: %s", productID, resp.StatusCode, string(body))
		return &domain.BasketError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if c.debug {
		log.Printf("[NEMLIG] Product %s added to basket", productID)
	}

	return nil
}

// setBrowserHeaders adds the origin headers the web API expects from the
// storefront.
func (c *Client) setBrowserHeaders(req *http.Request) {
	req.Header.Set("Origin", "https://www.nemlig.com")
	req.Header.Set("Referer", "https://www.nemlig.com/")
}
