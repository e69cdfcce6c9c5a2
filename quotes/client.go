package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"tradesim/models"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// APIClient looks up quotes from an IEX-style HTTP endpoint:
// GET {base}/stock/{symbol}/quote?token={key} returning
// {"symbol": ..., "companyName": ..., "latestPrice": ...}.
// The HTTP client carries a hard timeout so an unresponsive provider can
// never hang a request indefinitely.
type APIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewAPIClient creates a quote API client
func NewAPIClient(baseURL, apiKey string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type quoteResponse struct {
	Symbol      string  `json:"symbol"`
	CompanyName string  `json:"companyName"`
	LatestPrice float64 `json:"latestPrice"`
}

// Lookup fetches the current quote for a symbol. An unknown symbol returns
// (nil, nil); errors indicate transport or provider failures.
func (c *APIClient) Lookup(ctx context.Context, symbol string) (*models.Quote, error) {
	endpoint := fmt.Sprintf("%s/stock/%s/quote?token=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %q: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote provider returned status %d for %q", resp.StatusCode, symbol)
	}

	var body quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode quote for %q: %w", symbol, err)
	}

	price := decimal.NewFromFloat(body.LatestPrice).Round(2)
	if !price.IsPositive() {
		return nil, fmt.Errorf("quote provider returned non-positive price %s for %q", price, symbol)
	}

	log.WithFields(log.Fields{
		"symbol": body.Symbol,
		"price":  price,
	}).Debug("Fetched quote from provider")

	return &models.Quote{
		Symbol: body.Symbol,
		Name:   body.CompanyName,
		Price:  price,
	}, nil
}
