package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client fetches historical exchange rates from an HTTP rate service. Rates
// are expressed as units of the currency per USD.
type Client struct {
	baseURL string
	http    *http.Client
}

type ratesResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Convert looks up the rate for code as of asOf and returns the USD amount.
// A currency absent from the published rate table yields
// ErrUnknownCurrency.
func (c *Client) Convert(ctx context.Context, amount float64, code string, asOf time.Time) (float64, error) {
	if code == USD {
		return amount, nil
	}

	endpoint := fmt.Sprintf("%s/rates?%s", c.baseURL, url.Values{
		"base": {USD},
		"date": {asOf.Format("2006-01-02")},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, fmt.Errorf("build rates request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate service returned status %d", resp.StatusCode)
	}

	var body ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode rates response: %w", err)
	}

	rate, ok := body.Rates[code]
	if !ok || rate == 0 {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}

	return amount / rate, nil
}
