// Package rates implements the exchange-rate provider client used by the
// currency converter.
package rates

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// Client fetches spot rates from a frankfurter-style HTTP API:
// GET {base}/latest?base=USD&symbols=EUR -> {"rates": {"EUR": 0.92}}.
type Client struct {
	http *resty.Client
}

type latestResponse struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(500 * time.Millisecond),
	}
}

func (c *Client) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	var payload latestResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"base":    from,
			"symbols": to,
		}).
		SetResult(&payload).
		Get("/latest")
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetching %s/%s rate: %w", from, to, err)
	}
	if resp.IsError() {
		return decimal.Zero, fmt.Errorf("rate provider returned %s for %s/%s", resp.Status(), from, to)
	}

	rate, ok := payload.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("rate provider response missing %s rate", to)
	}
	return decimal.NewFromFloat(rate), nil
}
