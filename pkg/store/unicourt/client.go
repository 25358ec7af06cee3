// Package unicourt wraps the external attorney-performance data provider.
// Responses are cached for 24 hours; performance data moves slowly and
// the provider is rate limited.
package unicourt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/counsel-tools/rate-lens/pkg/cache"
)

const performanceTTL = 24 * time.Hour

// PerformanceMetrics summarizes an attorney's litigation track record.
type PerformanceMetrics struct {
	AttorneyID   string  `json:"attorney_id"`
	CaseCount    int     `json:"case_count"`
	WinRate      float64 `json:"win_rate"`
	YearsActive  int     `json:"years_active"`
	PracticeArea string  `json:"practice_area"`
}

type Client struct {
	http  *resty.Client
	cache cache.Cache
}

func NewClient(baseURL, apiKey string, c cache.Cache) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Authorization", "Bearer "+apiKey).
			SetTimeout(15 * time.Second).
			SetRetryCount(2),
		cache: c,
	}
}

// Performance returns performance metrics for one attorney, from cache
// when fresh.
func (c *Client) Performance(ctx context.Context, attorneyID string) (*PerformanceMetrics, error) {
	logger := zerolog.Ctx(ctx)
	key := "unicourt:performance:" + attorneyID

	if raw, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var metrics PerformanceMetrics
		if err := json.Unmarshal([]byte(raw), &metrics); err == nil {
			return &metrics, nil
		}
	}

	var metrics PerformanceMetrics
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("attorneyID", attorneyID).
		SetResult(&metrics).
		Get("/attorneys/{attorneyID}/performance")
	if err != nil {
		return nil, fmt.Errorf("fetching performance for attorney %s: %w", attorneyID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("performance provider returned %s for attorney %s", resp.Status(), attorneyID)
	}
	metrics.AttorneyID = attorneyID

	if payload, err := json.Marshal(metrics); err == nil {
		if err := c.cache.Set(ctx, key, string(payload), performanceTTL); err != nil {
			logger.Warn().Err(err).Str("attorney_id", attorneyID).Msg("failed to cache performance metrics")
		}
	}
	return &metrics, nil
}

// PerformanceBatch loads metrics for many attorneys, skipping attorneys
// the provider has no data for instead of failing the batch.
func (c *Client) PerformanceBatch(ctx context.Context, attorneyIDs []string) (map[string]*PerformanceMetrics, []string, error) {
	logger := zerolog.Ctx(ctx)
	metrics := make(map[string]*PerformanceMetrics, len(attorneyIDs))
	var missing []string

	for _, id := range attorneyIDs {
		m, err := c.Performance(ctx, id)
		if err != nil {
			logger.Debug().Err(err).Str("attorney_id", id).Msg("no performance data")
			missing = append(missing, id)
			continue
		}
		metrics[id] = m
	}
	return metrics, missing, nil
}
