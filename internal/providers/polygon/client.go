// internal/providers/polygon/client.go
package polygon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"investment-assistant/internal/common/config"
	commonerrors "investment-assistant/internal/common/errors"
	commonhttp "investment-assistant/internal/common/http"
	"investment-assistant/internal/common/logger"
	"investment-assistant/internal/common/metrics"
)

const providerName = "polygon"

// Client fetches previous-day aggregate bars from the Polygon API. It serves
// as the primary quote source for both equities and forex.
type Client struct {
	baseURL string
	apiKey  string
	client  *commonhttp.Client
	logger  logger.Logger
}

func NewClient(cfg config.PolygonConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		logger: log.With(map[string]interface{}{
			"provider": providerName,
		}),
	}
}

// PrevDayBars returns the previous trading day's aggregate bars for the
// symbol, most recent last.
func (c *Client) PrevDayBars(ctx context.Context, symbol string) ([]Bar, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: POLYGON_API_KEY not set", commonerrors.ErrAuthMissing)
	}

	u := fmt.Sprintf("%s/v2/aggs/ticker/%s/prev?adjusted=true&apikey=%s",
		c.baseURL, url.PathEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("polygon fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("polygon read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("polygon: status %d, body: %s", resp.StatusCode, string(body))
	}

	var aggs aggsResponse
	if err := json.Unmarshal(body, &aggs); err != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("polygon decode: %w", err)
	}
	if len(aggs.Results) == 0 {
		metrics.ProviderRequests.WithLabelValues(providerName, "empty").Inc()
		return nil, fmt.Errorf("%w: no results for %s", commonerrors.ErrNoData, symbol)
	}

	metrics.ProviderRequests.WithLabelValues(providerName, "ok").Inc()
	return aggs.Results, nil
}

// PrevDayClose returns the most recent aggregate close for the symbol.
func (c *Client) PrevDayClose(ctx context.Context, symbol string) (float64, error) {
	bars, err := c.PrevDayBars(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return bars[len(bars)-1].Close, nil
}
