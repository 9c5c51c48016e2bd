// internal/providers/coingecko/client.go
package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"investment-assistant/internal/common/config"
	commonhttp "investment-assistant/internal/common/http"
	"investment-assistant/internal/common/logger"
	"investment-assistant/internal/common/metrics"
)

const providerName = "coingecko"

// Client fetches cryptocurrency prices, the full coin list and market
// rankings from the CoinGecko API.
type Client struct {
	baseURL string
	client  *commonhttp.Client
	logger  logger.Logger
}

func NewClient(cfg config.CoinGeckoConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client:  commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		logger: log.With(map[string]interface{}{
			"provider": providerName,
		}),
	}
}

// SimplePrice returns the USD price block for a coin id. The second return
// is false when the provider does not recognize the id; that is not an
// error, the caller may retry with a resolved id.
func (c *Client) SimplePrice(ctx context.Context, id string) (*Price, bool, error) {
	u := fmt.Sprintf("%s/api/v3/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true&include_market_cap=true&include_24hr_vol=true",
		c.baseURL, url.QueryEscape(id))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, false, err
	}

	var prices map[string]map[string]float64
	if err := json.Unmarshal(body, &prices); err != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, false, fmt.Errorf("coingecko decode: %w", err)
	}

	metrics.ProviderRequests.WithLabelValues(providerName, "ok").Inc()

	entry, ok := prices[id]
	if !ok {
		return nil, false, nil
	}
	return &Price{
		USD:       entry["usd"],
		Change24h: entry["usd_24h_change"],
		MarketCap: entry["usd_market_cap"],
		Volume24h: entry["usd_24h_vol"],
	}, true, nil
}

// CoinsList returns the provider's full id/symbol/name catalogue.
func (c *Client) CoinsList(ctx context.Context) ([]ListEntry, error) {
	body, err := c.get(ctx, c.baseURL+"/api/v3/coins/list")
	if err != nil {
		return nil, err
	}

	var list []ListEntry
	if err := json.Unmarshal(body, &list); err != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("coingecko decode: %w", err)
	}

	metrics.ProviderRequests.WithLabelValues(providerName, "ok").Inc()
	return list, nil
}

// MarketCapRank returns the market-cap rank for a coin id, 0 when unranked.
func (c *Client) MarketCapRank(ctx context.Context, id string) (int, error) {
	u := fmt.Sprintf("%s/api/v3/coins/markets?vs_currency=usd&ids=%s&per_page=1&order=market_cap_desc",
		c.baseURL, url.QueryEscape(id))

	body, err := c.get(ctx, u)
	if err != nil {
		return 0, err
	}

	var markets []struct {
		MarketCapRank int `json:"market_cap_rank"`
	}
	if err := json.Unmarshal(body, &markets); err != nil {
		return 0, fmt.Errorf("coingecko decode: %w", err)
	}
	if len(markets) == 0 {
		return 0, fmt.Errorf("coingecko: no market data for %s", id)
	}
	return markets[0].MarketCapRank, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("coingecko fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("coingecko read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("coingecko: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
