// internal/providers/yahoo/client.go
package yahoo

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
	"investment-assistant/internal/resolvers/extract"
)

const providerName = "yahoo"

// Client fetches descriptive snapshots, close history and news from the
// Yahoo Finance public endpoints. It is the enrichment source and fallback
// tier for equities and forex.
type Client struct {
	baseURL string
	client  *commonhttp.Client
	logger  logger.Logger
}

func NewClient(cfg config.YahooConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client:  commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		logger: log.With(map[string]interface{}{
			"provider": providerName,
		}),
	}
}

// QuoteSummary returns the descriptive snapshot for a symbol.
func (c *Client) QuoteSummary(ctx context.Context, symbol string) (*Summary, error) {
	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", c.baseURL, url.QueryEscape(symbol))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var quote quoteResponse
	if err := json.Unmarshal(body, &quote); err != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if quote.QuoteResponse.Error != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("yahoo api error: %s", quote.QuoteResponse.Error.Description)
	}
	if len(quote.QuoteResponse.Result) == 0 {
		metrics.ProviderRequests.WithLabelValues(providerName, "empty").Inc()
		return nil, fmt.Errorf("yahoo: no quote for %s", symbol)
	}

	r := quote.QuoteResponse.Result[0]
	metrics.ProviderRequests.WithLabelValues(providerName, "ok").Inc()
	return &Summary{
		ShortName:          r.ShortName,
		LongName:           r.LongName,
		MarketCap:          r.MarketCap,
		FiftyTwoWeekHigh:   r.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:    r.FiftyTwoWeekLow,
		RegularMarketPrice: r.RegularMarketPrice,
		PreviousClose:      r.RegularMarketPreviousClose,
		Volume:             r.RegularMarketVolume,
	}, nil
}

// DailyCloses returns up to days most-recent daily closes, oldest first.
// Null bars (holidays etc.) are skipped. An empty slice is a valid result.
func (c *Client) DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%dd",
		c.baseURL, url.PathEscape(symbol), days)

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart chartResponse
	if err := json.Unmarshal(body, &chart); err != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}

	metrics.ProviderRequests.WithLabelValues(providerName, "ok").Inc()

	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	raw := chart.Chart.Result[0].Indicators.Quote[0].Close
	closes := make([]float64, 0, len(raw))
	for _, v := range raw {
		if c := extract.SafeFloat(v, 0); c != 0 {
			closes = append(closes, c)
		}
	}
	if len(closes) > days {
		closes = closes[len(closes)-days:]
	}
	return closes, nil
}

// LatestNews returns recent news items for a symbol, newest first.
func (c *Client) LatestNews(ctx context.Context, symbol string) ([]NewsItem, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&newsCount=5", c.baseURL, url.QueryEscape(symbol))

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var search searchResponse
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}

	items := make([]NewsItem, 0, len(search.News))
	for _, n := range search.News {
		items = append(items, NewsItem{
			Title:     n.Title,
			Publisher: publisherName(n.Publisher),
		})
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// The public endpoints reject requests without a browser-ish UA.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		metrics.ProviderRequests.WithLabelValues(providerName, "error").Inc()
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
