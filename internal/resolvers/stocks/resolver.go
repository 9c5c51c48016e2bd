// Package stocks resolves equity queries: company-name and ticker
// extraction, daily-aggregates lookup with a quote-snapshot fallback, and
// the formatted answer text.
package stocks

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"investment-assistant/internal/common/logger"
	"investment-assistant/internal/common/metrics"
	"investment-assistant/internal/providers/polygon"
	"investment-assistant/internal/providers/yahoo"
	"investment-assistant/internal/resolvers/extract"
)

// companyAlias maps a company name to its ticker. The table is ordered:
// the first whole-word match in the query wins.
type companyAlias struct {
	name   string
	ticker string
}

var companyAliases = []companyAlias{
	{"apple", "AAPL"}, {"microsoft", "MSFT"}, {"alphabet", "GOOGL"}, {"google", "GOOGL"},
	{"amazon", "AMZN"}, {"meta", "META"}, {"facebook", "META"}, {"tesla", "TSLA"},
	{"nvidia", "NVDA"}, {"netflix", "NFLX"}, {"adobe", "ADBE"}, {"broadcom", "AVGO"},
	{"oracle", "ORCL"}, {"salesforce", "CRM"}, {"ibm", "IBM"}, {"intel", "INTC"},
	{"amd", "AMD"}, {"cisco", "CSCO"}, {"walmart", "WMT"}, {"visa", "V"},
	{"mastercard", "MA"}, {"jpmorgan", "JPM"}, {"berkshire", "BRK-B"}, {"johnson", "JNJ"},
	{"procter", "PG"}, {"unitedhealth", "UNH"}, {"home depot", "HD"}, {"chevron", "CVX"},
	{"exxon", "XOM"}, {"coca cola", "KO"}, {"pepsi", "PEP"},
}

var aliasPatterns = compileAliasPatterns()

func compileAliasPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(companyAliases))
	for i, alias := range companyAliases {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(alias.name) + `\b`)
	}
	return patterns
}

const guidanceMessage = "Please specify a stock ticker or company name (e.g., AAPL, Apple, MSFT)."

const wisdomTemplate = "\n\nWisdom: Investing in stocks like %s rewards patience. Focus on fundamentals, diversify, and avoid emotional trades—markets reward the disciplined."

// AggregatesProvider supplies previous-day daily bars for a ticker.
type AggregatesProvider interface {
	PrevDayBars(ctx context.Context, symbol string) ([]polygon.Bar, error)
}

// QuoteProvider supplies the descriptive snapshot, recent closes and
// headlines used to enrich and to fall back.
type QuoteProvider interface {
	QuoteSummary(ctx context.Context, symbol string) (*yahoo.Summary, error)
	DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error)
	LatestNews(ctx context.Context, symbol string) ([]yahoo.NewsItem, error)
}

// Resolver answers stock queries. Resolve never returns an error: every
// failure mode renders as a user-facing message.
type Resolver struct {
	aggregates AggregatesProvider
	quotes     QuoteProvider
	logger     logger.Logger
}

func NewResolver(aggregates AggregatesProvider, quotes QuoteProvider, log logger.Logger) *Resolver {
	return &Resolver{
		aggregates: aggregates,
		quotes:     quotes,
		logger:     log.With(map[string]interface{}{"resolver": "stocks"}),
	}
}

// ExtractTicker pulls a ticker out of the query. Company aliases are
// checked first against the lowercased query; failing that, the first
// non-blacklisted 2-4 letter uppercase token of the raw query is taken.
// Empty string means no candidate.
func ExtractTicker(query string) string {
	lower := strings.ToLower(query)
	for i, alias := range companyAliases {
		if aliasPatterns[i].MatchString(lower) {
			return alias.ticker
		}
	}
	if tokens := extract.UppercaseTokens(query, 2); len(tokens) > 0 {
		return tokens[0]
	}
	return ""
}

func (r *Resolver) Resolve(ctx context.Context, query string) string {
	ticker := ExtractTicker(query)
	if ticker == "" {
		return guidanceMessage
	}

	answer, err := r.resolvePrimary(ctx, ticker)
	if err == nil {
		return answer
	}

	r.logger.WithError(err).Warn("primary stock lookup failed, falling back", map[string]interface{}{
		"ticker": ticker,
	})
	metrics.ResolverFallbacks.WithLabelValues("stocks").Inc()

	answer, err = r.resolveFallback(ctx, ticker)
	if err != nil {
		return fmt.Sprintf("Error fetching stock data for %s: %v", ticker, err)
	}
	return answer
}

// resolvePrimary combines previous-day aggregates with the quote snapshot.
// Any failure except the optional news lookup sends the caller to the
// fallback path.
func (r *Resolver) resolvePrimary(ctx context.Context, ticker string) (string, error) {
	bars, err := r.aggregates.PrevDayBars(ctx, ticker)
	if err != nil {
		return "", err
	}

	latest := bars[len(bars)-1].Close
	prev := latest
	if len(bars) > 1 {
		prev = bars[len(bars)-2].Close
	}
	volume := bars[len(bars)-1].Volume

	summary, err := r.quotes.QuoteSummary(ctx, ticker)
	if err != nil {
		return "", err
	}

	return r.formatAnswer(ctx, ticker, summary, latest, prev, volume), nil
}

// resolveFallback rebuilds the answer from the quote provider alone.
func (r *Resolver) resolveFallback(ctx context.Context, ticker string) (string, error) {
	closes, err := r.quotes.DailyCloses(ctx, ticker, 3)
	if err != nil {
		return "", err
	}

	summary, err := r.quotes.QuoteSummary(ctx, ticker)
	if err != nil {
		return "", err
	}

	var latest, prev float64
	if len(closes) == 0 {
		latest = summary.RegularMarketPrice
		if latest == 0 {
			latest = summary.PreviousClose
		}
		if latest == 0 {
			return fmt.Sprintf("No recent data found for %s.", ticker), nil
		}
		prev = summary.PreviousClose
		if prev == 0 {
			prev = latest
		}
	} else {
		latest = closes[len(closes)-1]
		if len(closes) > 1 {
			prev = closes[len(closes)-2]
		} else if summary.PreviousClose != 0 {
			prev = summary.PreviousClose
		} else {
			prev = latest
		}
	}

	return r.formatAnswer(ctx, ticker, summary, latest, prev, summary.Volume), nil
}

func (r *Resolver) formatAnswer(ctx context.Context, ticker string, summary *yahoo.Summary, latest, prev, volume float64) string {
	pct := extract.PercentChange(latest, prev)
	name := summary.DisplayName(ticker)

	extra := fmt.Sprintf(" | MCap: $%s | Vol: %s | 52W: $%.2f-$%.2f",
		extract.GroupedInt(summary.MarketCap),
		extract.GroupedInt(volume),
		summary.FiftyTwoWeekLow,
		summary.FiftyTwoWeekHigh,
	)

	newsStr := ""
	if news, err := r.quotes.LatestNews(ctx, ticker); err == nil && len(news) > 0 {
		publisher := news[0].Publisher
		if publisher == "" {
			publisher = "Unknown"
		}
		newsStr = fmt.Sprintf("\nLatest News: %s (%s)", news[0].Title, publisher)
	}

	wisdom := fmt.Sprintf(wisdomTemplate, name)
	return fmt.Sprintf("Stock %s (%s) — Price: $%.2f, Change: %+.2f%%%s%s%s",
		ticker, name, latest, pct, extra, newsStr, wisdom)
}
