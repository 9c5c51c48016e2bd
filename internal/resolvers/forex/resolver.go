// Package forex resolves currency queries: pair and amount extraction,
// previous-day rate lookup with a quote-snapshot fallback, and the
// formatted answer.
package forex

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"investment-assistant/internal/common/logger"
	"investment-assistant/internal/common/metrics"
	"investment-assistant/internal/providers/yahoo"
	"investment-assistant/internal/resolvers/extract"
)

// Pair patterns run against the uppercased query, in order: explicit
// separator, conversion phrase with an amount, then bare "X to Y".
var (
	separatorRe  = regexp.MustCompile(`([A-Z]{3})\s*[/\-]\s*([A-Z]{3})`)
	conversionRe = regexp.MustCompile(`CONVERT\s+([\d,\.]+)\s*([A-Z]{3})\s+TO\s+([A-Z]{3})`)
	bareToRe     = regexp.MustCompile(`([A-Z]{3})\s+TO\s+([A-Z]{3})`)
)

const guidanceMessage = "Please specify a currency pair like 'USD/INR' or 'Convert 100 USD to EUR'. Tip: Forex rates fluctuate based on economic indicators like interest rates and inflation."

const economicInsight = " Economic Insight: Monitor central bank policies for volatility."

const wisdomTemplate = "\n\nWisdom: Forex like %s/%s thrives on global events. Trade with discipline—use stop-losses, leverage wisely, and let economics, not emotions, guide you."

// RateProvider supplies the previous-day closing rate for a pair symbol.
type RateProvider interface {
	PrevDayClose(ctx context.Context, symbol string) (float64, error)
}

// SnapshotProvider supplies the fallback quote snapshot for a pair symbol.
type SnapshotProvider interface {
	QuoteSummary(ctx context.Context, symbol string) (*yahoo.Summary, error)
}

// Resolver answers forex queries. Resolve never returns an error: every
// failure mode renders as a user-facing message.
type Resolver struct {
	rates     RateProvider
	snapshots SnapshotProvider
	logger    logger.Logger
}

func NewResolver(rates RateProvider, snapshots SnapshotProvider, log logger.Logger) *Resolver {
	return &Resolver{
		rates:     rates,
		snapshots: snapshots,
		logger:    log.With(map[string]interface{}{"resolver": "forex"}),
	}
}

// ExtractPair pulls (base, quote, amount) out of the query. The amount is
// 1 unless a conversion phrase names one. ok is false when no pattern
// matches.
func ExtractPair(query string) (base, quote string, amount float64, ok bool) {
	upper := strings.ToUpper(query)
	amount = 1.0

	if m := separatorRe.FindStringSubmatch(upper); m != nil {
		return m[1], m[2], amount, true
	}
	if m := conversionRe.FindStringSubmatch(upper); m != nil {
		amount = extract.SafeFloat(strings.ReplaceAll(m[1], ",", ""), 0)
		return m[2], m[3], amount, true
	}
	if m := bareToRe.FindStringSubmatch(upper); m != nil {
		return m[1], m[2], amount, true
	}
	return "", "", 0, false
}

func (r *Resolver) Resolve(ctx context.Context, query string) string {
	base, quote, amount, ok := ExtractPair(query)
	if !ok {
		return guidanceMessage
	}

	symbol := base + quote + "=X"

	rate, err := r.rates.PrevDayClose(ctx, symbol)
	if err == nil {
		return formatAnswer(base, quote, amount, rate)
	}

	r.logger.WithError(err).Warn("primary rate lookup failed, falling back", map[string]interface{}{
		"pair": base + "/" + quote,
	})
	metrics.ResolverFallbacks.WithLabelValues("forex").Inc()

	summary, err := r.snapshots.QuoteSummary(ctx, symbol)
	if err != nil {
		return fmt.Sprintf("Error fetching forex rate: %v", err)
	}

	rate = summary.RegularMarketPrice
	if rate == 0 {
		rate = summary.PreviousClose
	}
	if rate == 0 {
		return fmt.Sprintf("Could not fetch rate for %s/%s.", base, quote)
	}
	return formatAnswer(base, quote, amount, rate)
}

func formatAnswer(base, quote string, amount, rate float64) string {
	wisdom := fmt.Sprintf(wisdomTemplate, base, quote)

	if amount != 1.0 {
		converted := amount * rate
		// Whole amounts keep one decimal: "100.0 USD", not "100 USD".
		amountStr := strconv.FormatFloat(amount, 'f', -1, 64)
		if !strings.Contains(amountStr, ".") {
			amountStr += ".0"
		}
		return fmt.Sprintf("Forex %s/%s — %s %s = %s %s (rate: 1 %s = %.6f %s)%s%s",
			base, quote, amountStr, base, extract.GroupedFloat(converted, 4), quote,
			base, rate, quote, economicInsight, wisdom)
	}
	return fmt.Sprintf("Forex %s/%s — Rate: 1 %s = %.6f %s.%s%s",
		base, quote, base, rate, quote, economicInsight, wisdom)
}
