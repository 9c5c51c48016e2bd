// Package crypto resolves cryptocurrency queries: symbol aliases, the
// major-coin allowlist, catalogue reconciliation and the formatted answer.
package crypto

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"investment-assistant/internal/common/logger"
	"investment-assistant/internal/common/metrics"
	"investment-assistant/internal/providers/coingecko"
	"investment-assistant/internal/resolvers/extract"
)

// symbolAlias maps a trading symbol to its catalogue id. The table is
// ordered: the first whole-word match wins, and an alias hit skips the
// allowlist check.
type symbolAlias struct {
	symbol string
	id     string
}

var symbolAliases = []symbolAlias{
	{"btc", "bitcoin"}, {"eth", "ethereum"}, {"usdt", "tether"},
	{"bnb", "binancecoin"}, {"xrp", "ripple"}, {"ada", "cardano"},
	{"sol", "solana"}, {"doge", "dogecoin"}, {"matic", "matic-network"},
}

var aliasPatterns = compileAliasPatterns()

func compileAliasPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(symbolAliases))
	for i, alias := range symbolAliases {
		patterns[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(alias.symbol) + `\b`)
	}
	return patterns
}

// knownIDs is the major-coin allowlist for identifiers extracted from
// free text rather than through an alias.
var knownIDs = map[string]struct{}{
	"bitcoin": {}, "ethereum": {}, "tether": {}, "xrp": {}, "binancecoin": {},
	"solana": {}, "usd-coin": {}, "lido-staked-ether": {}, "tron": {}, "dogecoin": {},
	"cardano": {}, "wrapped-steth": {}, "wrapped-bitcoin": {}, "whitebit-token": {},
	"chainlink": {}, "bitcoin-cash": {}, "zcash": {}, "stellar": {},
	"hedera-hashgraph": {}, "litecoin": {}, "sui": {}, "avalanche-2": {}, "monero": {},
	"shiba-inu": {}, "polkadot": {}, "toncoin": {}, "dai": {}, "uniswap": {},
	"internet-computer": {}, "bittensor": {}, "near-protocol": {},
}

const guidanceMessage = "Please specify a known crypto (e.g., BTC, ETH, Bitcoin)."

const wisdomTemplate = "\n\nWisdom: %s embodies innovation but volatility. HODL wisely, research deeply, and remember: in crypto, fortune favors the informed bold."

var titleCaser = cases.Title(language.English)

// PriceProvider supplies USD prices, the coin catalogue and market-cap
// ranks.
type PriceProvider interface {
	SimplePrice(ctx context.Context, id string) (*coingecko.Price, bool, error)
	CoinsList(ctx context.Context) ([]coingecko.ListEntry, error)
	MarketCapRank(ctx context.Context, id string) (int, error)
}

// Resolver answers crypto queries. Resolve never returns an error: every
// failure mode renders as a user-facing message.
type Resolver struct {
	prices PriceProvider
	logger logger.Logger
}

func NewResolver(prices PriceProvider, log logger.Logger) *Resolver {
	return &Resolver{
		prices: prices,
		logger: log.With(map[string]interface{}{"resolver": "crypto"}),
	}
}

// ExtractCoinID pulls a catalogue id out of the query. Alias matches are
// trusted as-is; a bare word is only accepted when it is on the major-coin
// allowlist, and the last non-blacklisted word of the query is the
// candidate. Empty string means no acceptable candidate.
func ExtractCoinID(query string) string {
	lower := strings.ToLower(query)
	for i, alias := range symbolAliases {
		if aliasPatterns[i].MatchString(lower) {
			return alias.id
		}
	}

	tokens := extract.LowercaseTokens(lower)
	if len(tokens) == 0 {
		return ""
	}
	candidate := tokens[len(tokens)-1]
	if _, ok := knownIDs[candidate]; !ok {
		return ""
	}
	return candidate
}

func (r *Resolver) Resolve(ctx context.Context, query string) string {
	coinID := ExtractCoinID(query)
	if coinID == "" {
		return guidanceMessage
	}

	price, found, err := r.prices.SimplePrice(ctx, coinID)
	if err != nil {
		return fmt.Sprintf("Error fetching crypto data: %v", err)
	}

	if !found {
		// Reconcile against the catalogue: the extracted word may be a
		// symbol or display name rather than an id.
		coinID, price, found, err = r.reconcile(ctx, coinID)
		if err != nil {
			return fmt.Sprintf("Error fetching crypto data: %v", err)
		}
		if coinID == "" {
			return fmt.Sprintf("Could not find major crypto data for '%s'.", query)
		}
	}
	if !found {
		return fmt.Sprintf("Could not find crypto data for '%s'.", query)
	}

	return r.formatAnswer(ctx, coinID, price)
}

// reconcile looks the candidate up in the full coin catalogue by id,
// symbol or name. A catalogue hit outside the allowlist returns an empty
// id so the caller renders the major-coin message.
func (r *Resolver) reconcile(ctx context.Context, candidate string) (string, *coingecko.Price, bool, error) {
	metrics.ResolverFallbacks.WithLabelValues("crypto").Inc()

	entries, err := r.prices.CoinsList(ctx)
	if err != nil {
		return candidate, nil, false, err
	}

	for _, entry := range entries {
		if candidate == entry.ID ||
			candidate == strings.ToLower(entry.Symbol) ||
			candidate == strings.ToLower(entry.Name) {
			if _, ok := knownIDs[entry.ID]; !ok {
				r.logger.Debug("catalogue match outside allowlist", map[string]interface{}{
					"candidate": candidate,
					"id":        entry.ID,
				})
				return "", nil, false, nil
			}
			price, found, err := r.prices.SimplePrice(ctx, entry.ID)
			return entry.ID, price, found, err
		}
	}
	return candidate, nil, false, nil
}

func (r *Resolver) formatAnswer(ctx context.Context, coinID string, price *coingecko.Price) string {
	priceStr := "$" + extract.GroupedFloat(price.USD, 2)
	if price.USD < 1 {
		priceStr = "$" + extract.GroupedFloat(price.USD, 4)
	}

	mcStr := "N/A"
	if price.MarketCap != 0 {
		mcStr = "$" + extract.GroupedInt(price.MarketCap)
	}
	volStr := "N/A"
	if price.Volume24h != 0 {
		volStr = "$" + extract.GroupedInt(price.Volume24h)
	}

	rankStr := "N/A"
	if rank, err := r.prices.MarketCapRank(ctx, coinID); err == nil && rank > 0 {
		rankStr = fmt.Sprintf("#%d", rank)
	}

	display := titleCaser.String(strings.ReplaceAll(coinID, "-", " "))
	wisdom := fmt.Sprintf(wisdomTemplate, titleCaser.String(coinID))

	return fmt.Sprintf("Crypto %s — Price: %s, 24h Change: %+.2f%%, Rank: %s, MCap: %s, 24h Vol: %s%s",
		display, priceStr, price.Change24h, rankStr, mcStr, volStr, wisdom)
}
