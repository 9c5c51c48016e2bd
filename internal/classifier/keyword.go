package classifier

import (
	"context"
	"regexp"
	"strings"

	"investment-assistant/internal/common/logger"
)

// tickerRe matches short all-caps tokens in the query as originally typed.
// Lowercasing first would make every word look like a ticker, so the scan
// runs on the raw text.
var tickerRe = regexp.MustCompile(`\b[A-Z]{1,4}\b`)

var (
	stockKeywords  = []string{"stock", "share", "ticker"}
	cryptoKeywords = []string{"crypto", "bitcoin", "eth", "coin"}
	forexKeywords  = []string{"forex", "currency", "usd", "eur", "convert"}
)

// KeywordClassifier categorizes queries with substring matching. Rules are
// checked in a fixed order (stocks, crypto, forex) and the first hit wins,
// with stocks as the fallback when nothing matches.
type KeywordClassifier struct {
	logger logger.Logger
}

func NewKeywordClassifier(log logger.Logger) *KeywordClassifier {
	return &KeywordClassifier{logger: log}
}

func (c *KeywordClassifier) Classify(_ context.Context, query string) (Category, error) {
	lower := strings.ToLower(query)

	category := CategoryStocks
	switch {
	case containsAny(lower, stockKeywords) || tickerRe.MatchString(query):
		category = CategoryStocks
	case containsAny(lower, cryptoKeywords):
		category = CategoryCrypto
	case containsAny(lower, forexKeywords):
		category = CategoryForex
	}

	c.logger.Debug("classified query by keywords", map[string]interface{}{
		"category": string(category),
	})
	return category, nil
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
