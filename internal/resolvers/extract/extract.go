// Package extract holds the heuristic primitives shared by the domain
// resolvers: lenient numeric coercion, the stop-word blacklist and the
// token scanners that pull candidate identifiers out of free text.
package extract

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// stopWords are common English words and market vocabulary that must never
// be mistaken for a ticker or coin identifier. Read-only after init.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "the": {}, "of": {}, "for": {}, "to": {},
	"in": {}, "on": {}, "at": {}, "by": {}, "with": {}, "from": {}, "up": {},
	"out": {}, "price": {}, "stock": {}, "share": {}, "buy": {}, "sell": {},
	"high": {}, "low": {}, "open": {}, "close": {},
}

var (
	upperTokenRe = regexp.MustCompile(`\b([A-Z]{1,4})\b`)
	lowerTokenRe = regexp.MustCompile(`\b([a-z]{2,25})\b`)
)

// IsStopWord reports whether the word is blacklisted. Matching is
// case-insensitive.
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(word)]
	return ok
}

// UppercaseTokens returns the 1-4 letter uppercase word tokens of the text,
// in order, excluding stop words and tokens shorter than minLen. The text is
// scanned as-is: ticker-like casing is the signal, so callers must not
// lowercase first.
func UppercaseTokens(text string, minLen int) []string {
	var tokens []string
	for _, m := range upperTokenRe.FindAllStringSubmatch(text, -1) {
		t := m[1]
		if len(t) < minLen || IsStopWord(t) {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// LowercaseTokens returns the 2-25 letter lowercase word tokens of the
// text, in order, excluding stop words.
func LowercaseTokens(text string) []string {
	var tokens []string
	for _, m := range lowerTokenRe.FindAllStringSubmatch(text, -1) {
		t := m[1]
		if IsStopWord(t) {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// SafeFloat coerces an arbitrary JSON-ish value to float64, returning def
// when the value is absent or not numeric. Provider payloads mix numbers,
// strings and nulls for the same field; absence is never fatal.
func SafeFloat(v interface{}, def float64) float64 {
	switch n := v.(type) {
	case nil:
		return def
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
		return def
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
		return def
	default:
		return def
	}
}

// PercentChange returns the percent change from prev to latest, zero when
// prev is zero so a missing previous close never faults.
func PercentChange(latest, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (latest - prev) / prev * 100
}
