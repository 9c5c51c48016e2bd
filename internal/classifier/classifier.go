// Package classifier decides which domain a free-text financial query
// belongs to. Two interchangeable strategies implement Classifier: the
// deterministic keyword scan and the delegated text-completion strategy.
package classifier

import "context"

// Category is the query domain. Every query maps to exactly one of the
// three values; unrecognized classifier output coerces to CategoryStocks.
type Category string

const (
	CategoryStocks Category = "stocks"
	CategoryCrypto Category = "crypto"
	CategoryForex  Category = "forex"
)

// Valid reports whether c is one of the three recognized categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStocks, CategoryCrypto, CategoryForex:
		return true
	}
	return false
}

// Classifier assigns a category to a raw query. The keyword strategy never
// returns an error; the delegated strategy propagates capability faults
// instead of silently downgrading.
type Classifier interface {
	Classify(ctx context.Context, query string) (Category, error)
}
