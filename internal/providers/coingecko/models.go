// internal/providers/coingecko/models.go
package coingecko

// Price is the USD price block for one coin.
type Price struct {
	USD       float64
	Change24h float64
	MarketCap float64
	Volume24h float64
}

// ListEntry is one row of the provider's coin catalogue.
type ListEntry struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
