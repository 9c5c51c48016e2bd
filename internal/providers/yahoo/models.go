// internal/providers/yahoo/models.go
package yahoo

import "encoding/json"

// Summary is the descriptive snapshot for a symbol: best-effort fields,
// zero/empty when the provider omits them.
type Summary struct {
	ShortName          string
	LongName           string
	MarketCap          float64
	FiftyTwoWeekHigh   float64
	FiftyTwoWeekLow    float64
	RegularMarketPrice float64
	PreviousClose      float64
	Volume             float64
}

// DisplayName returns the short name, falling back to the long name and
// finally the supplied default.
func (s *Summary) DisplayName(fallback string) string {
	if s == nil {
		return fallback
	}
	if s.ShortName != "" {
		return s.ShortName
	}
	if s.LongName != "" {
		return s.LongName
	}
	return fallback
}

// NewsItem is one headline with its publisher.
type NewsItem struct {
	Title     string
	Publisher string
}

type quoteResponse struct {
	QuoteResponse struct {
		Result []struct {
			ShortName                  string  `json:"shortName"`
			LongName                   string  `json:"longName"`
			MarketCap                  float64 `json:"marketCap"`
			FiftyTwoWeekHigh           float64 `json:"fiftyTwoWeekHigh"`
			FiftyTwoWeekLow            float64 `json:"fiftyTwoWeekLow"`
			RegularMarketPrice         float64 `json:"regularMarketPrice"`
			RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
			RegularMarketVolume        float64 `json:"regularMarketVolume"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"quoteResponse"`
}

type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiError `json:"error"`
	} `json:"chart"`
}

type searchResponse struct {
	News []struct {
		Title     string          `json:"title"`
		Publisher json.RawMessage `json:"publisher"`
	} `json:"news"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// publisherName accepts either a bare string or a nested record with a name
// field; newer feed entries use the latter shape.
func publisherName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "Unknown"
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return s
	}

	var nested struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		if nested.Name != "" {
			return nested.Name
		}
		if nested.DisplayName != "" {
			return nested.DisplayName
		}
	}

	return "Unknown"
}
