package forex

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"investment-assistant/internal/common/logger"
	"investment-assistant/internal/providers/yahoo"
)

// ==========================
// 1. Pair Extraction Tests
// ==========================

func TestExtractPair(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		base     string
		quote    string
		amount   float64
		expectOK bool
	}{
		{
			name:     "slash separator",
			query:    "what is USD/INR today",
			base:     "USD",
			quote:    "INR",
			amount:   1,
			expectOK: true,
		},
		{
			name:     "dash separator lowercase input",
			query:    "eur - gbp rate please",
			base:     "EUR",
			quote:    "GBP",
			amount:   1,
			expectOK: true,
		},
		{
			name:     "conversion phrase with amount",
			query:    "Convert 100 USD to INR",
			base:     "USD",
			quote:    "INR",
			amount:   100,
			expectOK: true,
		},
		{
			name:     "conversion amount with thousands separator",
			query:    "convert 1,500.50 eur to usd",
			base:     "EUR",
			quote:    "USD",
			amount:   1500.50,
			expectOK: true,
		},
		{
			name:     "bare to phrase",
			query:    "gbp to jpy",
			base:     "GBP",
			quote:    "JPY",
			amount:   1,
			expectOK: true,
		},
		{
			name:     "no pair",
			query:    "how is the dollar doing",
			expectOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, quote, amount, ok := ExtractPair(tt.query)
			require.Equal(t, tt.expectOK, ok)
			if !tt.expectOK {
				return
			}
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.quote, quote)
			assert.Equal(t, tt.amount, amount)
		})
	}
}

// ==========================
// 2. Provider Stubs
// ==========================

type stubRates struct {
	rate    float64
	err     error
	symbols []string
}

func (s *stubRates) PrevDayClose(_ context.Context, symbol string) (float64, error) {
	s.symbols = append(s.symbols, symbol)
	if s.err != nil {
		return 0, s.err
	}
	return s.rate, nil
}

type stubSnapshots struct {
	summary *yahoo.Summary
	err     error
	calls   int
}

func (s *stubSnapshots) QuoteSummary(_ context.Context, _ string) (*yahoo.Summary, error) {
	s.calls++
	return s.summary, s.err
}

// ==========================
// 3. Resolve Tests
// ==========================

func TestResolver_Resolve_RateOnly(t *testing.T) {
	rates := &stubRates{rate: 83.214567}
	snapshots := &stubSnapshots{}

	r := NewResolver(rates, snapshots, logger.NewTestLogger(t))
	answer := r.Resolve(context.Background(), "USD/INR")

	assert.Contains(t, answer, "Forex USD/INR — Rate: 1 USD = 83.214567 INR.")
	assert.Contains(t, answer, "Economic Insight: Monitor central bank policies")
	assert.Contains(t, answer, "Wisdom: Forex like USD/INR thrives on global events")
	assert.Equal(t, []string{"USDINR=X"}, rates.symbols)
	assert.Zero(t, snapshots.calls)
}

func TestResolver_Resolve_Conversion(t *testing.T) {
	rates := &stubRates{rate: 0.92}
	snapshots := &stubSnapshots{}

	r := NewResolver(rates, snapshots, logger.NewNoOpLogger())
	answer := r.Resolve(context.Background(), "convert 100 USD to EUR")

	assert.Contains(t, answer, "Forex USD/EUR — 100.0 USD = 92.0000 EUR (rate: 1 USD = 0.920000 EUR)")
	assert.Contains(t, answer, "Economic Insight")
}

func TestResolver_Resolve_FractionalAmountKeepsItsDigits(t *testing.T) {
	rates := &stubRates{rate: 2}
	snapshots := &stubSnapshots{}

	r := NewResolver(rates, snapshots, logger.NewNoOpLogger())
	answer := r.Resolve(context.Background(), "convert 1,500.50 EUR to USD")

	assert.Contains(t, answer, "1500.5 EUR = 3,001.0000 USD")
}

func TestResolver_Resolve_ConversionGroupsThousands(t *testing.T) {
	rates := &stubRates{rate: 83.5}
	snapshots := &stubSnapshots{}

	r := NewResolver(rates, snapshots, logger.NewNoOpLogger())
	answer := r.Resolve(context.Background(), "convert 100 USD to INR")

	assert.Contains(t, answer, "100.0 USD = 8,350.0000 INR")
}

func TestResolver_Resolve_SnapshotFallback(t *testing.T) {
	rates := &stubRates{err: errors.New("polygon down")}
	snapshots := &stubSnapshots{summary: &yahoo.Summary{RegularMarketPrice: 1.0845}}

	r := NewResolver(rates, snapshots, logger.NewTestLogger(t))
	answer := r.Resolve(context.Background(), "EUR/USD")

	assert.Contains(t, answer, "Forex EUR/USD — Rate: 1 EUR = 1.084500 USD.")
	assert.Equal(t, 1, snapshots.calls)
}

func TestResolver_Resolve_FallbackUsesPreviousClose(t *testing.T) {
	rates := &stubRates{err: errors.New("polygon down")}
	snapshots := &stubSnapshots{summary: &yahoo.Summary{PreviousClose: 148.12}}

	r := NewResolver(rates, snapshots, logger.NewNoOpLogger())
	answer := r.Resolve(context.Background(), "USD/JPY")

	assert.Contains(t, answer, "Rate: 1 USD = 148.120000 JPY.")
}

func TestResolver_Resolve_FallbackNoRate(t *testing.T) {
	rates := &stubRates{err: errors.New("polygon down")}
	snapshots := &stubSnapshots{summary: &yahoo.Summary{}}

	r := NewResolver(rates, snapshots, logger.NewNoOpLogger())
	answer := r.Resolve(context.Background(), "ABC/XYZ")

	assert.Equal(t, "Could not fetch rate for ABC/XYZ.", answer)
}

func TestResolver_Resolve_BothTiersFail(t *testing.T) {
	rates := &stubRates{err: errors.New("polygon down")}
	snapshots := &stubSnapshots{err: errors.New("quote down")}

	r := NewResolver(rates, snapshots, logger.NewNoOpLogger())
	answer := r.Resolve(context.Background(), "EUR/USD")

	assert.Equal(t, "Error fetching forex rate: quote down", answer)
}

func TestResolver_Resolve_NoPairGuidance(t *testing.T) {
	r := NewResolver(&stubRates{}, &stubSnapshots{}, logger.NewNoOpLogger())
	answer := r.Resolve(context.Background(), "tell me about currencies")

	assert.Equal(t, "Please specify a currency pair like 'USD/INR' or 'Convert 100 USD to EUR'. Tip: Forex rates fluctuate based on economic indicators like interest rates and inflation.", answer)
}
