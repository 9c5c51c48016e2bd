package classifier

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "investment-assistant/internal/common/errors"
	"investment-assistant/internal/common/logger"
)

// ==========================
// 1. Keyword Strategy Tests
// ==========================

func TestKeywordClassifier_Classify(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Category
	}{
		{
			name:     "stock keyword",
			query:    "what is the stock doing today",
			expected: CategoryStocks,
		},
		{
			name:     "share keyword",
			query:    "should I buy more shares",
			expected: CategoryStocks,
		},
		{
			name:     "uppercase ticker token",
			query:    "how is AAPL doing",
			expected: CategoryStocks,
		},
		{
			name:     "crypto keyword",
			query:    "tell me about bitcoin today",
			expected: CategoryCrypto,
		},
		{
			name:     "eth keyword",
			query:    "is eth going up",
			expected: CategoryCrypto,
		},
		{
			name:     "forex keyword",
			query:    "what is the usd worth",
			expected: CategoryForex,
		},
		{
			name:     "convert keyword",
			query:    "convert dollars to rupees",
			expected: CategoryForex,
		},
		{
			name:     "no match defaults to stocks",
			query:    "bonds",
			expected: CategoryStocks,
		},
		{
			name:     "stock keyword wins over crypto keyword",
			query:    "crypto stock comparison",
			expected: CategoryStocks,
		},
		{
			name:     "ticker detection is case sensitive",
			query:    "eur rates please",
			expected: CategoryForex,
		},
	}

	c := NewKeywordClassifier(logger.NewNoOpLogger())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, err := c.Classify(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, category)
		})
	}
}

// ==========================
// 2. Delegated Strategy Tests
// ==========================

type stubCompleter struct {
	response string
	err      error
	prompts  []string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestGenAIClassifier_Classify(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected Category
	}{
		{
			name:     "clean category",
			response: "crypto",
			expected: CategoryCrypto,
		},
		{
			name:     "whitespace and case normalized",
			response: "  Forex \n",
			expected: CategoryForex,
		},
		{
			name:     "garbage output coerces to stocks",
			response: "I think commodities",
			expected: CategoryStocks,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &stubCompleter{response: tt.response}
			c := NewGenAIClassifier(completer, logger.NewTestLogger(t))

			category, err := c.Classify(context.Background(), "some query")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, category)
		})
	}
}

func TestGenAIClassifier_PromptContainsQuery(t *testing.T) {
	completer := &stubCompleter{response: "stocks"}
	c := NewGenAIClassifier(completer, logger.NewNoOpLogger())

	_, err := c.Classify(context.Background(), "price of AAPL")
	require.NoError(t, err)
	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "price of AAPL")
	assert.Contains(t, completer.prompts[0], "stocks, crypto, forex")
}

func TestGenAIClassifier_CompletionFailurePropagates(t *testing.T) {
	completer := &stubCompleter{err: errors.New("upstream down")}
	c := NewGenAIClassifier(completer, logger.NewNoOpLogger())

	category, err := c.Classify(context.Background(), "anything")
	require.Error(t, err)
	assert.Empty(t, string(category))

	var stdErr *commonerrors.StandardError
	require.ErrorAs(t, err, &stdErr)
	assert.Equal(t, commonerrors.ErrCodeClassificationFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "upstream down")
}
