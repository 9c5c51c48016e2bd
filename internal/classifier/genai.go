package classifier

import (
	"context"
	"fmt"
	"strings"

	commonerrors "investment-assistant/internal/common/errors"
	"investment-assistant/internal/common/logger"
)

const classifyPromptTemplate = "Classify the query into one of: stocks, crypto, forex. Respond with only the category.\nQuery: %s"

// Completer is the text-completion capability the delegated classifier
// depends on.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// GenAIClassifier delegates categorization to a text-completion model.
// A completion failure is a hard error: the caller decides whether the
// request dies or another strategy was configured in the first place.
type GenAIClassifier struct {
	completer Completer
	logger    logger.Logger
}

func NewGenAIClassifier(completer Completer, log logger.Logger) *GenAIClassifier {
	return &GenAIClassifier{completer: completer, logger: log}
}

func (c *GenAIClassifier) Classify(ctx context.Context, query string) (Category, error) {
	prompt := fmt.Sprintf(classifyPromptTemplate, query)

	completion, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		c.logger.WithError(err).Error("delegated classification failed", nil)
		return "", commonerrors.NewClassificationFailedError(err)
	}

	category := Category(strings.ToLower(strings.TrimSpace(completion)))
	if !category.Valid() {
		c.logger.Warn("unexpected completion output, defaulting to stocks", map[string]interface{}{
			"completion": completion,
		})
		category = CategoryStocks
	}

	c.logger.Debug("classified query by completion", map[string]interface{}{
		"category": string(category),
	})
	return category, nil
}
