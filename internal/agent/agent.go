// Package agent orchestrates a query: classify, dispatch to the domain
// resolver, and return the answer text. Classification is the only stage
// allowed to fail the request; resolver trouble always renders as text.
package agent

import (
	"context"
	"time"

	"investment-assistant/internal/classifier"
	"investment-assistant/internal/common/cache"
	"investment-assistant/internal/common/logger"
	"investment-assistant/internal/common/metrics"
	"investment-assistant/internal/common/observability"
)

const unknownCategoryMessage = "Could not classify query. Try specifying stocks, crypto, or forex."

// Resolver answers a query for one domain. Implementations never return
// an error: failures become user-facing message strings.
type Resolver interface {
	Resolve(ctx context.Context, query string) string
}

// Agent routes queries to resolvers by category.
type Agent struct {
	classifier classifier.Classifier
	resolvers  map[classifier.Category]Resolver
	answers    *cache.Cache
	obs        *observability.Observability
	logger     logger.Logger
}

func New(
	c classifier.Classifier,
	resolvers map[classifier.Category]Resolver,
	answers *cache.Cache,
	obs *observability.Observability,
	log logger.Logger,
) *Agent {
	return &Agent{
		classifier: c,
		resolvers:  resolvers,
		answers:    answers,
		obs:        obs,
		logger:     log,
	}
}

// Process answers one query. The returned error is non-nil only when the
// configured classifier fails; everything downstream of classification is
// rendered into the answer string.
func (a *Agent) Process(ctx context.Context, query string) (string, error) {
	start := time.Now()

	if answer, ok := a.answers.Get(ctx, query); ok {
		a.logger.Debug("answer served from cache", nil)
		return answer, nil
	}

	category, err := a.classifier.Classify(ctx, query)
	if err != nil {
		a.obs.RecordQueryProcessed(ctx, "classification_failed")
		return "", err
	}

	resolver, ok := a.resolvers[category]
	if !ok {
		a.logger.Warn("no resolver for category", map[string]interface{}{
			"category": string(category),
		})
		metrics.QueriesProcessed.WithLabelValues("unknown").Inc()
		a.obs.RecordQueryProcessed(ctx, "unknown_category")
		return unknownCategoryMessage, nil
	}

	answer := resolver.Resolve(ctx, query)

	elapsed := time.Since(start)
	metrics.QueriesProcessed.WithLabelValues(string(category)).Inc()
	metrics.QueryDuration.WithLabelValues(string(category)).Observe(elapsed.Seconds())
	a.obs.RecordQueryProcessed(ctx, "ok")
	a.obs.RecordQueryDuration(ctx, elapsed, "ok")

	a.answers.Set(ctx, query, answer)

	a.logger.Info("query processed", map[string]interface{}{
		"category":    string(category),
		"duration_ms": elapsed.Milliseconds(),
	})
	return answer, nil
}
