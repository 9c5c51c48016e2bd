// cmd/assistant/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"investment-assistant/internal/agent"
	"investment-assistant/internal/classifier"
	"investment-assistant/internal/common/cache"
	"investment-assistant/internal/common/config"
	"investment-assistant/internal/common/logger"
	"investment-assistant/internal/common/observability"
	"investment-assistant/internal/providers/coingecko"
	"investment-assistant/internal/providers/genai"
	"investment-assistant/internal/providers/polygon"
	"investment-assistant/internal/providers/yahoo"
	"investment-assistant/internal/resolvers/crypto"
	"investment-assistant/internal/resolvers/forex"
	"investment-assistant/internal/resolvers/stocks"
	"investment-assistant/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New("info", "console")
		fallback.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting investment assistant...",
		zap.String("environment", cfg.App.Environment),
		zap.Int("port", cfg.Server.Port),
	)

	obs := observability.New("investment-assistant")
	defer obs.Shutdown()

	// --- Providers ---
	polygonClient := polygon.NewClient(cfg.Providers.Polygon, log)
	yahooClient := yahoo.NewClient(cfg.Providers.Yahoo, log)
	coingeckoClient := coingecko.NewClient(cfg.Providers.CoinGecko, log)

	// --- Classifier strategy ---
	var queryClassifier classifier.Classifier
	if cfg.GenAI.APIKey != "" {
		queryClassifier = classifier.NewGenAIClassifier(genai.NewClient(cfg.GenAI, log), log)
		zapLog.Info("Using delegated intent classifier", zap.String("model", cfg.GenAI.Model))
	} else {
		queryClassifier = classifier.NewKeywordClassifier(log)
		zapLog.Info("Using keyword intent classifier")
	}

	// --- Answer cache (optional) ---
	answers := cache.New(cfg.Cache, log)
	if answers != nil {
		if err := answers.Ping(context.Background()); err != nil {
			zapLog.Warn("Answer cache unreachable, continuing without it", zap.Error(err))
		}
		defer answers.Close()
	}

	// --- Resolvers ---
	resolvers := map[classifier.Category]agent.Resolver{
		classifier.CategoryStocks: stocks.NewResolver(polygonClient, yahooClient, log),
		classifier.CategoryCrypto: crypto.NewResolver(coingeckoClient, log),
		classifier.CategoryForex:  forex.NewResolver(polygonClient, yahooClient, log),
	}

	queryAgent := agent.New(queryClassifier, resolvers, answers, obs, log)
	srv := server.New(queryAgent, cfg.Server.Port, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		zapLog.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			zapLog.Error("Server failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("Graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("Investment assistant stopped")
}
