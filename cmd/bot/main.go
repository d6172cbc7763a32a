package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"go-smartapply-bot/internal/ai"
	"go-smartapply-bot/internal/bot"
	"go-smartapply-bot/internal/config"
	"go-smartapply-bot/internal/extractor"
	"go-smartapply-bot/internal/jobs"
	"go-smartapply-bot/internal/logger"
	"go-smartapply-bot/internal/store"
	"go-smartapply-bot/internal/telegram"
)

func main() {
	//load config; missing secrets are fatal
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.LogJSON, cfg.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to init logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	suggester, err := ai.NewGeminiSuggester(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, zl)
	if err != nil {
		zl.Fatal("failed to init gemini client", zap.Error(err))
	}

	tg, err := telegram.NewBot(cfg.TelegramToken, zl)
	if err != nil {
		zl.Fatal("failed to init telegram bot", zap.Error(err))
	}

	if err := tg.SetCommands(); err != nil {
		zl.Warn("failed to register bot commands", zap.Error(err))
	}

	orch := bot.New(bot.Deps{
		Store:     store.NewMemory(),
		Parser:    extractor.New(),
		Suggester: suggester,
		Searcher:  jobs.NewClient(cfg.RapidAPIKey, zl),
		Transport: tg,
		Logger:    zl,
		TempDir:   cfg.TempDir,
	})

	zl.Info("🚀 Smart Apply Bot is running")

	//blocks until SIGINT/SIGTERM
	tg.Run(ctx, orch.HandleEvent)

	zl.Info("🏁 shutdown complete")
}
