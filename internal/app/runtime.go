package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/threadcart/supportbot/internal/chat"
	"github.com/threadcart/supportbot/internal/config"
	"github.com/threadcart/supportbot/internal/extract"
	"github.com/threadcart/supportbot/internal/httpapi"
	"github.com/threadcart/supportbot/internal/llm/openai"
	"github.com/threadcart/supportbot/internal/respond"
	"github.com/threadcart/supportbot/internal/store"
	"github.com/threadcart/supportbot/internal/sweeper"
)

type Runtime struct {
	cfg        config.Config
	logger     *slog.Logger
	store      *store.Store
	httpServer *http.Server
	sweeper    *sweeper.Service
}

func New(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	sqlStore, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	if err := sqlStore.AutoMigrate(context.Background()); err != nil {
		sqlStore.Close()
		return nil, err
	}

	llmClient := openai.New(openai.Config{
		APIKey:  cfg.LLMAPIKey,
		BaseURL: cfg.LLMBaseURL,
		Model:   cfg.LLMModel,
		Timeout: time.Duration(cfg.LLMTimeoutSec) * time.Second,
	}, logger.With("component", "llm"))

	extractor := extract.New(cfg.CategoryKeywords, cfg.BrandKeywords)
	responder := respond.New(llmClient, sqlStore, extractor, respond.Config{
		SystemPrompt:      cfg.SystemPrompt,
		SearchLimit:       cfg.SearchLimit,
		TopLimit:          cfg.TopLimit,
		ContextRows:       cfg.ContextRows,
		HistoryTurns:      cfg.HistoryTurns,
		ClassifyMaxTokens: cfg.ClassifyMaxTokens,
		ReplyMaxTokens:    cfg.ReplyMaxTokens,
	}, logger.With("component", "responder"))

	chatService := chat.New(sqlStore, responder, chat.Config{
		DefaultUserID: cfg.DefaultUserID,
	}, logger.With("component", "chat"))

	handler := httpapi.NewRouter(httpapi.Dependencies{
		Config: cfg,
		Store:  sqlStore,
		Chat:   chatService,
		Logger: logger.With("component", "httpapi"),
	})

	runtime := &Runtime{
		cfg:    cfg,
		logger: logger,
		store:  sqlStore,
		httpServer: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}

	if cfg.SweepEnabled {
		sweepService, err := sweeper.New(sqlStore, sweeper.Config{
			Schedule:  cfg.SweepSchedule,
			Retention: time.Duration(cfg.SessionRetentionDays) * 24 * time.Hour,
		}, logger.With("component", "sweeper"))
		if err != nil {
			sqlStore.Close()
			return nil, err
		}
		runtime.sweeper = sweepService
	}

	return runtime, nil
}
