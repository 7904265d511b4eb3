package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/kevindufraisse/linkhub/internal/ai"
	"github.com/kevindufraisse/linkhub/internal/config"
	"github.com/kevindufraisse/linkhub/internal/database"
	"github.com/kevindufraisse/linkhub/internal/server"
)

func main() {
	cfg := config.Get()

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "path", cfg.DatabasePath, "err", err)
		os.Exit(1)
	}
	defer db.Close()

	aiClient := ai.New(cfg.OpenAIBaseURL, cfg.OpenAIKey, cfg.OpenAIModel, cfg.AITimeout)
	if !aiClient.Enabled() {
		slog.Warn("no OpenAI key configured, comment generation disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(db, aiClient)
	go func() {
		if err := srv.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to run http server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	if err := srv.Stop(); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}
