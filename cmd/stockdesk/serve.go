package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/datsun80zx/stockdesk/internal/order"
	"github.com/datsun80zx/stockdesk/internal/server"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func handleServe(ctx context.Context, a *app) {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	imp, err := a.newImporter(ctx)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	var drafts order.DraftStore = order.NewMemoryDraftStore(a.cfg.Server.DraftTTL)
	if a.redis != nil {
		drafts = order.NewRedisDraftStore(a.redis, a.cfg.Server.DraftTTL)
	}

	// a nil *store.Store must not become a non-nil History
	var history server.History
	if a.history != nil {
		history = a.history
	}

	srv := &http.Server{
		Addr:              a.cfg.Server.Addr,
		Handler:           server.New(a.client, imp, drafts, history, a.log).Router(a.cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		a.log.Info("Console backend listening",
			zap.String("addr", srv.Addr),
			zap.Bool("redis", a.redis != nil),
			zap.Bool("history", a.history != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	a.log.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Shutdown error", zap.Error(err))
	}
	a.log.Info("Server shutdown complete")
}
