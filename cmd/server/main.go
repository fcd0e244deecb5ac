// cmd/server/main.go
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/wangshuai-123/read-aloud/config"
	"github.com/wangshuai-123/read-aloud/internal/api"
	"github.com/wangshuai-123/read-aloud/internal/auth"
	"github.com/wangshuai-123/read-aloud/internal/logger"
	"github.com/wangshuai-123/read-aloud/internal/retry"
	"github.com/wangshuai-123/read-aloud/internal/token"
	"github.com/wangshuai-123/read-aloud/internal/tts"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.SetGlobalLevel(cfg.Log.Level)
	log := logger.New()

	secrets := auth.Resolve(cfg)
	if _, ok := secrets.Secret(); !ok {
		log.Warn("no shared secret configured, token auth is disabled")
	}

	synth, err := tts.New(cfg)
	if err != nil {
		log.WithError(err).Error("failed to create synthesizer")
		os.Exit(1)
	}
	log.Info("synthesizer ready: " + synth.Name())

	handler := api.NewHandler(
		synth,
		secrets,
		token.Freshness{Window: cfg.Token.Window, RejectFuture: cfg.Token.RejectFuture},
		retry.Policy{MaxAttempts: cfg.Retry.MaxAttempts, Delay: cfg.Retry.Delay},
	)

	r := mux.NewRouter()
	api.RegisterRoutes(r, handler)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info(fmt.Sprintf("read-aloud server listening on port %d", cfg.Server.Port))
	if err := server.ListenAndServe(); err != nil {
		log.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
