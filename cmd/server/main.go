package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/staynest/listings-api/internal/business/listing"
	"github.com/staynest/listings-api/internal/business/submission"
	"github.com/staynest/listings-api/internal/platform/cache"
	"github.com/staynest/listings-api/internal/platform/config"
	firestoreclient "github.com/staynest/listings-api/internal/platform/firestore"
	apirouter "github.com/staynest/listings-api/internal/platform/http"
	"github.com/staynest/listings-api/internal/platform/logging"
	"github.com/staynest/listings-api/internal/repository"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New("info", false)
		bootLogger.Fatal().Err(err).Msg("config load")
	}
	logger := logging.New(cfg.LogLevel, cfg.LogPretty)

	gin.SetMode(cfg.GinMode)

	firestoreClient, err := firestoreclient.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("firestore init")
	}
	defer firestoreClient.Close()

	store := repository.NewDocumentStore(firestoreClient)

	var accounts listing.AccountCache
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis init")
		}
		defer rdb.Close()
		accounts = cache.NewAccountCache(rdb, cfg.AccountCacheTTL)
		logger.Info().Dur("ttl", cfg.AccountCacheTTL).Msg("account cache enabled")
	}

	listings := listing.NewService(store, accounts, listing.Config{
		FetchTimeout: cfg.FetchTimeout,
		FanOutLimit:  cfg.FanOutLimit,
		ReadAttempts: cfg.ReadAttempts,
	}, logger)
	submissions := submission.NewService(store, logger)

	router := apirouter.NewRouter(listings, submissions, listing.Site{
		BaseURL: cfg.SiteURL,
		Name:    cfg.SiteName,
	}, cfg.AllowedOrigins, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()
	logger.Info().Str("port", cfg.Port).Msg("server listening")

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
	logger.Info().Msg("server exited")
}
