package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/contest"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/image"
	"server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	sqlRunner := infra.NewSQLRunner(dbpool, logger)
	users := repo.NewUserRepository(sqlRunner)
	submissions := repo.NewSubmissionRepository(sqlRunner)
	audit := repo.NewAuditRepository(sqlRunner)

	// GeoIP is optional; without a database, login audit events simply carry
	// no country.
	var countryLookup middleware.CountryLookup
	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable")
	} else if resolver != nil {
		defer resolver.Close()
		countryLookup = resolver.CountryCode
	}

	var store *storage.FileStore
	if cfg.StoragePath != "" {
		store, err = storage.NewFileStore(cfg.StoragePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to prepare file store")
		}
	}

	hf := image.NewHFClient(image.HFOptions{
		APIURL:         cfg.HuggingFaceAPIURL,
		APIKey:         cfg.HuggingFaceAPIKey,
		Logger:         &logger,
		Store:          store,
		StorageBaseURL: cfg.StorageBaseURL,
	})
	if !hf.HasCredentials() {
		logger.Warn().Msg("no image API credentials, all images will be placeholders")
	}
	generator := image.NewFallbackGenerator(hf, image.NewPlaceholder(), &logger)

	svc := contest.NewService(contest.Options{
		Users:           users,
		Submissions:     submissions,
		Generator:       generator,
		MaxPromptLength: cfg.MaxPromptLength,
		ScoreboardLimit: cfg.ScoreboardLimit,
		Logger:          &logger,
	})

	app := &handlers.App{
		Contest:     svc,
		Users:       users,
		Submissions: submissions,
		Audit:       audit,
		Store:       store,
		Logger:      logger,
		Config:      *cfg,
	}

	router := httpapi.NewRouter(app, countryLookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
