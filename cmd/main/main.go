package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"metalshop/internal/anaf"
	bomStore "metalshop/internal/bom/store"
	cartSvc "metalshop/internal/cart/service"
	catRepo "metalshop/internal/catalog/repository"
	"metalshop/internal/config"
	rfqRepo "metalshop/internal/rfq/repository"
	rfqSvc "metalshop/internal/rfq/service"
	"metalshop/internal/storage"
	serverhttp "metalshop/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	ctx := context.Background()
	db, err := storage.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()

	catalog := catRepo.New(db)
	seedCatalog(ctx, cfg, catalog, logger)

	estimator := cartSvc.NewEstimator(cfg.VATRate, cfg.Currency)
	anafClient := anaf.NewClient(cfg.AnafURL, cfg.AnafTimeout)

	r := serverhttp.NewRouter(cfg, logger, serverhttp.Deps{
		DB:        db,
		Catalog:   catalog,
		Uploads:   bomStore.New(db),
		Estimator: estimator,
		RFQ:       rfqSvc.NewService(rfqRepo.New(db), catalog, estimator, logger),
		Anaf:      anaf.NewService(anafClient, cfg.AnafCacheSize, cfg.AnafCacheTTL, logger),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info().Str("addr", cfg.Addr()).Str("db", cfg.DBPath).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	logger.Info().Msg("bye")
}

// seedCatalog imports CATALOG_SEED into an empty catalog.
func seedCatalog(ctx context.Context, cfg config.Config, repo *catRepo.Repository, logger zerolog.Logger) {
	if cfg.CatalogSeed == "" {
		return
	}
	n, err := repo.Count(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("catalog count")
		return
	}
	if n > 0 {
		logger.Info().Int("products", n).Msg("catalog already loaded, seed skipped")
		return
	}

	f, err := os.Open(cfg.CatalogSeed)
	if err != nil {
		logger.Error().Err(err).Str("file", cfg.CatalogSeed).Msg("open catalog seed")
		return
	}
	defer f.Close()

	res, err := repo.ImportFile(ctx, f, cfg.CatalogSeed)
	if err != nil {
		logger.Error().Err(err).Str("file", cfg.CatalogSeed).Msg("import catalog seed")
		return
	}
	ev := logger.Info()
	if len(res.Errors) > 0 {
		ev = logger.Warn().Strs("errors", res.Errors)
	}
	ev.Int("imported", res.Imported).Int("skipped", res.Skipped).Msg("catalog seeded")
}
