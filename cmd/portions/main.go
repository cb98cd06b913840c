package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapthttp "portions/internal/adapter/http"
	"portions/internal/adapter/memory"
	"portions/internal/adapter/oidcauth"
	"portions/internal/adapter/postgres"
	"portions/internal/adapter/sqlite"
	"portions/internal/app"
	"portions/internal/config"
	"portions/internal/domain"

	"github.com/joho/godotenv"
)

func main() {
	hashKey := flag.String("hash-key", "", "print the API_KEY_HASH value for the given key and exit")
	flag.Parse()

	if *hashKey != "" {
		h, err := app.HashAPIKey(*hashKey)
		if err != nil {
			log.Fatalf("hash key: %v", err)
		}
		fmt.Println(h)
		return
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	repo, closeRepo, err := openRepository(cfg)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer closeRepo()

	weights, err := domain.DefaultUnitWeights().With(cfg.UnitWeights)
	if err != nil {
		log.Fatalf("unit weights: %v", err)
	}
	converter := domain.NewQuantityConverter(domain.WithUnitWeights(weights), domain.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		verifier app.TokenVerifier
		sso      *oidcauth.Provider
	)
	if cfg.OIDC.Enabled() {
		sso, err = oidcauth.New(ctx, oidcauth.Config{
			IssuerURL:    cfg.OIDC.IssuerURL,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
		})
		if err != nil {
			log.Fatalf("oidc: %v", err)
		}
		verifier = sso
	}

	catalogSvc := app.NewCatalogService(repo)
	portionSvc := app.NewPortionService(catalogSvc, converter)
	authSvc := app.NewAuthService(cfg.APIKeyHash, verifier)
	if !authSvc.Enabled() {
		logger.Warn("authentication disabled: set API_KEY_HASH or OIDC_* to enable")
	}

	srv := adapthttp.New(catalogSvc, portionSvc, authSvc).WithLogger(logger)
	if sso != nil {
		srv = srv.WithSSO(sso)
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Addr, "storage", cfg.StorageKind(), "sso", sso != nil)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func openRepository(cfg *config.Config) (domain.FoodRepository, func(), error) {
	switch cfg.StorageKind() {
	case "postgres":
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	default:
		return memory.New(), func() {}, nil
	}
}
