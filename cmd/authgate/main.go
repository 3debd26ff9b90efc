package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/rmelnikov/authgate/internal/auth/http"
	"github.com/rmelnikov/authgate/internal/auth/repository"
	"github.com/rmelnikov/authgate/internal/auth/service"
	"github.com/rmelnikov/authgate/internal/common/clock"
	"github.com/rmelnikov/authgate/internal/common/config"
	"github.com/rmelnikov/authgate/internal/common/crypto"
	"github.com/rmelnikov/authgate/internal/common/db"
	commonhttp "github.com/rmelnikov/authgate/internal/common/http"
	"github.com/rmelnikov/authgate/internal/common/logger"
	"github.com/rmelnikov/authgate/internal/common/server"
	"github.com/rmelnikov/authgate/internal/migrations"
	"github.com/rmelnikov/authgate/internal/token"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "authgate", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := migrations.Run(context.Background(), cfg.DatabaseURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	authService := service.NewAuthService(service.Deps{
		Repo:        repository.NewPgRepository(pool),
		Hasher:      crypto.NewBcryptHasher(cfg.BcryptCost),
		Tokens:      token.NewService(cfg.JWTSecret, cfg.TokenTTL),
		IDGenerator: crypto.NewUUIDGenerator(),
		Clock:       clock.NewRealClock(),
		Log:         log,
	})

	handler := authhttp.NewHandler(authService, cfg.RequestTimeout, cfg.StaticDir, log)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	srv := server.New(cfg.HTTPPort, commonhttp.BuildBaseHandler(log, mux))
	server.StartWithGracefulShutdown(srv, log)
}
