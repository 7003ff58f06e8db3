package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ecotrack/internal/config"
	"ecotrack/internal/db"
	apihttp "ecotrack/internal/http"
	"ecotrack/internal/repository"
	"ecotrack/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		logger.Fatal("db ping", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		logger.Fatal("create storage dir", zap.Error(err))
	}

	userRepo := repository.NewPgUserRepository(pool)
	tokenSvc := service.NewTokenService(cfg.JWTSecret)
	userSvc := service.NewUserService(logger, userRepo, cfg.BcryptCost)

	userHandler := apihttp.NewUserHandler(logger, userSvc, tokenSvc, cfg.Debug)
	activityHandler := apihttp.NewActivityHandler(logger)
	contentHandler := apihttp.NewContentHandler(logger, cfg.StorageDir, cfg.Debug)

	router := apihttp.NewRouter(logger, apihttp.RouterOptions{
		FrontendURL: cfg.FrontendURL,
		StaticDir:   cfg.StaticDir,
		StorageDir:  cfg.StorageDir,
	}, apihttp.AuthMiddleware(tokenSvc, userRepo), userHandler, activityHandler, contentHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
