package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"go-invoice-api/internal/ai"
	"go-invoice-api/internal/auth"
	"go-invoice-api/internal/config"
	"go-invoice-api/internal/database"
	"go-invoice-api/internal/exchange"
	"go-invoice-api/internal/handlers"
	"go-invoice-api/internal/logger"
	"go-invoice-api/internal/services"
	"go-invoice-api/internal/storage"
)

func main() {
	cfg := config.Load()

	appLog, err := logger.New(cfg.LogMode)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Infrastructure
	db, err := database.Connect(cfg, appLog)
	if err != nil {
		appLog.Fatal("database connection failed", "error", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		appLog.Fatal("database handle", "error", err)
	}
	defer sqlDB.Close()

	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		appLog.Fatal("upload directory", "dir", cfg.UploadDir, "error", err)
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret, auth.SessionTTL)
	if err != nil {
		appLog.Fatal("JWT_SECRET must be set", "error", err)
	}

	rates := exchange.NewProvider(cfg.ExchangeRateURL, cfg.ExchangeRateTimeout, cfg.ExchangeRateFallback, appLog)

	// 2. Services
	users := services.NewUserService(db, store, appLog)
	companies := services.NewCompanyService(db, store, appLog)
	invoices := services.NewInvoiceService(db, rates, appLog)

	// 3. Optional assistant
	var asker handlers.Asker
	if cfg.GeminiAPIKey != "" {
		agent, err := ai.NewAgent(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, invoices, appLog)
		if err != nil {
			appLog.Warn("assistant disabled", "error", err)
		} else {
			defer agent.Close()
			asker = agent
		}
	} else {
		appLog.Info("assistant disabled, GEMINI_API_KEY not set")
	}

	// 4. HTTP
	router := handlers.NewRouter(handlers.Router{
		Users:       handlers.NewUserHandler(users, tokens, cfg.CookieSecure, appLog),
		Companies:   handlers.NewCompanyHandler(companies, appLog),
		Invoices:    handlers.NewInvoiceHandler(invoices, appLog),
		Assistant:   handlers.NewAssistantHandler(asker, appLog),
		Auth:        tokens,
		DB:          sqlDB,
		UploadDir:   store.Root(),
		CORSOrigins: cfg.CORSOrigins,
		Log:         appLog,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("graceful shutdown failed", "error", err)
	}
}
