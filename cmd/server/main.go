// Package main is the entry point for the Catalisa API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"catalisa/internal/domain/auth"
	"catalisa/internal/domain/dashboard"
	"catalisa/internal/domain/message"
	"catalisa/internal/domain/order"
	"catalisa/internal/domain/partnerlevel"
	"catalisa/internal/domain/product"
	"catalisa/internal/domain/promo"
	"catalisa/internal/domain/settings"
	"catalisa/internal/domain/user"
	v1 "catalisa/internal/infrastructure/http/v1"
	"catalisa/internal/infrastructure/storage/postgres"
	"catalisa/internal/infrastructure/storage/postgres/platform_repo"
	"catalisa/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting catalisa server")

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(mustEnv("DATABASE_URL")))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	audit, err := postgres.NewAuditService(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit service", "error", err)
	}

	// --- Repositories ---
	levelRepo := platform_repo.NewPartnerLevelRepo(txManager)
	userRepo := platform_repo.NewUserRepo(txManager)
	settingsRepo := platform_repo.NewSettingsRepo(txManager)
	productRepo := platform_repo.NewProductRepo(txManager)
	orderRepo := platform_repo.NewOrderRepo(txManager)
	messageRepo := platform_repo.NewMessageRepo(txManager)
	promoRepo := platform_repo.NewPromoRepo(txManager)

	// --- Services ---
	levelService := partnerlevel.NewService(levelRepo, txManager)
	userService := user.NewService(userRepo, levelService, txManager)
	settingsService := settings.NewService(settingsRepo, txManager, audit)
	productService := product.NewService(productRepo, settingsService, txManager, audit)
	messageService := message.NewService(messageRepo)
	orderService := order.NewService(orderRepo, productService, userService, messageService, txManager)
	promoService := promo.NewService(promoRepo)
	dashboardService := dashboard.NewService(productRepo, orderRepo, userRepo, messageRepo)

	// --- JWT ---
	tokenService := auth.NewTokenService(
		mustEnv("JWT_SECRET"),
		getEnvDuration("JWT_TTL", 24*time.Hour),
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:      pool,
		Logger:    log,
		Tokens:    tokenService,
		Users:     userService,
		Levels:    levelService,
		Settings:  settingsService,
		Products:  productService,
		Orders:    orderService,
		Messages:  messageService,
		Promos:    promoService,
		Dashboard: dashboardService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
