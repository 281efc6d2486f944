package main

import (
	"context"
	"course-store/internal/client"
	"course-store/internal/config"
	"course-store/internal/handler"
	"course-store/internal/repository"
	"course-store/internal/server"
	"course-store/internal/service"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	db := client.InitDBClient(cfg.DatabaseURL)
	mpClient := client.NewMercadoPagoClient(&cfg.MercadoPago)

	cartRepo := repository.NewCartRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	entitlementRepo := repository.NewEntitlementRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	userRepo := repository.NewUserRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	sessions := service.NewSessionCoordinator(authService)
	cartService := service.NewCartService(cartRepo, courseRepo)
	checkoutService := service.NewCheckoutService(
		mpClient, cfg.BaseURL, cfg.Checkout.Currency,
		cartRepo,
		courseRepo,
	)
	entitlementService := service.NewEntitlementService(entitlementRepo, courseRepo)
	webhookService := service.NewWebhookService(
		mpClient,
		entitlementService,
		webhookEventRepo,
		cartRepo,
		userRepo,
	)

	authHandler := handler.NewAuthHandler(authService, sessions)
	cartHandler := handler.NewCartHandler(cartService, cfg.Checkout.Currency)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	webhookHandler := handler.NewWebhookHandler(webhookService)
	courseHandler := handler.NewCourseHandler(courseRepo, entitlementService)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(
		sessions,
		authHandler,
		cartHandler,
		checkoutHandler,
		webhookHandler,
		courseHandler,
	)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
