package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mega4Real/ednascollectionnew/internal/auth"
	"github.com/Mega4Real/ednascollectionnew/internal/cache"
	"github.com/Mega4Real/ednascollectionnew/internal/email"
	shophttp "github.com/Mega4Real/ednascollectionnew/internal/http"
	"github.com/Mega4Real/ednascollectionnew/internal/notify"
	"github.com/Mega4Real/ednascollectionnew/internal/paystack"
	"github.com/Mega4Real/ednascollectionnew/internal/publisher"
	"github.com/Mega4Real/ednascollectionnew/internal/repository"
	"github.com/Mega4Real/ednascollectionnew/internal/service"
)

type Config struct {
	HTTPPort          string
	DBHost            string
	DBPort            int
	DBUser            string
	DBPassword        string
	DBName            string
	MigrationsDirPath string
	RedisAddr         string
	JWTSecret         string
	PaystackSecretKey string
	ResendAPIKey      string
	ReceiptFrom       string
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:          getEnv("PORT", "8080"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnvInt("DB_PORT", 5432),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "erdnas"),
		MigrationsDirPath: getEnv("MIGRATIONS_DIR", "./internal/repository/migrations"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		PaystackSecretKey: os.Getenv("PAYSTACK_SECRET_KEY"),
		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		ReceiptFrom:       getEnv("RECEIPT_FROM", "Erdnas Collections <orders@erdnascollections.com>"),
		RequestTimeout:    30 * time.Second,
		ShutdownTimeout:   10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set in environment")
	}
	if cfg.PaystackSecretKey == "" {
		log.Fatal("PAYSTACK_SECRET_KEY is not set in environment")
	}

	creds := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsDirPath,
	}
	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	hub := notify.NewHub()
	catalogService := service.NewCatalogService(repo, cache.NewRedisCache(redisClient), hub)
	orderService := service.NewOrderService(repo, repo, repo)
	discountService := service.NewDiscountService(repo)
	settingsService := service.NewSettingsService(repo)

	tokens := auth.NewManager(cfg.JWTSecret)
	authService := auth.NewService(repo, tokens)
	verifier := paystack.NewVerifier(cfg.PaystackSecretKey)

	sender := email.NewResendSender(cfg.ResendAPIKey, cfg.ReceiptFrom)
	poller := publisher.NewOutboxPoller(repo, repo, sender)

	pollerCtx, stopPoller := context.WithCancel(context.Background())
	defer stopPoller()
	go poller.Run(pollerCtx)

	router := shophttp.NewRouter(shophttp.RouterConfig{
		Products:       shophttp.NewProductHandler(catalogService),
		Orders:         shophttp.NewOrderHandler(orderService, verifier),
		Discounts:      shophttp.NewDiscountHandler(discountService),
		Settings:       shophttp.NewSettingsHandler(settingsService),
		Auth:           shophttp.NewAuthHandler(authService),
		Tokens:         tokens,
		RequestTimeout: cfg.RequestTimeout,
	})

	// No WriteTimeout: the SSE stream at /api/products/events stays open
	// indefinitely. Short-lived routes are bounded by the router's timeout
	// middleware instead.
	srv := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     router,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	stopPoller()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
