package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/quickstay/backend-hotel/internal/gateway"
	"github.com/quickstay/backend-hotel/internal/handler"
	"github.com/quickstay/backend-hotel/internal/repository"
	"github.com/quickstay/backend-hotel/internal/service"
	"github.com/quickstay/backend-hotel/pkg/config"
	"github.com/quickstay/backend-hotel/pkg/database"
	"github.com/quickstay/backend-hotel/pkg/kafka"
	"github.com/quickstay/backend-hotel/pkg/logger"
	"github.com/quickstay/backend-hotel/pkg/middleware"
	pkgredis "github.com/quickstay/backend-hotel/pkg/redis"
	"github.com/quickstay/backend-hotel/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.App.Environment,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Hotel Booking Service...")

	ctx := context.Background()

	// Initialize tracing
	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		appLog.Warn(fmt.Sprintf("Telemetry init failed, continuing without tracing: %v", err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = telemetry.Shutdown(shutdownCtx)
	}()

	// Initialize MongoDB
	mongoDB, err := database.NewMongo(ctx, &database.MongoConfig{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: cfg.Mongo.ConnectTimeout,
		MaxRetries:     3,
		RetryInterval:  2 * time.Second,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("MongoDB connection failed: %v", err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mongoDB.Close(closeCtx)
	}()
	appLog.Info("MongoDB connected")

	// Unique payment reference index and booking query indexes
	if err := mongoDB.EnsureIndexes(ctx); err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to ensure indexes: %v", err))
	}

	// Initialize Redis; webhook dedup and idempotency degrade gracefully
	// without it
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(ctx, &pkgredis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLog.Warn(fmt.Sprintf("Redis connection failed, continuing without it: %v", err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLog.Info("Redis connected")
	}

	// Initialize Kafka event publisher
	var eventPublisher service.EventPublisher = &service.NoOpEventPublisher{}
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(ctx, &kafka.ProducerConfig{
			Brokers:  cfg.Kafka.Brokers,
			ClientID: cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("Kafka connection failed, using no-op publisher: %v", err))
		} else {
			defer producer.Close()
			eventPublisher = service.NewKafkaEventPublisher(producer, cfg.Kafka.Topic)
			appLog.Info("Kafka event publisher connected")
		}
	}

	// Payment gateway
	paystack := gateway.NewPaystackGateway(&gateway.PaystackConfig{
		BaseURL:        cfg.Paystack.BaseURL,
		SecretKey:      cfg.Paystack.SecretKey,
		RequestTimeout: cfg.Paystack.RequestTimeout,
	})

	// Repositories and services
	bookingRepo := repository.NewMongoBookingRepository(mongoDB.Database())
	roomRepo := repository.NewMongoRoomRepository(mongoDB.Database())

	bookingService := service.NewBookingService(bookingRepo, roomRepo, paystack, eventPublisher, &service.BookingServiceConfig{
		DefaultCurrency: cfg.Paystack.DefaultCurrency,
		CallbackBaseURL: cfg.Paystack.CallbackBaseURL,
	})
	roomService := service.NewRoomService(roomRepo)

	// Handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	roomHandler := handler.NewRoomHandler(roomService)
	healthHandler := handler.NewHealthHandler(mongoDB, redisClient)

	var dedupRedis *redis.Client
	if redisClient != nil {
		dedupRedis = redisClient.Client()
	}
	webhookHandler := handler.NewWebhookHandler(bookingService, dedupRedis, cfg.Paystack.WebhookSecret)

	// Router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(telemetry.TracingMiddleware())

	router.GET("/health", healthHandler.Health)

	// Webhook endpoint authenticates by signature, not by bearer token
	router.POST("/api/bookings/paystack-webhook", webhookHandler.HandlePaystackWebhook)

	api := router.Group("/api")

	rooms := api.Group("/rooms")
	{
		rooms.GET("", roomHandler.GetAllRooms)
		rooms.GET("/:id", roomHandler.GetRoom)

		adminRooms := rooms.Group("", middleware.Auth(cfg.JWT.Secret), middleware.RequireAdmin())
		adminRooms.POST("", roomHandler.CreateRoom)
		adminRooms.POST("/toggle-availability", roomHandler.ToggleAvailability)
		adminRooms.DELETE("/:id", roomHandler.DeleteRoom)
	}

	bookings := api.Group("/bookings")
	{
		bookings.POST("/check-availability", bookingHandler.CheckAvailability)

		authed := bookings.Group("", middleware.Auth(cfg.JWT.Secret))
		if redisClient != nil {
			authed.Use(middleware.Idempotency(redisClient.Client()))
		}
		authed.POST("", bookingHandler.CreateBooking)
		authed.POST("/verify-payment", bookingHandler.VerifyPayment)
		authed.POST("/paystack-payment", bookingHandler.PaystackPayment)
		authed.GET("/user", bookingHandler.GetUserBookings)
		authed.GET("/:id", bookingHandler.GetBooking)

		admin := authed.Group("", middleware.RequireAdmin())
		admin.GET("", bookingHandler.GetAllBookings)
		admin.PUT("/:id/status", bookingHandler.UpdateStatus)
		admin.DELETE("/:id", bookingHandler.DeleteBooking)
	}

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLog.Info(fmt.Sprintf("Hotel Booking Service listening on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
