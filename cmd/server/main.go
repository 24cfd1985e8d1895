package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joelyk/maison-du-parfum/config"
	"github.com/joelyk/maison-du-parfum/internal/app/controller"
	"github.com/joelyk/maison-du-parfum/internal/app/repository"
	"github.com/joelyk/maison-du-parfum/internal/app/service"
	"github.com/joelyk/maison-du-parfum/internal/db"
	"github.com/joelyk/maison-du-parfum/internal/events"
	"github.com/joelyk/maison-du-parfum/internal/middleware"
	"github.com/joelyk/maison-du-parfum/internal/router"
	"github.com/joelyk/maison-du-parfum/internal/scheduler"
	"github.com/joelyk/maison-du-parfum/internal/session"
	"github.com/joelyk/maison-du-parfum/internal/storage"
	ws "github.com/joelyk/maison-du-parfum/internal/websocket"
	"github.com/joelyk/maison-du-parfum/pkg/logger"
	pkgredis "github.com/joelyk/maison-du-parfum/pkg/redis"
	"github.com/joelyk/maison-du-parfum/pkg/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       cfg.LogLevel(),
		Format:      cfg.Log.Format,
		EnableColor: cfg.Server.Environment == "development",
	})

	logger.Info("Starting Maison du Parfum server", logger.Fields{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"db_driver":   cfg.Database.Driver,
		"store":       cfg.Session.Store,
		"storage":     cfg.Upload.Driver,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(cfg.Database.Seed); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Session and cart stores
	var (
		sessionStore session.Store
		cartRepo     repository.CartRepository
		sweeper      *scheduler.SweepScheduler
	)
	switch cfg.Session.Store {
	case "redis":
		client, err := pkgredis.Connect(context.Background(), &cfg.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer client.Close()
		sessionStore = session.NewRedisStore(client, cfg.Session.TTL)
		cartRepo = repository.NewRedisCartRepository(client, cfg.Session.TTL)
	default:
		memSessions := session.NewMemoryStore(cfg.Session.TTL)
		memCarts := repository.NewMemoryCartRepository(cfg.Session.TTL)
		sessionStore = memSessions
		cartRepo = memCarts
		sweeper = scheduler.NewSweepScheduler(scheduler.DefaultSweepSpec, map[string]scheduler.Sweeper{
			"sessions": memSessions,
			"carts":    memCarts,
		})
		if err := sweeper.Start(); err != nil {
			logger.Fatal("Failed to start session sweeper", err)
		}
	}

	// Uploaded files
	var files storage.FileStorage
	switch cfg.Upload.Driver {
	case "s3":
		files = storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL)
	default:
		files = storage.NewLocalStorage(cfg.Upload.Dir)
	}

	// Order events
	hub := ws.NewHub()
	stopHub := make(chan struct{})
	go hub.Run(stopHub)
	publishers := events.Multi{hub}
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		if err != nil {
			logger.Fatal("Failed to create Kafka publisher", err)
		}
		defer kafka.Close()
		publishers = append(publishers, kafka)
	}

	hasher := util.NewPasswordHasher(cfg.Security.BcryptCost)

	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())

	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(cartRepo, orderRepo, productRepo, publishers)
	catalogService := service.NewCatalogService(productRepo, reviewRepo)
	authService := service.NewAuthService(userRepo, hasher, files, cfg.Upload.AvatarFolder)
	adminService := service.NewAdminService(
		service.AdminCredentials{
			Username:     cfg.Admin.Username,
			PasswordHash: cfg.Admin.PasswordHash,
		},
		hasher,
		productRepo,
		orderRepo,
		files,
		cfg.Upload.ProductFolder,
	)

	sessionManager := session.NewManager(sessionStore, cfg.Session.Secret, cfg.Session.TTL)

	r := router.NewRouter(
		controller.NewProductController(catalogService),
		controller.NewCartController(cartService),
		controller.NewOrderController(orderService),
		controller.NewAuthController(authService, orderService),
		controller.NewAdminController(adminService),
		controller.NewFeedController(hub, cfg.CORS.AllowedOrigins),
		middleware.NewSessionMiddleware(sessionManager, cfg.Session.CookieName, cfg.Session.Secure),
		cfg,
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           r.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started successfully", logger.Fields{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	if sweeper != nil {
		sweeper.Stop()
	}
	close(stopHub)

	logger.Info("Server stopped successfully")
}
