package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/cors"

	"github.com/josiaO/SmartDalaliTZ/internal/cache"
	"github.com/josiaO/SmartDalaliTZ/internal/config"
	"github.com/josiaO/SmartDalaliTZ/internal/events"
	"github.com/josiaO/SmartDalaliTZ/internal/handler"
	"github.com/josiaO/SmartDalaliTZ/internal/logger"
	"github.com/josiaO/SmartDalaliTZ/internal/middleware"
	mongoclient "github.com/josiaO/SmartDalaliTZ/internal/mongo"
	"github.com/josiaO/SmartDalaliTZ/internal/repository"
	"github.com/josiaO/SmartDalaliTZ/internal/seed"
	"github.com/josiaO/SmartDalaliTZ/internal/service"
)

func main() {
	logger.Init(config.AppName)

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()
	if err := repository.EnsureSchema(ctx, db); err != nil {
		logger.Log.Fatalf("schema: %v", err)
	}

	propertyRepo := repository.NewPropertyRepository(db)
	userRepo := repository.NewUserRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// Optional backends stay nil interfaces when not configured.
	var photos service.PhotoStore
	if cfg.Mongo.URI != "" {
		client, err := mongoclient.NewMongoClient(cfg.Mongo.URI)
		if err != nil {
			logger.Log.Fatalf("mongo: %v", err)
		}
		defer client.Disconnect(context.Background())
		photos = repository.NewPhotoRepository(client, cfg.Mongo.Database)
	} else {
		logger.Log.Warn("MONGO_URI not set, photo uploads are disabled")
	}

	var snapshots service.SnapshotCache
	if cfg.Redis.Addr != "" {
		rc := cache.New(cfg.Redis.Addr, cfg.Redis.Password)
		if err := rc.Ping(ctx); err != nil {
			logger.Log.WithError(err).Warn("redis unreachable, continuing without cache")
			_ = rc.Close()
		} else {
			defer rc.Close()
			snapshots = rc
			logger.Log.Info("Connected to Redis")
		}
	}

	var publisher service.EventPublisher = events.Nop{}
	if cfg.RabbitMQ.URL != "" {
		p, err := events.NewPublisher(events.Config{URL: cfg.RabbitMQ.URL, ExchangeName: cfg.RabbitMQ.Exchange})
		if err != nil {
			logger.Log.Fatalf("rabbitmq: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	var directory service.UserDirectory = service.LocalDirectory{Users: userRepo}
	if cfg.UserServiceURL != "" {
		directory = service.NewRemoteDirectory(cfg.UserServiceURL)
		logger.Log.Infof("Resolving agents through %s", cfg.UserServiceURL)
	}

	if cfg.SeedFixtures {
		if err := seed.Apply(ctx, userRepo, propertyRepo); err != nil {
			logger.Log.Fatalf("seed: %v", err)
		}
	}

	properties := service.NewPropertyService(propertyRepo, photos, directory, snapshots, cfg.Redis.TTL, publisher)
	payments := service.NewPaymentService(paymentRepo, userRepo, publisher, cfg.PaymentSettleDelay)
	defer payments.Close()

	loginLimiter := middleware.NewLimiter(cfg.Auth.LoginRatePerMinute, time.Minute, cfg.Auth.LoginRatePerMinute)
	defer loginLimiter.Close()
	paymentLimiter := middleware.NewLimiter(cfg.Auth.PaymentRatePerMinute, time.Minute, cfg.Auth.PaymentRatePerMinute)
	defer paymentLimiter.Close()

	router := handler.NewRouter(handler.RouterDeps{
		Properties:     properties,
		Auth:           service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Dashboard:      service.NewDashboardService(propertyRepo, userRepo, paymentRepo),
		Payments:       payments,
		JWTSecret:      cfg.Auth.JWTSecret,
		LoginLimiter:   loginLimiter,
		PaymentLimiter: paymentLimiter,
		DB:             db,
	})

	co := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           co.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Log.Infof("Listing service running on :%s", cfg.Port)
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Errorf("server error: %v", err)
		}
	case <-ctx.Done():
		logger.Log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorf("shutdown error: %v", err)
		}
	}
	logger.Log.Info("Server stopped")
}
