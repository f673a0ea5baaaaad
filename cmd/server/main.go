package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/shopedge/backend/internal/cache"
	"github.com/shopedge/backend/internal/config"
	"github.com/shopedge/backend/internal/es"
	"github.com/shopedge/backend/internal/events"
	"github.com/shopedge/backend/internal/httpserver"
	authmw "github.com/shopedge/backend/internal/middleware/auth"
	"github.com/shopedge/backend/internal/payment"
	"github.com/shopedge/backend/internal/repo"
	"github.com/shopedge/backend/internal/service"
	pkgdb "github.com/shopedge/backend/pkg/db"
	"github.com/shopedge/backend/pkg/logging"
	loggingmw "github.com/shopedge/backend/pkg/middleware/logging"
)

func main() {
	cfg := config.MustLoad()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	if err := repo.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	r := repo.New(db)

	var indexer *es.Indexer
	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Error("elasticsearch unavailable, search disabled", "error", err)
		} else {
			indexer = es.NewIndexer(client, cfg.ESIndex)
		}
	}

	productCache, err := cache.NewProductCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("redis unavailable, product cache disabled", "error", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	tokens := &service.TokenService{Repo: r, Secret: cfg.JWTSecret, Lifetime: cfg.TokenLifetime}
	authSvc := &service.AuthService{Repo: r, Tokens: tokens, Events: producer}
	userSvc := &service.UserService{Repo: r, Tokens: tokens}
	cartSvc := &service.CartService{Repo: r}
	catalogSvc := &service.CatalogService{Repo: r, Indexer: indexer, Cache: productCache, Events: producer}
	orderSvc := &service.OrderService{Repo: r}
	analyticsSvc := &service.AnalyticsService{Repo: r}
	checkoutSvc := &service.CheckoutService{
		Repo:     r,
		Gateway:  payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewaySecret),
		Currency: cfg.Currency,
		Events:   producer,
	}

	gate := authmw.NewGate(authmw.GateConfig{
		Repo:           r,
		Tokens:         tokens,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Gate:    gate,
		DB:      db,
		Auth:    &httpserver.AuthHTTP{Svc: authSvc},
		Cart:    &httpserver.CartHTTP{Svc: cartSvc},
		Catalog: &httpserver.CatalogHTTP{Svc: catalogSvc},
		Orders:  &httpserver.OrderHTTP{Svc: orderSvc},
		Payment: &httpserver.PaymentHTTP{Svc: checkoutSvc},
		Admin: &httpserver.AdminHTTP{
			Catalog:   catalogSvc,
			Users:     userSvc,
			Analytics: analyticsSvc,
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	_ = producer.Close()
	_ = productCache.Close()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logger.Info("server stopped")
}
