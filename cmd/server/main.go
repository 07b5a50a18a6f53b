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

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/hoangminh-dev/streetstore/internal/config"
	"github.com/hoangminh-dev/streetstore/internal/es"
	"github.com/hoangminh-dev/streetstore/internal/handlers"
	"github.com/hoangminh-dev/streetstore/internal/logging"
	authmw "github.com/hoangminh-dev/streetstore/internal/middleware/auth"
	"github.com/hoangminh-dev/streetstore/internal/middleware/loggingmw"
	"github.com/hoangminh-dev/streetstore/internal/middleware/ratelimit"
	"github.com/hoangminh-dev/streetstore/internal/mykafka"
	"github.com/hoangminh-dev/streetstore/internal/repo"
	"github.com/hoangminh-dev/streetstore/internal/service/token"
	httpserver "github.com/hoangminh-dev/streetstore/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	tokens, err := token.New([]byte(cfg.JWTSecret))
	if err != nil {
		log.Fatalf("token service error: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)

	users := &repo.UserRepo{DB: db}
	products := &repo.ProductRepo{DB: db}
	cart := &repo.CartRepo{DB: db}
	orders := &repo.OrderRepo{DB: db}

	deps := &httpserver.Deps{
		Auth:     &handlers.AuthHandler{Users: users, Tokens: tokens, Producer: producer},
		Products: &handlers.ProductHandler{Products: products, Producer: producer},
		Cart:     &handlers.CartHandler{Cart: cart, Orders: orders, Producer: producer},
		Admin:    &handlers.AdminHandler{Users: users, Products: products, Orders: orders},
		Guard:    &authmw.Guard{Users: users, Tokens: tokens},
		// 10 credential attempts per IP, refilling one every 3 seconds.
		LoginLimiter: ratelimit.New(rate.Every(3*time.Second), 10),
	}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		deps.Search = &handlers.SearchHandler{ES: esClient, Index: "products"}
	} else {
		logger.Warn("ES_URL not set, search endpoint disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID(), middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err.Error())
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err.Error())
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err.Error())
	}

	logger.Info("shutdown complete")
}
