package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/lucashenrq/pedeja/internal/config"
	"github.com/lucashenrq/pedeja/internal/db"
	apihttp "github.com/lucashenrq/pedeja/internal/handler/http"
	"github.com/lucashenrq/pedeja/internal/order"
	"github.com/lucashenrq/pedeja/internal/product"
	"github.com/lucashenrq/pedeja/internal/realtime"
	"github.com/lucashenrq/pedeja/internal/storage"
	"github.com/lucashenrq/pedeja/internal/store"
	"github.com/lucashenrq/pedeja/internal/user"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "pedeja").Logger()

	log.Info().Msg("Pedeja starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	routerCfg := apihttp.RouterConfig{
		RateRPS:   10,
		RateBurst: 20,
	}

	var dbPool *db.Postgres
	if cfg.DatabaseConfigured() {
		dbPool, err = db.New(ctx, cfg.Postgres)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer dbPool.Close()

		photos, err := storage.NewBucket(cfg.Storage.Dir, cfg.Storage.PublicBaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize photo bucket")
		}

		userSvc := user.NewService(user.NewRepository(dbPool.Pool))
		storeSvc := store.NewService(store.NewRepository(dbPool.Pool))
		productSvc := product.NewService(product.NewRepository(dbPool.Pool))
		orderSvc := order.NewService(order.NewRepository(dbPool.Pool))

		hub := realtime.NewHub()
		go hub.Run()
		defer hub.Stop()

		listener := realtime.NewListener(dbPool.Pool, hub)
		go func() {
			if err := listener.Run(ctx); err != nil {
				// Connected clients silently miss events until they refresh.
				log.Error().Err(err).Msg("Orders feed listener stopped")
			}
		}()

		routerCfg.Handlers = &apihttp.Handlers{
			Auth:    apihttp.NewAuthHandler(userSvc, storeSvc),
			Store:   apihttp.NewStoreHandler(storeSvc, photos),
			Product: apihttp.NewProductHandler(productSvc, photos),
			Order:   apihttp.NewOrderHandler(orderSvc),
			WS:      apihttp.NewWSHandler(hub),
		}
		routerCfg.PhotosDir = cfg.Storage.Dir
	} else {
		log.Warn().Msg("Database configuration missing; serving in unavailable mode")
	}

	router := apihttp.NewRouter(routerCfg)

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)
	<-stopCh

	log.Info().Msg("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Pedeja stopped gracefully.")
}
