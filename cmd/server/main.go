package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gdccrm/internal/config"
	"gdccrm/internal/database"
	"gdccrm/internal/events"
	"gdccrm/internal/handlers"
	"gdccrm/internal/logging"
	"gdccrm/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	var store handlers.Store
	if cfg.Configured() {
		gw, err := database.Open(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("database unavailable")
		}
		defer gw.Close()
		store = gw
	} else {
		log.Warn().Msg("CRM_DB_DSN not set, running in demo mode")
	}

	var remote events.Publisher
	if cfg.AMQPURL != "" {
		pub, err := events.DialAMQP(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Error().Err(err).Msg("amqp unavailable, events stay in-process")
		} else {
			defer pub.Close()
			remote = pub
		}
	}
	broker := events.NewBroker(remote)

	r, err := server.NewRouter(cfg, store, broker)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build router")
	}

	// request contexts end on shutdown so open event streams let go
	baseCtx, cancelBase := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelBase)

	go func() {
		log.Info().Str("addr", srv.Addr).Bool("configured", cfg.Configured()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
