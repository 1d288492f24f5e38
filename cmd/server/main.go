package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shewas4eve/inventario/internal/config"
	"github.com/shewas4eve/inventario/internal/infra"
	"github.com/shewas4eve/inventario/internal/repository"
	"github.com/shewas4eve/inventario/internal/router"
	"github.com/shewas4eve/inventario/internal/service"
	"github.com/shewas4eve/inventario/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker wiring happens here (composition root): the pool needs the
	// rollup and metrics services, which the worker package itself must not
	// import.
	dispatcher := worker.NewDispatcher(rdb)
	mailer := infra.NewMailer(cfg)

	transaccionRepo := repository.NewTransaccionRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	materialLedgerRepo := repository.NewMaterialLedgerRepository(db)
	resumenRepo := repository.NewResumenRepository(db)

	resumenSvc := service.NewResumenService(transaccionRepo, resumenRepo, dispatcher)
	metricasSvc := service.NewMetricasService(materialRepo, materialLedgerRepo)

	handlers := map[string]worker.Handler{
		"resumen": worker.NewResumenWorker(resumenSvc, rdb),
		"email":   worker.NewEmailWorker(metricasSvc, resumenSvc, mailer, rdb, cfg.ReportStoragePath, cfg.ResumenEmail),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	worker.StartResumenCron(ctx, dispatcher)

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("inventario backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
