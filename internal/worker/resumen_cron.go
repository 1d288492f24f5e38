package worker

// Background goroutine that periodically re-enqueues a recompute of today's
// rollup. Catches rows that drifted because a post-transaction job was lost
// (Redis restart, DLQ'd job) without anyone noticing.

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const resumenTickInterval = 5 * time.Minute

// StartResumenCron launches a goroutine that ticks every 5 minutes and
// enqueues a rollup recompute for the current date. It respects the
// context for graceful shutdown.
func StartResumenCron(ctx context.Context, dispatcher *Dispatcher) {
	go func() {
		ticker := time.NewTicker(resumenTickInterval)
		defer ticker.Stop()

		log.Info().Msg("resumen_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("resumen_cron: shutting down")
				return
			case <-ticker.C:
				fecha := time.Now().Format("2006-01-02")
				if err := dispatcher.EnqueueResumen(ctx, ResumenJobPayload{Fecha: fecha}); err != nil {
					log.Error().Err(err).Str("fecha", fecha).Msg("resumen_cron: failed to enqueue recompute")
				}
			}
		}
	}()
}
