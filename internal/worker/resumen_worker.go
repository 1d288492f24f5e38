package worker

// Recomputes one daily rollup row. Enqueued after every product transaction
// and by the periodic cron; full recompute makes repeated or out-of-order
// jobs harmless.

import (
	"context"
	"encoding/json"

	"github.com/shewas4eve/inventario/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxResumenRetries = 3

// ResumenJobPayload is the job envelope sent to QueueResumen.
type ResumenJobPayload struct {
	Fecha string `json:"fecha"` // YYYY-MM-DD
}

// Recalculador rebuilds the rollup row for one date.
// Declared here so the worker never imports the service package.
type Recalculador interface {
	Recalcular(ctx context.Context, fecha string) (*dto.ResumenDiarioResponse, error)
}

type ResumenWorker struct {
	recalc Recalculador
	rdb    *redis.Client
}

func NewResumenWorker(recalc Recalculador, rdb *redis.Client) *ResumenWorker {
	return &ResumenWorker{recalc: recalc, rdb: rdb}
}

// Process recomputes the rollup with exponential backoff; after the last
// failed attempt the job moves to the DLQ.
func (w *ResumenWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload ResumenJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("resumen_worker: invalid payload")
		return
	}
	if payload.Fecha == "" {
		log.Warn().Msg("resumen_worker: empty fecha — skipping")
		return
	}

	err := withRetry(ctx, maxResumenRetries, func(attempt int) error {
		_, err := w.recalc.Recalcular(ctx, payload.Fecha)
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("fecha", payload.Fecha).
				Msg("resumen_worker: recompute attempt failed, retrying")
		}
		return err
	})
	if err != nil {
		SendToDLQ(ctx, w.rdb, QueueResumen, "resumen", raw, err.Error(), maxResumenRetries)
		return
	}
	log.Info().Str("fecha", payload.Fecha).Msg("resumen_worker: rollup recomputed")
}
