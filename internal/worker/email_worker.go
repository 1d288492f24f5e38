package worker

// Builds the metrics report PDF and mails it. Queued by POST /v1/resumen/enviar
// so a slow SMTP server never holds an HTTP request open.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const maxEmailRetries = 3

// EmailJobPayload is the job envelope sent to QueueEmail.
// Destinatario empty means "use the configured report address".
type EmailJobPayload struct {
	Destinatario string `json:"destinatario,omitempty"`
	Fecha        string `json:"fecha"` // YYYY-MM-DD, report reference date
}

// MetricasProveedor computes the material metrics included in the report.
// Declared here so the worker never imports the service package.
type MetricasProveedor interface {
	Materiales(ctx context.Context) (*dto.MetricasMaterialesResponse, error)
}

// ResumenProveedor lists recent daily rollups for the report.
type ResumenProveedor interface {
	Listar(ctx context.Context, limit int) ([]dto.ResumenDiarioResponse, error)
}

type EmailWorker struct {
	metricas    MetricasProveedor
	resumenes   ResumenProveedor
	mailer      *infra.Mailer
	rdb         *redis.Client
	storagePath string
	defaultTo   string
}

func NewEmailWorker(metricas MetricasProveedor, resumenes ResumenProveedor, mailer *infra.Mailer, rdb *redis.Client, storagePath, defaultTo string) *EmailWorker {
	return &EmailWorker{
		metricas:    metricas,
		resumenes:   resumenes,
		mailer:      mailer,
		rdb:         rdb,
		storagePath: storagePath,
		defaultTo:   defaultTo,
	}
}

// Process regenerates the report from the current ledgers and sends it.
// Regenerating at send time (not enqueue time) means the mail always
// reflects the stores as of delivery.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	to := payload.Destinatario
	if to == "" {
		to = w.defaultTo
	}
	if to == "" {
		log.Warn().Msg("email_worker: no destination address configured — skipping")
		return
	}

	metricas, err := w.metricas.Materiales(ctx)
	if err != nil {
		log.Error().Err(err).Msg("email_worker: could not compute metrics")
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), 1)
		return
	}
	resumenes, err := w.resumenes.Listar(ctx, 7)
	if err != nil {
		log.Error().Err(err).Msg("email_worker: could not read daily rollups")
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), 1)
		return
	}

	pdfPath, err := infra.GenerateReporteMetricasPDF(metricas, resumenes, payload.Fecha, w.storagePath)
	if err != nil {
		log.Error().Err(err).Msg("email_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), 1)
		return
	}

	subject := fmt.Sprintf("Resumen de inventario — %s", payload.Fecha)
	body := fmt.Sprintf(
		"Adjunto encontrarás el resumen de inventario al %s.\nGanancia acumulada de materiales: $%s",
		payload.Fecha, metricas.Ganancia.StringFixed(2),
	)

	err = withRetry(ctx, maxEmailRetries, func(attempt int) error {
		if err := w.mailer.SendReporte(to, subject, body, pdfPath); err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("to", to).
				Msg("email_worker: send attempt failed, retrying")
			return err
		}
		return nil
	})
	if err != nil {
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), maxEmailRetries)
		return
	}
	log.Info().Str("to", to).Str("fecha", payload.Fecha).Msg("email_worker: reporte sent successfully")
}
