package service

import (
	"context"
	"time"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/model"
	"github.com/shewas4eve/inventario/internal/repository"
	"github.com/shewas4eve/inventario/internal/worker"
)

const fechaLayout = "2006-01-02"

// ResumenService maintains and serves the daily rollup over the product
// ledgers. Recalcular is also the job body run by the resumen worker.
type ResumenService interface {
	Recalcular(ctx context.Context, fecha string) (*dto.ResumenDiarioResponse, error)
	Listar(ctx context.Context, limit int) ([]dto.ResumenDiarioResponse, error)
	Enviar(ctx context.Context, req dto.EnviarResumenRequest) error
}

type resumenService struct {
	ledger     repository.TransaccionRepository
	resumenes  repository.ResumenRepository
	dispatcher *worker.Dispatcher
}

func NewResumenService(ledger repository.TransaccionRepository, resumenes repository.ResumenRepository, dispatcher *worker.Dispatcher) ResumenService {
	return &resumenService{ledger: ledger, resumenes: resumenes, dispatcher: dispatcher}
}

// Recalcular rebuilds the rollup row for one date from scratch and upserts
// it. Full recomputation means a lost or repeated job can never drift the
// row away from the ledgers.
func (s *resumenService) Recalcular(ctx context.Context, fecha string) (*dto.ResumenDiarioResponse, error) {
	dia, err := time.ParseInLocation(fechaLayout, fecha, time.Local)
	if err != nil {
		return nil, notFound("Fecha %q inválida, se espera AAAA-MM-DD.", fecha)
	}

	compras, err := s.ledger.ComprasPorFecha(ctx, dia)
	if err != nil {
		return nil, storeUnavailable("No se pudo leer el libro de compras.", err)
	}
	ventas, err := s.ledger.VentasPorFecha(ctx, dia)
	if err != nil {
		return nil, storeUnavailable("No se pudo leer el libro de ventas.", err)
	}

	row := &model.ResumenDiario{Fecha: dia}
	for _, c := range compras {
		row.TotalCompras = row.TotalCompras.Add(c.Total)
	}
	for _, v := range ventas {
		row.TotalVentas = row.TotalVentas.Add(v.Total)
		row.ProductosVendidos += v.Cantidad
	}
	row.TotalCompras = row.TotalCompras.Round(2)
	row.TotalVentas = row.TotalVentas.Round(2)
	row.Ganancia = row.TotalVentas.Sub(row.TotalCompras).Round(2)

	if err := s.resumenes.Upsert(ctx, row); err != nil {
		return nil, storeUnavailable("No se pudo guardar el resumen diario.", err)
	}
	return mapResumen(row), nil
}

func (s *resumenService) Listar(ctx context.Context, limit int) ([]dto.ResumenDiarioResponse, error) {
	if limit < 1 {
		limit = 30
	}
	rows, err := s.resumenes.Listar(ctx, limit)
	if err != nil {
		return nil, storeUnavailable("No se pudo leer los resúmenes diarios.", err)
	}
	out := make([]dto.ResumenDiarioResponse, 0, len(rows))
	for i := range rows {
		out = append(out, *mapResumen(&rows[i]))
	}
	return out, nil
}

// Enviar queues the metrics report email. Delivery happens in the email
// worker so a slow SMTP server never blocks the request.
func (s *resumenService) Enviar(ctx context.Context, req dto.EnviarResumenRequest) error {
	payload := worker.EmailJobPayload{
		Destinatario: req.Email,
		Fecha:        time.Now().Format(fechaLayout),
	}
	if err := s.dispatcher.EnqueueEmail(ctx, payload); err != nil {
		return storeUnavailable("No se pudo encolar el envío del resumen.", err)
	}
	return nil
}

func mapResumen(r *model.ResumenDiario) *dto.ResumenDiarioResponse {
	return &dto.ResumenDiarioResponse{
		Fecha:             r.Fecha.Format(fechaLayout),
		TotalVentas:       r.TotalVentas,
		TotalCompras:      r.TotalCompras,
		Ganancia:          r.Ganancia,
		ProductosVendidos: r.ProductosVendidos,
	}
}
