package service

import (
	"context"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MetricasService computes the dashboard rollup over the material ledgers.
type MetricasService interface {
	Materiales(ctx context.Context) (*dto.MetricasMaterialesResponse, error)
}

type metricasService struct {
	materiales repository.MaterialRepository
	ledger     repository.MaterialLedgerRepository
}

func NewMetricasService(materiales repository.MaterialRepository, ledger repository.MaterialLedgerRepository) MetricasService {
	return &metricasService{materiales: materiales, ledger: ledger}
}

// Materiales folds the full material ledgers into a single response.
// All three reads must succeed: a partial rollup is worse than no rollup,
// so any store error fails the whole request.
func (s *metricasService) Materiales(ctx context.Context) (*dto.MetricasMaterialesResponse, error) {
	registro, err := s.materiales.ListAll(ctx)
	if err != nil {
		return nil, storeUnavailable("No se pudo leer el registro de materiales.", err)
	}
	compras, err := s.ledger.ComprasAll(ctx)
	if err != nil {
		return nil, storeUnavailable("No se pudo leer el libro de compras de materiales.", err)
	}
	ventas, err := s.ledger.VentasAll(ctx)
	if err != nil {
		return nil, storeUnavailable("No se pudo leer el libro de ventas de materiales.", err)
	}

	tipoPorMaterial := make(map[uuid.UUID]string, len(registro))
	for _, m := range registro {
		tipoPorMaterial[m.ID] = m.Tipo
	}

	resp := &dto.MetricasMaterialesResponse{
		MaterialMasComprado: "N/A",
		ComprasPorTipo:      make(map[string]int),
	}

	// One pass over each ledger: monetary totals and per-type counts.
	for _, c := range compras {
		resp.TotalInvertido = resp.TotalInvertido.Add(c.Total)
		if tipo, ok := tipoPorMaterial[c.MaterialID]; ok {
			resp.ComprasPorTipo[tipo]++
		}
	}
	for _, v := range ventas {
		resp.TotalVendido = resp.TotalVendido.Add(v.Total)
	}
	resp.Ganancia = resp.TotalVendido.Sub(resp.TotalInvertido).Round(2)
	resp.TotalInvertido = resp.TotalInvertido.Round(2)
	resp.TotalVendido = resp.TotalVendido.Round(2)

	// Per-material reconciled stock drives the remaining two fields.
	// MaterialMasComprado names the material holding the most stock right
	// now (ties keep the first one in registry order; "N/A" when nothing is
	// in stock). The valuation sums stock × reference price unconditionally:
	// a negative fold discounts it, surfacing the data-integrity problem
	// instead of hiding it.
	valor := decimal.Zero
	maxStock := decimal.Zero
	for _, m := range registro {
		stock := StockMaterial(m.ID, compras, ventas)
		valor = valor.Add(stock.Mul(m.PrecioKg))
		if stock.GreaterThan(maxStock) {
			maxStock = stock
			resp.MaterialMasComprado = m.Nombre
		}
	}
	resp.ValorInventario = valor.Round(2)

	return resp, nil
}
