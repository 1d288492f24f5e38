package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shewas4eve/inventario/internal/model"
	"github.com/shewas4eve/inventario/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildResumenSvc() (service.ResumenService, *stubTransaccionRepo, *stubResumenRepo) {
	ledger := newStubTransaccionRepo()
	resumenes := newStubResumenRepo()
	return service.NewResumenService(ledger, resumenes, nil), ledger, resumenes
}

func TestRecalcular_AgregaElDia(t *testing.T) {
	svc, ledger, resumenes := buildResumenSvc()
	hoy := time.Now()
	ayer := hoy.AddDate(0, 0, -1)
	pid := uuid.New()

	ledger.compras = append(ledger.compras,
		model.Compra{ID: uuid.New(), ProductoID: pid, Cantidad: 10, Total: decimal.NewFromFloat(12.00), CreatedAt: hoy},
		model.Compra{ID: uuid.New(), ProductoID: pid, Cantidad: 5, Total: decimal.NewFromFloat(6.00), CreatedAt: ayer}, // other day
	)
	ledger.ventas = append(ledger.ventas,
		model.Venta{ID: uuid.New(), ProductoID: pid, Cantidad: 3, Total: decimal.NewFromFloat(15.00), CreatedAt: hoy},
		model.Venta{ID: uuid.New(), ProductoID: pid, Cantidad: 2, Total: decimal.NewFromFloat(10.00), CreatedAt: hoy},
	)

	fecha := hoy.Format("2006-01-02")
	resp, err := svc.Recalcular(context.Background(), fecha)
	require.NoError(t, err)

	assert.Equal(t, fecha, resp.Fecha)
	assert.Equal(t, "12.00", resp.TotalCompras.StringFixed(2))
	assert.Equal(t, "25.00", resp.TotalVentas.StringFixed(2))
	assert.Equal(t, "13.00", resp.Ganancia.StringFixed(2))
	assert.Equal(t, 5, resp.ProductosVendidos)

	// Row persisted
	row, ok := resumenes.rows[fecha]
	require.True(t, ok)
	assert.Equal(t, "13.00", row.Ganancia.StringFixed(2))
}

func TestRecalcular_EsIdempotente(t *testing.T) {
	svc, ledger, resumenes := buildResumenSvc()
	hoy := time.Now()
	pid := uuid.New()

	ledger.ventas = append(ledger.ventas,
		model.Venta{ID: uuid.New(), ProductoID: pid, Cantidad: 1, Total: decimal.NewFromFloat(4.00), CreatedAt: hoy})

	fecha := hoy.Format("2006-01-02")
	_, err := svc.Recalcular(context.Background(), fecha)
	require.NoError(t, err)
	// Repeated job: full recompute overwrites, never accumulates
	resp, err := svc.Recalcular(context.Background(), fecha)
	require.NoError(t, err)

	assert.Equal(t, "4.00", resp.TotalVentas.StringFixed(2))
	assert.Equal(t, "4.00", resumenes.rows[fecha].TotalVentas.StringFixed(2))
	assert.Len(t, resumenes.rows, 1)
}

func TestRecalcular_FechaInvalida(t *testing.T) {
	svc, _, _ := buildResumenSvc()

	_, err := svc.Recalcular(context.Background(), "28/08/2026")
	require.Error(t, err)
	f := service.AsFault(err)
	require.NotNil(t, f)
	assert.Equal(t, service.KindItemNotFound, f.Kind)
}

func TestRecalcular_DiaSinMovimientos(t *testing.T) {
	svc, _, resumenes := buildResumenSvc()

	fecha := time.Now().Format("2006-01-02")
	resp, err := svc.Recalcular(context.Background(), fecha)
	require.NoError(t, err)

	assert.Equal(t, "0.00", resp.TotalVentas.StringFixed(2))
	assert.Equal(t, 0, resp.ProductosVendidos)
	assert.Contains(t, resumenes.rows, fecha)
}
