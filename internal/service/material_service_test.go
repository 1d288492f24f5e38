package service_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/model"
	"github.com/shewas4eve/inventario/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildMaterialSvc() (service.MaterialService, *stubMaterialRepo, *stubMaterialLedgerRepo) {
	repo := newStubMaterialRepo()
	ledger := newStubMaterialLedgerRepo()
	return service.NewMaterialService(repo, ledger), repo, ledger
}

func seedMaterial(repo *stubMaterialRepo, nombre, tipo string) *model.Material {
	m := &model.Material{
		ID:       uuid.New(),
		Nombre:   nombre,
		Tipo:     tipo,
		PrecioKg: decimal.NewFromFloat(0.85),
	}
	repo.materiales[m.ID] = m
	return m
}

func TestRegistrarCompraMaterial_ConvierteGramosAKg(t *testing.T) {
	svc, repo, ledger := buildMaterialSvc()
	m := seedMaterial(repo, "PET cristal", model.TipoPlastico)

	resp, err := svc.RegistrarCompra(context.Background(), dto.RegistrarCompraMaterialRequest{
		MaterialID: m.ID.String(),
		PesoGramos: decimal.NewFromInt(2500),
		PrecioKg:   decimal.NewFromFloat(0.80),
		Proveedor:  "Recolector norte",
	})
	require.NoError(t, err)

	assert.Equal(t, "2.500", resp.PesoKg)
	// total = 2.5 kg × 0.80 = 2.00
	assert.Equal(t, "2.00", resp.Total.StringFixed(2))
	require.Len(t, ledger.compras, 1)
	assert.Equal(t, "2.500", ledger.compras[0].PesoKg.StringFixed(3))
	assert.Equal(t, "2500", ledger.compras[0].PesoGramos.String())
}

func TestRegistrarVentaMaterial_DescuentaDelStockReconciliado(t *testing.T) {
	svc, repo, _ := buildMaterialSvc()
	m := seedMaterial(repo, "Cartón corrugado", model.TipoCarton)

	_, err := svc.RegistrarCompra(context.Background(), dto.RegistrarCompraMaterialRequest{
		MaterialID: m.ID.String(),
		PesoGramos: decimal.NewFromInt(5000),
		PrecioKg:   decimal.NewFromFloat(0.30),
	})
	require.NoError(t, err)

	resp, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaMaterialRequest{
		MaterialID: m.ID.String(),
		PesoGramos: decimal.NewFromInt(2000),
		PrecioKg:   decimal.NewFromFloat(0.45),
		Cliente:    "Acopio central",
	})
	require.NoError(t, err)

	// 5 kg − 2 kg = 3 kg remaining
	assert.Equal(t, "3.000", resp.StockKg)

	stock, err := svc.Stock(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "3.000", stock.StockKg)
}

func TestRegistrarVentaMaterial_StockInsuficiente(t *testing.T) {
	svc, repo, ledger := buildMaterialSvc()
	m := seedMaterial(repo, "Aluminio", model.TipoMetal)

	_, err := svc.RegistrarCompra(context.Background(), dto.RegistrarCompraMaterialRequest{
		MaterialID: m.ID.String(),
		PesoGramos: decimal.NewFromInt(3000),
		PrecioKg:   decimal.NewFromFloat(1.60),
	})
	require.NoError(t, err)

	_, err = svc.RegistrarVenta(context.Background(), dto.RegistrarVentaMaterialRequest{
		MaterialID: m.ID.String(),
		PesoGramos: decimal.NewFromInt(4000),
		PrecioKg:   decimal.NewFromFloat(1.80),
	})
	require.Error(t, err)

	f := service.AsFault(err)
	require.NotNil(t, f)
	assert.Equal(t, service.KindInsufficientStock, f.Kind)
	assert.Contains(t, f.Message, "3.000")
	// The sale was never appended
	assert.Empty(t, ledger.ventas)
}

func TestRegistrarCompraMaterial_MaterialInexistente(t *testing.T) {
	svc, _, ledger := buildMaterialSvc()

	_, err := svc.RegistrarCompra(context.Background(), dto.RegistrarCompraMaterialRequest{
		MaterialID: uuid.New().String(),
		PesoGramos: decimal.NewFromInt(1000),
		PrecioKg:   decimal.NewFromFloat(1.00),
	})
	require.Error(t, err)

	f := service.AsFault(err)
	require.NotNil(t, f)
	assert.Equal(t, service.KindItemNotFound, f.Kind)
	assert.Empty(t, ledger.compras)
}

func TestStockMaterial_SinMovimientosEsCero(t *testing.T) {
	svc, repo, _ := buildMaterialSvc()
	m := seedMaterial(repo, "Vidrio", model.TipoVidrio)

	stock, err := svc.Stock(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.000", stock.StockKg)
}

// Concurrent sales of the same material must not drive the reconciled
// weight negative: the check-then-append pair is serialized per material.
func TestRegistrarVentaMaterial_VentasConcurrentes(t *testing.T) {
	svc, repo, ledger := buildMaterialSvc()
	m := seedMaterial(repo, "Cartón", model.TipoCarton)
	ledger.compras = append(ledger.compras, model.CompraMaterial{
		ID:         uuid.New(),
		MaterialID: m.ID,
		PesoKg:     decimal.NewFromInt(5),
	})

	var wg sync.WaitGroup
	var exitos atomic.Int32
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RegistrarVenta(context.Background(), dto.RegistrarVentaMaterialRequest{
				MaterialID: m.ID.String(),
				PesoGramos: decimal.NewFromInt(1000), // 1 kg each
				PrecioKg:   decimal.NewFromFloat(1.00),
			})
			if err == nil {
				exitos.Add(1)
			}
		}()
	}
	wg.Wait()

	// Exactly the available 5 kg sold, never more
	assert.Equal(t, int32(5), exitos.Load())
	assert.Len(t, ledger.ventas, 5)

	stock, err := svc.Stock(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.000", stock.StockKg)
}
