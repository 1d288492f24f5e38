package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/model"
	"github.com/shewas4eve/inventario/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTransaccionSvc() (service.TransaccionService, *stubProductoRepo, *stubTransaccionRepo) {
	productoRepo := newStubProductoRepo()
	ledger := newStubTransaccionRepo()
	svc := service.NewTransaccionService(productoRepo, ledger, nil, nil)
	return svc, productoRepo, ledger
}

func seedProducto(repo *stubProductoRepo, nombre string, stock int) *model.Producto {
	p := &model.Producto{
		ID:           uuid.New(),
		Nombre:       nombre,
		Codigo:       nombre,
		Categoria:    "Almacén",
		PrecioCompra: decimal.NewFromFloat(3.00),
		PrecioVenta:  decimal.NewFromFloat(5.00),
		StockActual:  stock,
		Activo:       true,
	}
	repo.productos[p.ID] = p
	return p
}

// seedLedger records a purchase directly so the reconciled stock matches the
// denormalized column.
func seedLedger(ledger *stubTransaccionRepo, productoID uuid.UUID, cantidad int) {
	ledger.compras = append(ledger.compras, model.Compra{
		ID:         uuid.New(),
		ProductoID: productoID,
		Cantidad:   cantidad,
		Precio:     decimal.NewFromFloat(3.00),
		Total:      decimal.NewFromFloat(3.00).Mul(decimal.NewFromInt(int64(cantidad))),
	})
}

func TestRegistrarVenta_DescuentaStock(t *testing.T) {
	svc, productoRepo, ledger := buildTransaccionSvc()
	p := seedProducto(productoRepo, "Arroz 1kg", 10)
	seedLedger(ledger, p.ID, 10)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: p.ID.String(),
		Tipo:       "venta",
		Cantidad:   3,
		Precio:     decimal.NewFromFloat(5.00),
		Contraparte: "Cliente mostrador",
	})
	require.NoError(t, err)

	assert.Equal(t, 7, resp.StockNuevo)
	assert.Equal(t, "15.00", resp.Total.StringFixed(2))
	assert.Equal(t, 7, productoRepo.productos[p.ID].StockActual)
	assert.Len(t, ledger.ventas, 1)
}

func TestRegistrarVenta_StockInsuficiente(t *testing.T) {
	svc, productoRepo, ledger := buildTransaccionSvc()
	p := seedProducto(productoRepo, "Detergente", 7)
	seedLedger(ledger, p.ID, 7)

	_, err := svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: p.ID.String(),
		Tipo:       "venta",
		Cantidad:   8,
		Precio:     decimal.NewFromFloat(5.00),
	})
	require.Error(t, err)

	f := service.AsFault(err)
	require.NotNil(t, f)
	assert.Equal(t, service.KindInsufficientStock, f.Kind)
	// The message states the available quantity
	assert.Contains(t, f.Message, "7")
	// Nothing was written: ledger and stock untouched
	assert.Empty(t, ledger.ventas)
	assert.Equal(t, 7, productoRepo.productos[p.ID].StockActual)
}

func TestRegistrarCompra_SinLimiteDeStock(t *testing.T) {
	svc, productoRepo, ledger := buildTransaccionSvc()
	p := seedProducto(productoRepo, "Agua 1.5L", 0)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: p.ID.String(),
		Tipo:       "compra",
		Cantidad:   500,
		Precio:     decimal.NewFromFloat(1.20),
		Contraparte: "Distribuidora Sur",
	})
	require.NoError(t, err)

	assert.Equal(t, 500, resp.StockNuevo)
	assert.Len(t, ledger.compras, 1)
	assert.Equal(t, "600.00", ledger.compras[0].Total.StringFixed(2))
}

func TestRegistrar_NoEsIdempotente(t *testing.T) {
	svc, productoRepo, ledger := buildTransaccionSvc()
	p := seedProducto(productoRepo, "Yerba 500g", 0)

	req := dto.RegistrarTransaccionRequest{
		ProductoID: p.ID.String(),
		Tipo:       "compra",
		Cantidad:   5,
		Precio:     decimal.NewFromFloat(2.00),
	}
	r1, err := svc.Registrar(context.Background(), req)
	require.NoError(t, err)
	r2, err := svc.Registrar(context.Background(), req)
	require.NoError(t, err)

	// Same request twice → two distinct ledger entries, stock counted twice
	assert.NotEqual(t, r1.ID, r2.ID)
	assert.Len(t, ledger.compras, 2)
	assert.Equal(t, 10, productoRepo.productos[p.ID].StockActual)
}

func TestRegistrar_ProductoInexistente(t *testing.T) {
	svc, _, ledger := buildTransaccionSvc()

	_, err := svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: uuid.New().String(),
		Tipo:       "compra",
		Cantidad:   1,
		Precio:     decimal.NewFromFloat(1.00),
	})
	require.Error(t, err)

	f := service.AsFault(err)
	require.NotNil(t, f)
	assert.Equal(t, service.KindItemNotFound, f.Kind)
	assert.Empty(t, ledger.compras)
}

func TestRegistrar_PropagaPrecioDeReferencia(t *testing.T) {
	svc, productoRepo, _ := buildTransaccionSvc()
	p := seedProducto(productoRepo, "Fideos 500g", 0) // precio_compra 3.00

	_, err := svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: p.ID.String(),
		Tipo:       "compra",
		Cantidad:   10,
		Precio:     decimal.NewFromFloat(3.45),
	})
	require.NoError(t, err)

	// precio_compra updated to the last transacted price
	assert.Equal(t, "3.45", productoRepo.productos[p.ID].PrecioCompra.StringFixed(2))
	assert.Equal(t, "3.45", productoRepo.precioLog["precio_compra"].StringFixed(2))
	// precio_venta untouched by a compra
	assert.Equal(t, "5.00", productoRepo.productos[p.ID].PrecioVenta.StringFixed(2))
}

func TestRegistrar_CompensacionEliminaEntrada(t *testing.T) {
	svc, productoRepo, ledger := buildTransaccionSvc()
	p := seedProducto(productoRepo, "Azúcar 1kg", 0)
	productoRepo.failSetStock = true

	_, err := svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: p.ID.String(),
		Tipo:       "compra",
		Cantidad:   4,
		Precio:     decimal.NewFromFloat(1.00),
	})
	require.Error(t, err)

	f := service.AsFault(err)
	require.NotNil(t, f)
	assert.Equal(t, service.KindStoreUnavailable, f.Kind)
	// The appended entry was compensated away — ledger back to empty
	assert.Empty(t, ledger.compras)
}

func TestRegistrar_CompensacionFallida(t *testing.T) {
	svc, productoRepo, ledger := buildTransaccionSvc()
	p := seedProducto(productoRepo, "Café 250g", 0)
	productoRepo.failSetStock = true
	ledger.failDelete = true

	_, err := svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: p.ID.String(),
		Tipo:       "compra",
		Cantidad:   2,
		Precio:     decimal.NewFromFloat(4.00),
	})
	require.Error(t, err)

	f := service.AsFault(err)
	require.NotNil(t, f)
	// Both the write-back and the compensating delete failed: the orphaned
	// entry must surface as an inconsistency, never be swallowed.
	assert.Equal(t, service.KindWriteInconsistency, f.Kind)
	assert.Len(t, ledger.compras, 1)
}

func TestRegistrar_SanaStockDesnormalizado(t *testing.T) {
	svc, productoRepo, ledger := buildTransaccionSvc()
	// Denormalized column says 3 but the ledgers fold to 10: a previous
	// write-back was lost.
	p := seedProducto(productoRepo, "Lavandina 1L", 3)
	seedLedger(ledger, p.ID, 10)

	resp, err := svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: p.ID.String(),
		Tipo:       "venta",
		Cantidad:   4, // would fail against the stale column, passes against the fold
		Precio:     decimal.NewFromFloat(2.00),
	})
	require.NoError(t, err)

	// Absolute write-back heals the drift: 10 − 4 = 6
	assert.Equal(t, 6, resp.StockNuevo)
	assert.Equal(t, 6, productoRepo.productos[p.ID].StockActual)
}

func TestListar_FiltraPorTipo(t *testing.T) {
	svc, productoRepo, _ := buildTransaccionSvc()
	p := seedProducto(productoRepo, "Pan lactal", 0)

	_, err := svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: p.ID.String(), Tipo: "compra", Cantidad: 5, Precio: decimal.NewFromFloat(1.00),
	})
	require.NoError(t, err)
	_, err = svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: p.ID.String(), Tipo: "venta", Cantidad: 2, Precio: decimal.NewFromFloat(2.00),
	})
	require.NoError(t, err)

	todo, err := svc.Listar(context.Background(), dto.TransaccionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), todo.Total)

	ventas, err := svc.Listar(context.Background(), dto.TransaccionFilter{Tipo: "venta"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), ventas.Total)
	assert.Equal(t, "venta", ventas.Data[0].Tipo)
}

func TestListar_SinTipoMezclaPorFecha(t *testing.T) {
	svc, productoRepo, ledger := buildTransaccionSvc()
	p := seedProducto(productoRepo, "Yerba 500g", 0)

	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	ledger.compras = append(ledger.compras,
		model.Compra{ID: uuid.New(), ProductoID: p.ID, Cantidad: 1, CreatedAt: base},
		model.Compra{ID: uuid.New(), ProductoID: p.ID, Cantidad: 1, CreatedAt: base.Add(2 * time.Minute)},
	)
	ledger.ventas = append(ledger.ventas,
		model.Venta{ID: uuid.New(), ProductoID: p.ID, Cantidad: 1, CreatedAt: base.Add(1 * time.Minute)},
		model.Venta{ID: uuid.New(), ProductoID: p.ID, Cantidad: 1, CreatedAt: base.Add(3 * time.Minute)},
	)

	resp, err := svc.Listar(context.Background(), dto.TransaccionFilter{Limit: 3})
	require.NoError(t, err)

	// One page holds the 3 newest entries across both ledgers, newest first
	require.Len(t, resp.Data, 3)
	assert.Equal(t, int64(4), resp.Total)
	assert.Equal(t, []string{"venta", "compra", "venta"},
		[]string{resp.Data[0].Tipo, resp.Data[1].Tipo, resp.Data[2].Tipo})
}

// Selling against a product whose only stock is its opening balance: the
// alta records the initial stock as a compra entry, so the reconciled fold
// and the worked arithmetic line up with the denormalized column.
func TestRegistrar_SobreStockInicial(t *testing.T) {
	productoRepo := newStubProductoRepo()
	categoriaRepo := &stubCategoriaRepo{categorias: []model.Categoria{
		{ID: uuid.New(), Nombre: "Almacén"},
	}}
	ledger := newStubTransaccionRepo()
	productos := service.NewProductoService(productoRepo, categoriaRepo, ledger)
	svc := service.NewTransaccionService(productoRepo, ledger, nil, nil)

	creado, err := productos.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:       "Arroz 1kg",
		Codigo:       "ARR-1K",
		Categoria:    "Almacén",
		PrecioCompra: decimal.NewFromFloat(1.10),
		PrecioVenta:  decimal.NewFromFloat(1.90),
		StockInicial: 10,
	})
	require.NoError(t, err)

	venta, err := svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: creado.ID, Tipo: "venta", Cantidad: 3, Precio: decimal.NewFromFloat(1.90),
	})
	require.NoError(t, err)
	assert.Equal(t, 7, venta.StockNuevo)

	compra, err := svc.Registrar(context.Background(), dto.RegistrarTransaccionRequest{
		ProductoID: creado.ID, Tipo: "compra", Cantidad: 5, Precio: decimal.NewFromFloat(1.10),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, compra.StockNuevo) // 10 − 3 + 5
}
