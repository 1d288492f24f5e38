package service_test

// In-memory repository stubs shared by the service tests. Failure injection
// is flag-based: set fail* on the stub and the next call errors.

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/model"
	"github.com/shewas4eve/inventario/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var errStoreDown = errors.New("store down")

// ── ProductoRepository ───────────────────────────────────────────────────────

type stubProductoRepo struct {
	productos    map[uuid.UUID]*model.Producto
	failSetStock bool
	setStockLog  []int
	precioLog    map[string]decimal.Decimal // columna → último precio escrito
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos: make(map[uuid.UUID]*model.Producto),
		precioLog: make(map[string]decimal.Decimal),
	}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListActivos(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) SetStock(_ context.Context, id uuid.UUID, stock int) error {
	if r.failSetStock {
		return errStoreDown
	}
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.StockActual = stock
	r.setStockLog = append(r.setStockLog, stock)
	return nil
}

func (r *stubProductoRepo) UpdatePrecio(_ context.Context, id uuid.UUID, columna string, precio decimal.Decimal) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if columna == "precio_compra" {
		p.PrecioCompra = precio
	} else {
		p.PrecioVenta = precio
	}
	r.precioLog[columna] = precio
	return nil
}

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── TransaccionRepository ────────────────────────────────────────────────────

type stubTransaccionRepo struct {
	compras []model.Compra
	ventas  []model.Venta

	failCreateCompra bool
	failCreateVenta  bool
	failDelete       bool
}

func newStubTransaccionRepo() *stubTransaccionRepo { return &stubTransaccionRepo{} }

func (r *stubTransaccionRepo) CreateCompra(_ context.Context, c *model.Compra) error {
	if r.failCreateCompra {
		return errStoreDown
	}
	r.compras = append(r.compras, *c)
	return nil
}

func (r *stubTransaccionRepo) CreateVenta(_ context.Context, v *model.Venta) error {
	if r.failCreateVenta {
		return errStoreDown
	}
	r.ventas = append(r.ventas, *v)
	return nil
}

func (r *stubTransaccionRepo) DeleteCompra(_ context.Context, id uuid.UUID) error {
	if r.failDelete {
		return errStoreDown
	}
	for i, c := range r.compras {
		if c.ID == id {
			r.compras = append(r.compras[:i], r.compras[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubTransaccionRepo) DeleteVenta(_ context.Context, id uuid.UUID) error {
	if r.failDelete {
		return errStoreDown
	}
	for i, v := range r.ventas {
		if v.ID == id {
			r.ventas = append(r.ventas[:i], r.ventas[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubTransaccionRepo) ComprasPorProducto(_ context.Context, productoID uuid.UUID) ([]model.Compra, error) {
	var out []model.Compra
	for _, c := range r.compras {
		if c.ProductoID == productoID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubTransaccionRepo) VentasPorProducto(_ context.Context, productoID uuid.UUID) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.ProductoID == productoID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubTransaccionRepo) ComprasPorFecha(_ context.Context, fecha time.Time) ([]model.Compra, error) {
	var out []model.Compra
	for _, c := range r.compras {
		if sameDay(c.CreatedAt, fecha) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubTransaccionRepo) VentasPorFecha(_ context.Context, fecha time.Time) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if sameDay(v.CreatedAt, fecha) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubTransaccionRepo) ListCompras(_ context.Context, filter dto.TransaccionFilter) ([]model.Compra, int64, error) {
	var out []model.Compra
	for _, c := range r.compras {
		if filter.ProductoID == "" || c.ProductoID.String() == filter.ProductoID {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubTransaccionRepo) ListVentas(_ context.Context, filter dto.TransaccionFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if filter.ProductoID == "" || v.ProductoID.String() == filter.ProductoID {
			out = append(out, v)
		}
	}
	return out, int64(len(out)), nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

var _ repository.TransaccionRepository = (*stubTransaccionRepo)(nil)

// ── MaterialRepository ───────────────────────────────────────────────────────

type stubMaterialRepo struct {
	materiales map[uuid.UUID]*model.Material
}

func newStubMaterialRepo() *stubMaterialRepo {
	return &stubMaterialRepo{materiales: make(map[uuid.UUID]*model.Material)}
}

func (r *stubMaterialRepo) Create(_ context.Context, m *model.Material) error {
	r.materiales[m.ID] = m
	return nil
}

func (r *stubMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Material, error) {
	m, ok := r.materiales[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m, nil
}

func (r *stubMaterialRepo) List(_ context.Context, _ dto.MaterialFilter) ([]model.Material, int64, error) {
	out := make([]model.Material, 0, len(r.materiales))
	for _, m := range r.materiales {
		out = append(out, *m)
	}
	return out, int64(len(out)), nil
}

func (r *stubMaterialRepo) ListAll(_ context.Context) ([]model.Material, error) {
	out := make([]model.Material, 0, len(r.materiales))
	for _, m := range r.materiales {
		out = append(out, *m)
	}
	// Mirrors the repo's nombre ASC ordering so tie-breaks are deterministic.
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

var _ repository.MaterialRepository = (*stubMaterialRepo)(nil)

// ── MaterialLedgerRepository ─────────────────────────────────────────────────

type stubMaterialLedgerRepo struct {
	compras []model.CompraMaterial
	ventas  []model.VentaMaterial

	failCreateVenta bool
}

func newStubMaterialLedgerRepo() *stubMaterialLedgerRepo { return &stubMaterialLedgerRepo{} }

func (r *stubMaterialLedgerRepo) CreateCompra(_ context.Context, c *model.CompraMaterial) error {
	r.compras = append(r.compras, *c)
	return nil
}

func (r *stubMaterialLedgerRepo) CreateVenta(_ context.Context, v *model.VentaMaterial) error {
	if r.failCreateVenta {
		return errStoreDown
	}
	r.ventas = append(r.ventas, *v)
	return nil
}

func (r *stubMaterialLedgerRepo) ComprasPorMaterial(_ context.Context, materialID uuid.UUID) ([]model.CompraMaterial, error) {
	var out []model.CompraMaterial
	for _, c := range r.compras {
		if c.MaterialID == materialID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubMaterialLedgerRepo) VentasPorMaterial(_ context.Context, materialID uuid.UUID) ([]model.VentaMaterial, error) {
	var out []model.VentaMaterial
	for _, v := range r.ventas {
		if v.MaterialID == materialID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *stubMaterialLedgerRepo) ComprasAll(_ context.Context) ([]model.CompraMaterial, error) {
	return r.compras, nil
}

func (r *stubMaterialLedgerRepo) VentasAll(_ context.Context) ([]model.VentaMaterial, error) {
	return r.ventas, nil
}

var _ repository.MaterialLedgerRepository = (*stubMaterialLedgerRepo)(nil)

// ── CategoriaRepository ──────────────────────────────────────────────────────

type stubCategoriaRepo struct {
	categorias []model.Categoria
}

func (r *stubCategoriaRepo) Crear(_ context.Context, c *model.Categoria) error {
	r.categorias = append(r.categorias, *c)
	return nil
}

func (r *stubCategoriaRepo) Listar(_ context.Context) ([]model.Categoria, error) {
	return r.categorias, nil
}

func (r *stubCategoriaRepo) ObtenerPorNombre(_ context.Context, nombre string) (*model.Categoria, error) {
	for i := range r.categorias {
		if strings.EqualFold(r.categorias[i].Nombre, nombre) {
			return &r.categorias[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

// ── ResumenRepository ────────────────────────────────────────────────────────

type stubResumenRepo struct {
	rows map[string]*model.ResumenDiario
}

func newStubResumenRepo() *stubResumenRepo {
	return &stubResumenRepo{rows: make(map[string]*model.ResumenDiario)}
}

func (r *stubResumenRepo) Upsert(_ context.Context, row *model.ResumenDiario) error {
	cp := *row
	r.rows[row.Fecha.Format("2006-01-02")] = &cp
	return nil
}

func (r *stubResumenRepo) Listar(_ context.Context, limit int) ([]model.ResumenDiario, error) {
	out := make([]model.ResumenDiario, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, *row)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ repository.ResumenRepository = (*stubResumenRepo)(nil)
