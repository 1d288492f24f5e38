package repository

import (
	"context"
	"time"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransaccionRepository is the append-only access layer for the product
// ledgers (compras and ventas).
//
// DeleteCompra / DeleteVenta exist solely for the compensation path of the
// transaction recorder: they remove a just-appended row by its own id, never
// "the last row", so a concurrent append can not be deleted by mistake.
type TransaccionRepository interface {
	CreateCompra(ctx context.Context, c *model.Compra) error
	CreateVenta(ctx context.Context, v *model.Venta) error
	DeleteCompra(ctx context.Context, id uuid.UUID) error
	DeleteVenta(ctx context.Context, id uuid.UUID) error

	ComprasPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.Compra, error)
	VentasPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.Venta, error)

	ComprasPorFecha(ctx context.Context, fecha time.Time) ([]model.Compra, error)
	VentasPorFecha(ctx context.Context, fecha time.Time) ([]model.Venta, error)

	ListCompras(ctx context.Context, filter dto.TransaccionFilter) ([]model.Compra, int64, error)
	ListVentas(ctx context.Context, filter dto.TransaccionFilter) ([]model.Venta, int64, error)
}

type transaccionRepo struct{ db *gorm.DB }

func NewTransaccionRepository(db *gorm.DB) TransaccionRepository {
	return &transaccionRepo{db: db}
}

func (r *transaccionRepo) CreateCompra(ctx context.Context, c *model.Compra) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *transaccionRepo) CreateVenta(ctx context.Context, v *model.Venta) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *transaccionRepo) DeleteCompra(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Compra{}, "id = ?", id).Error
}

func (r *transaccionRepo) DeleteVenta(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Venta{}, "id = ?", id).Error
}

func (r *transaccionRepo) ComprasPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).
		Order("created_at ASC").Find(&compras).Error
	return compras, err
}

func (r *transaccionRepo) VentasPorProducto(ctx context.Context, productoID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).
		Order("created_at ASC").Find(&ventas).Error
	return ventas, err
}

func (r *transaccionRepo) ComprasPorFecha(ctx context.Context, fecha time.Time) ([]model.Compra, error) {
	desde, hasta := rangoDia(fecha)
	var compras []model.Compra
	err := r.db.WithContext(ctx).Where("created_at >= ? AND created_at < ?", desde, hasta).
		Find(&compras).Error
	return compras, err
}

func (r *transaccionRepo) VentasPorFecha(ctx context.Context, fecha time.Time) ([]model.Venta, error) {
	desde, hasta := rangoDia(fecha)
	var ventas []model.Venta
	err := r.db.WithContext(ctx).Where("created_at >= ? AND created_at < ?", desde, hasta).
		Find(&ventas).Error
	return ventas, err
}

func (r *transaccionRepo) ListCompras(ctx context.Context, filter dto.TransaccionFilter) ([]model.Compra, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Compra{}).Preload("Producto")
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var compras []model.Compra
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&compras).Error
	return compras, total, err
}

func (r *transaccionRepo) ListVentas(ctx context.Context, filter dto.TransaccionFilter) ([]model.Venta, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Venta{}).Preload("Producto")
	if filter.ProductoID != "" {
		q = q.Where("producto_id = ?", filter.ProductoID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ventas []model.Venta
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&ventas).Error
	return ventas, total, err
}

// rangoDia returns the [00:00, 24:00) bounds of fecha in its own location.
func rangoDia(fecha time.Time) (time.Time, time.Time) {
	desde := time.Date(fecha.Year(), fecha.Month(), fecha.Day(), 0, 0, 0, 0, fecha.Location())
	return desde, desde.Add(24 * time.Hour)
}
