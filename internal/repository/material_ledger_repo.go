package repository

import (
	"context"

	"github.com/shewas4eve/inventario/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaterialLedgerRepository is the append-only access layer for the material
// ledgers (compras_materiales and ventas_materiales). Materials carry no
// denormalized stock, so there is no delete/compensation surface here —
// a material transaction is a single write.
type MaterialLedgerRepository interface {
	CreateCompra(ctx context.Context, c *model.CompraMaterial) error
	CreateVenta(ctx context.Context, v *model.VentaMaterial) error

	ComprasPorMaterial(ctx context.Context, materialID uuid.UUID) ([]model.CompraMaterial, error)
	VentasPorMaterial(ctx context.Context, materialID uuid.UUID) ([]model.VentaMaterial, error)

	// Full slices for the metrics aggregator.
	ComprasAll(ctx context.Context) ([]model.CompraMaterial, error)
	VentasAll(ctx context.Context) ([]model.VentaMaterial, error)
}

type materialLedgerRepo struct{ db *gorm.DB }

func NewMaterialLedgerRepository(db *gorm.DB) MaterialLedgerRepository {
	return &materialLedgerRepo{db: db}
}

func (r *materialLedgerRepo) CreateCompra(ctx context.Context, c *model.CompraMaterial) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *materialLedgerRepo) CreateVenta(ctx context.Context, v *model.VentaMaterial) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *materialLedgerRepo) ComprasPorMaterial(ctx context.Context, materialID uuid.UUID) ([]model.CompraMaterial, error) {
	var compras []model.CompraMaterial
	err := r.db.WithContext(ctx).Where("material_id = ?", materialID).
		Order("created_at ASC").Find(&compras).Error
	return compras, err
}

func (r *materialLedgerRepo) VentasPorMaterial(ctx context.Context, materialID uuid.UUID) ([]model.VentaMaterial, error) {
	var ventas []model.VentaMaterial
	err := r.db.WithContext(ctx).Where("material_id = ?", materialID).
		Order("created_at ASC").Find(&ventas).Error
	return ventas, err
}

func (r *materialLedgerRepo) ComprasAll(ctx context.Context) ([]model.CompraMaterial, error) {
	var compras []model.CompraMaterial
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&compras).Error
	return compras, err
}

func (r *materialLedgerRepo) VentasAll(ctx context.Context) ([]model.VentaMaterial, error) {
	var ventas []model.VentaMaterial
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&ventas).Error
	return ventas, err
}
