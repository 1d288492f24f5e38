package repository

import (
	"context"

	"github.com/shewas4eve/inventario/internal/dto"
	"github.com/shewas4eve/inventario/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaterialRepository defines data access for reclaimable materials.
type MaterialRepository interface {
	Create(ctx context.Context, m *model.Material) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error)
	List(ctx context.Context, filter dto.MaterialFilter) ([]model.Material, int64, error)
	ListAll(ctx context.Context) ([]model.Material, error)
}

type materialRepo struct{ db *gorm.DB }

func NewMaterialRepository(db *gorm.DB) MaterialRepository { return &materialRepo{db: db} }

func (r *materialRepo) Create(ctx context.Context, m *model.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *materialRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepo) List(ctx context.Context, filter dto.MaterialFilter) ([]model.Material, int64, error) {
	var materiales []model.Material
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Material{})
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		q = q.Where("id::text ILIKE ? OR nombre ILIKE ?", like, like)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&materiales).Error
	return materiales, total, err
}

func (r *materialRepo) ListAll(ctx context.Context) ([]model.Material, error) {
	var materiales []model.Material
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&materiales).Error
	return materiales, err
}
