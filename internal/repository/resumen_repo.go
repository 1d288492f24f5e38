package repository

import (
	"context"

	"github.com/shewas4eve/inventario/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResumenRepository persists the daily rollup rows.
type ResumenRepository interface {
	// Upsert replaces the row for r.Fecha entirely.
	Upsert(ctx context.Context, r *model.ResumenDiario) error
	Listar(ctx context.Context, limit int) ([]model.ResumenDiario, error)
}

type resumenRepo struct{ db *gorm.DB }

func NewResumenRepository(db *gorm.DB) ResumenRepository { return &resumenRepo{db: db} }

func (r *resumenRepo) Upsert(ctx context.Context, res *model.ResumenDiario) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fecha"}},
		UpdateAll: true,
	}).Create(res).Error
}

func (r *resumenRepo) Listar(ctx context.Context, limit int) ([]model.ResumenDiario, error) {
	if limit < 1 || limit > 366 {
		limit = 31
	}
	var list []model.ResumenDiario
	err := r.db.WithContext(ctx).Order("fecha DESC").Limit(limit).Find(&list).Error
	return list, err
}
