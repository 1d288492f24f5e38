package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResumenDiario is the denormalized daily rollup over the product ledgers.
// One row per calendar date, recomputed in full by the resumen worker after
// each product transaction — a failed recompute never corrupts the row, the
// next job overwrites it entirely.
type ResumenDiario struct {
	Fecha              time.Time       `gorm:"type:date;primaryKey"`
	TotalVentas        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TotalCompras       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Ganancia           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProductosVendidos  int             `gorm:"not null"`
	UpdatedAt          time.Time
}

func (ResumenDiario) TableName() string { return "resumenes_diarios" }
