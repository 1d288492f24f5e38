package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a unit-counted inventory item.
//
// StockActual is denormalized: it mirrors the fold of the compras/ventas
// ledgers for this product and is maintained incrementally by every
// transaction. PrecioCompra / PrecioVenta track the last transacted price
// in each direction.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"index;not null"`
	Codigo       string    `gorm:"uniqueIndex;not null"`
	Categoria    string    `gorm:"not null"`
	PrecioCompra decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	PrecioVenta  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockActual  int             `gorm:"not null;default:0"`
	Activo       bool            `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Producto) TableName() string { return "productos" }
