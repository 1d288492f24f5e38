package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Material types accepted by the registry. Free text is rejected at the DTO
// layer (validator oneof).
const (
	TipoPlastico    = "plastico"
	TipoCarton      = "carton"
	TipoVidrio      = "vidrio"
	TipoMetal       = "metal"
	TipoPapel       = "papel"
	TipoElectronico = "electronico"
	TipoOtro        = "otro"
)

// Material is a reclaimable material traded by weight.
//
// Unlike Producto there is no denormalized stock column: the current stock in
// kilograms is always reconciled from the compras_materiales /
// ventas_materiales ledgers. PrecioKg is the reference price per kilogram used
// for inventory valuation.
type Material struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre      string          `gorm:"index;not null"`
	Tipo        string          `gorm:"index;not null"`
	PrecioKg    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Descripcion string
	CreatedAt   time.Time
}

func (Material) TableName() string { return "materiales" }
