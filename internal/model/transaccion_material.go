package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CompraMaterial is one purchase of a reclaimable material.
// PesoGramos is the user-entered weight; PesoKg is the stored/computed unit
// (1000 g = 1 kg). Total = peso_kg × precio_kg, snapshotted at write time.
type CompraMaterial struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;index"`
	PesoGramos decimal.Decimal `gorm:"type:decimal(12,1);not null"`
	PesoKg     decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PrecioKg   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Proveedor  string
	CreatedAt  time.Time

	Material *Material `gorm:"foreignKey:MaterialID"`
}

func (CompraMaterial) TableName() string { return "compras_materiales" }

// VentaMaterial is one sale of a reclaimable material.
type VentaMaterial struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MaterialID uuid.UUID       `gorm:"type:uuid;not null;index"`
	PesoGramos decimal.Decimal `gorm:"type:decimal(12,1);not null"`
	PesoKg     decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PrecioKg   decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Cliente    string
	CreatedAt  time.Time

	Material *Material `gorm:"foreignKey:MaterialID"`
}

func (VentaMaterial) TableName() string { return "ventas_materiales" }
