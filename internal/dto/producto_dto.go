package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// ProductoFilter is bound from the query string of GET /v1/productos.
// Query matches id, código or nombre, case-insensitive substring.
type ProductoFilter struct {
	Query     string `form:"query"`
	Categoria string `form:"categoria"`
	Activo    string `form:"activo"` // "false" = inactivos, "all" = todos, default activos
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=150"`
	Codigo       string          `json:"codigo"        validate:"required,min=1,max=50"`
	Categoria    string          `json:"categoria"     validate:"required"`
	PrecioCompra decimal.Decimal `json:"precio_compra" validate:"required,gt=0"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"  validate:"required,gt=0"`
	StockInicial int             `json:"stock"         validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID           string          `json:"id"`
	Nombre       string          `json:"nombre"`
	Codigo       string          `json:"codigo"`
	Categoria    string          `json:"categoria"`
	PrecioCompra decimal.Decimal `json:"precio_compra"`
	PrecioVenta  decimal.Decimal `json:"precio_venta"`
	Stock        int             `json:"stock"`
	Activo       bool            `json:"activo"`
	CreatedAt    string          `json:"fecha_creado"`
}
