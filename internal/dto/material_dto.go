package dto

import "github.com/shopspring/decimal"

// MaterialFilter is bound from the query string of GET /v1/materiales.
type MaterialFilter struct {
	Query string `form:"query"`
	Tipo  string `form:"tipo" validate:"omitempty,oneof=plastico carton vidrio metal papel electronico otro"`
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CrearMaterialRequest struct {
	Nombre      string          `json:"nombre"    validate:"required,min=2,max=150"`
	Tipo        string          `json:"tipo"      validate:"required,oneof=plastico carton vidrio metal papel electronico otro"`
	PrecioKg    decimal.Decimal `json:"precio_kg" validate:"required,gt=0"`
	Descripcion string          `json:"descripcion" validate:"max=500"`
}

type MaterialResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Tipo        string          `json:"tipo"`
	PrecioKg    decimal.Decimal `json:"precio_kg"`
	Descripcion string          `json:"descripcion,omitempty"`
	CreatedAt   string          `json:"fecha_creado"`
}

type MaterialListResponse struct {
	Data  []MaterialResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// StockMaterialResponse carries a reconciled material stock.
// Kilograms serialized with 3 decimals.
type StockMaterialResponse struct {
	MaterialID string `json:"material_id"`
	Nombre     string `json:"nombre"`
	StockKg    string `json:"stock_kg"`
}
