package dto

import "github.com/shopspring/decimal"

// ─── Product transactions ────────────────────────────────────────────────────

// RegistrarTransaccionRequest is the body of POST /v1/transacciones.
// Contraparte is the supplier on compras and the customer on ventas.
type RegistrarTransaccionRequest struct {
	ProductoID  string          `json:"producto_id" validate:"required,uuid"`
	Tipo        string          `json:"tipo"        validate:"required,oneof=compra venta"`
	Cantidad    int             `json:"cantidad"    validate:"required,min=1"`
	Precio      decimal.Decimal `json:"precio"      validate:"required,gt=0"`
	Contraparte string          `json:"contraparte" validate:"max=150"`
}

type TransaccionResponse struct {
	ID          string          `json:"id"`
	ProductoID  string          `json:"producto_id"`
	Tipo        string          `json:"tipo"`
	Cantidad    int             `json:"cantidad"`
	Precio      decimal.Decimal `json:"precio"`
	Total       decimal.Decimal `json:"total"`
	Contraparte string          `json:"contraparte,omitempty"`
	StockNuevo  int             `json:"stock_nuevo"`
	CreatedAt   string          `json:"fecha"`
}

// TransaccionFilter is bound from the query string of GET /v1/transacciones.
type TransaccionFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Tipo       string `form:"tipo"        validate:"omitempty,oneof=compra venta"`
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type TransaccionListResponse struct {
	Data  []TransaccionResponse `json:"data"`
	Total int64                 `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// ─── Material transactions ───────────────────────────────────────────────────

// RegistrarCompraMaterialRequest is the body of POST /v1/materiales/compras.
// Weight arrives in grams (the user unit); the ledger stores kilograms.
type RegistrarCompraMaterialRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	PesoGramos decimal.Decimal `json:"peso_gramos" validate:"required,gt=0"`
	PrecioKg   decimal.Decimal `json:"precio_kg"   validate:"required,gt=0"`
	Proveedor  string          `json:"proveedor"   validate:"max=150"`
}

type RegistrarVentaMaterialRequest struct {
	MaterialID string          `json:"material_id" validate:"required,uuid"`
	PesoGramos decimal.Decimal `json:"peso_gramos" validate:"required,gt=0"`
	PrecioKg   decimal.Decimal `json:"precio_kg"   validate:"required,gt=0"`
	Cliente    string          `json:"cliente"     validate:"max=150"`
}

type TransaccionMaterialResponse struct {
	ID          string          `json:"id"`
	MaterialID  string          `json:"material_id"`
	Tipo        string          `json:"tipo"`
	PesoKg      string          `json:"peso_kg"` // 3 decimals
	PrecioKg    decimal.Decimal `json:"precio_kg"`
	Total       decimal.Decimal `json:"total"`
	Contraparte string          `json:"contraparte,omitempty"`
	StockKg     string          `json:"stock_kg"` // reconciled stock after the transaction
	CreatedAt   string          `json:"fecha"`
}
