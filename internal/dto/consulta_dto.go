package dto

import "github.com/shopspring/decimal"

// ConsultaStockResponse is the cached payload of GET /v1/stock/:id.
type ConsultaStockResponse struct {
	ProductoID  string          `json:"producto_id"`
	Nombre      string          `json:"nombre"`
	Categoria   string          `json:"categoria"`
	PrecioVenta decimal.Decimal `json:"precio_venta"`
	Stock       int             `json:"stock"`
}
