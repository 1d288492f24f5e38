package dto

import "github.com/shopspring/decimal"

// MetricasMaterialesResponse is the dashboard rollup over the material ledgers.
// All-or-nothing: either every field is computed from a consistent read of the
// stores, or the request fails.
type MetricasMaterialesResponse struct {
	TotalInvertido      decimal.Decimal `json:"total_invertido"`
	TotalVendido        decimal.Decimal `json:"total_vendido"`
	Ganancia            decimal.Decimal `json:"ganancia"`
	ValorInventario     decimal.Decimal `json:"valor_inventario"`
	MaterialMasComprado string          `json:"material_mas_comprado"`
	ComprasPorTipo      map[string]int  `json:"compras_por_tipo"`
}

type ResumenDiarioResponse struct {
	Fecha             string          `json:"fecha"` // YYYY-MM-DD
	TotalVentas       decimal.Decimal `json:"total_ventas"`
	TotalCompras      decimal.Decimal `json:"total_compras"`
	Ganancia          decimal.Decimal `json:"ganancia"`
	ProductosVendidos int             `json:"productos_vendidos"`
}

// EnviarResumenRequest optionally overrides the configured destination address.
type EnviarResumenRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}
