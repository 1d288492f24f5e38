package service

// reconciler.go — pure stock reconciliation.
// Current stock is a fold over the item's ledgers: purchases − sales.
// No mutation, no I/O; calling twice with the same slices yields the same
// result, and the result does not depend on entry order (sum is commutative).

import (
	"github.com/shewas4eve/inventario/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockProducto returns the net unit count for productoID: the sum of
// purchase quantities minus the sum of sale quantities. Entries referencing
// other products are ignored; no entries at all yields 0.
//
// The result can be negative when sales were recorded through a path that
// bypassed the stock check — callers should treat that as a data-integrity
// warning, not an error.
func StockProducto(productoID uuid.UUID, compras []model.Compra, ventas []model.Venta) int {
	stock := 0
	for _, c := range compras {
		if c.ProductoID == productoID {
			stock += c.Cantidad
		}
	}
	for _, v := range ventas {
		if v.ProductoID == productoID {
			stock -= v.Cantidad
		}
	}
	return stock
}

// StockMaterial returns the net weight in kilograms for materialID.
// Same fold as StockProducto over the material ledgers' peso_kg field.
func StockMaterial(materialID uuid.UUID, compras []model.CompraMaterial, ventas []model.VentaMaterial) decimal.Decimal {
	stock := decimal.Zero
	for _, c := range compras {
		if c.MaterialID == materialID {
			stock = stock.Add(c.PesoKg)
		}
	}
	for _, v := range ventas {
		if v.MaterialID == materialID {
			stock = stock.Sub(v.PesoKg)
		}
	}
	return stock
}
