package infra

// A4 inventory report: the material metrics rollup on top, then a table
// with the most recent daily product rollups. One file per reference date,
// written to storagePath/reporte_{fecha}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shewas4eve/inventario/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerateReporteMetricasPDF renders the inventory report and returns the
// absolute path to the generated file.
func GenerateReporteMetricasPDF(metricas *dto.MetricasMaterialesResponse, resumenes []dto.ResumenDiarioResponse, fecha, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("reporte_%s.pdf", fecha)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "Resumen de Inventario", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fecha, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Material metrics ─────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Materiales", "B", 1, "L", false, 0, "")
	pdf.Ln(1)

	labelW := contentW * 0.6
	valueW := contentW * 0.4
	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(labelW, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 6, value, "", 1, "R", false, 0, "")
	}
	row("Total invertido:", "$"+metricas.TotalInvertido.StringFixed(2))
	row("Total vendido:", "$"+metricas.TotalVendido.StringFixed(2))
	row("Ganancia:", "$"+metricas.Ganancia.StringFixed(2))
	row("Valor de inventario:", "$"+metricas.ValorInventario.StringFixed(2))
	row("Material más comprado:", metricas.MaterialMasComprado)
	pdf.Ln(2)

	if len(metricas.ComprasPorTipo) > 0 {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(contentW, 6, "Compras por tipo", "", 1, "L", false, 0, "")
		tipos := make([]string, 0, len(metricas.ComprasPorTipo))
		for tipo := range metricas.ComprasPorTipo {
			tipos = append(tipos, tipo)
		}
		sort.Strings(tipos)
		for _, tipo := range tipos {
			row(tipo+":", fmt.Sprintf("%d", metricas.ComprasPorTipo[tipo]))
		}
		pdf.Ln(2)
	}

	// ── Daily product rollups ────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 7, "Resúmenes diarios de productos", "B", 1, "L", false, 0, "")
	pdf.Ln(1)

	col := contentW / 5
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col, 6, "Fecha", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col, 6, "Ventas", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col, 6, "Compras", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col, 6, "Ganancia", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col, 6, "Vendidos", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, r := range resumenes {
		pdf.CellFormat(col, 5, r.Fecha, "", 0, "L", false, 0, "")
		pdf.CellFormat(col, 5, "$"+r.TotalVentas.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col, 5, "$"+r.TotalCompras.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col, 5, "$"+r.Ganancia.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col, 5, fmt.Sprintf("%d", r.ProductosVendidos), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
