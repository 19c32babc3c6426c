// Package xlsx genera la hoja de costeo de eventos (menús de banquete) en formato Excel.
package xlsx

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jhoicas/costeo-api/internal/application/costing"
	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var _ costing.MenuSheetGenerator = (*MenuSheetGenerator)(nil)

const (
	summarySheet  = "Costeo"
	warningsSheet = "Advertencias"
)

var detailHeaders = []string{
	"Plato", "Prep item", "Modo", "Cantidad", "Unidad", "Cant. costeada", "Unidad precio",
	"Costo unitario", "Costo", "Producto origen", "Advertencia",
}

// MenuSheetGenerator implementa costing.MenuSheetGenerator con excelize.
type MenuSheetGenerator struct{}

// NewMenuSheetGenerator construye el generador.
func NewMenuSheetGenerator() *MenuSheetGenerator {
	return &MenuSheetGenerator{}
}

// GenerateMenuSheet escribe resumen económico, desglose por prep item y advertencias.
func (g *MenuSheetGenerator) GenerateMenuSheet(ctx context.Context, r *dto.MenuCostResult) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	summary := [][2]any{
		{"Menú", r.Name},
		{"Outlet", r.OutletID},
		{"Invitados", r.GuestCount},
		{"Mínimo de invitados", r.MinGuestCount},
		{"Precio por persona", num(r.PricePerPerson)},
		{"Costo total", num(r.TotalCost)},
		{"Costo por invitado", num(r.MenuCostPerGuest)},
		{"% costo objetivo", num(r.TargetFoodCostPct)},
		{"% costo real", numPtr(r.ActualFoodCostPct)},
		{"Varianza (pp)", numPtr(r.VariancePct)},
		{"Bajo el mínimo", siNo(r.BelowMinimum)},
		{"Recargo", num(r.SurchargeTotal)},
		{"Ingreso total", num(r.TotalRevenue)},
		{"Utilidad bruta", num(r.GrossProfit)},
		{"Precios vigentes a", r.AsOf.Format("2006-01-02 15:04 MST")},
	}
	for i, kv := range summary {
		row := i + 1
		cell := fmt.Sprintf("A%d", row)
		_ = f.SetCellValue(summarySheet, cell, kv[0])
		_ = f.SetCellStyle(summarySheet, cell, cell, bold)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), kv[1])
	}

	header := len(summary) + 2
	for i, h := range detailHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s%d", col, header)
		_ = f.SetCellValue(summarySheet, cell, h)
		_ = f.SetCellStyle(summarySheet, cell, cell, bold)
	}
	row := header + 1
	for _, item := range r.ItemCosts {
		for _, p := range item.PrepItems {
			values := []any{
				item.Name, p.Name, p.Mode, num(p.RequiredQuantity), p.Unit, numPtr(p.PricedQuantity), p.PricedUnit,
				numPtr(p.UnitCost), numPtr(p.Cost), p.SourceDistributorProductID, p.Warning,
			}
			if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &values); err != nil {
				return nil, fmt.Errorf("xlsx: fila %d: %w", row, err)
			}
			row++
		}
		subtotal := fmt.Sprintf("A%d", row)
		_ = f.SetCellValue(summarySheet, subtotal, "Subtotal "+item.Name)
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("I%d", row), num(item.Cost))
		_ = f.SetCellStyle(summarySheet, subtotal, fmt.Sprintf("K%d", row), bold)
		row++
	}

	widths := []float64{22, 22, 12, 12, 8, 14, 12, 14, 12, 20, 40}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(summarySheet, col, col, w)
	}

	if len(r.Warnings) > 0 {
		if _, err := f.NewSheet(warningsSheet); err != nil {
			return nil, fmt.Errorf("xlsx: hoja de advertencias: %w", err)
		}
		_ = f.SetColWidth(warningsSheet, "A", "A", 100)
		for i, w := range r.Warnings {
			_ = f.SetCellValue(warningsSheet, fmt.Sprintf("A%d", i+1), w)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func num(d decimal.Decimal) float64 { return d.InexactFloat64() }

// numPtr celda vacía para valores no calculables.
func numPtr(d *decimal.Decimal) any {
	if d == nil {
		return ""
	}
	return d.InexactFloat64()
}

func siNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
