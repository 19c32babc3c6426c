package xlsx

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleResult() *dto.MenuCostResult {
	cost := d("100")
	unit := d("0.5")
	priced := d("200")
	pct := d("1.25")
	variance := d("26.75")
	return &dto.MenuCostResult{
		MenuID: "m-1", OutletID: "o-1", Name: "Boda", GuestCount: 100, MinGuestCount: 50,
		PricePerPerson: d("80"), TargetFoodCostPct: d("28"), TotalCost: d("100"), MenuCostPerGuest: d("1"),
		ActualFoodCostPct: &pct, VariancePct: &variance, TotalRevenue: d("8000"), GrossProfit: d("7900"),
		ItemCosts: []dto.MenuItemCostDTO{{
			MenuItemID: "i-1", Name: "Postre", Cost: d("100"),
			PrepItems: []dto.PrepItemCostDTO{
				{PrepItemID: "p-1", Name: "Chocolate", Mode: "per_person", RequiredQuantity: d("200"), Unit: "oz",
					PricedQuantity: &priced, PricedUnit: "oz", UnitCost: &unit, Cost: &cost, SourceDistributorProductID: "p-choc"},
				{PrepItemID: "p-2", Name: "Flores", Mode: "fixed", RequiredQuantity: d("1"), Unit: "ea", Warning: "sin precio"},
			},
		}},
		Warnings: []string{"Postre / Flores: sin precio"},
		AsOf:     time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
}

func TestGenerateMenuSheet_ContenidoLegible(t *testing.T) {
	data, err := NewMenuSheetGenerator().GenerateMenuSheet(context.Background(), sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Boda", name)

	guests, _ := f.GetCellValue(summarySheet, "B3")
	assert.Equal(t, "100", guests)

	header, _ := f.GetCellValue(summarySheet, "A17")
	assert.Equal(t, "Plato", header)

	prep, _ := f.GetCellValue(summarySheet, "B18")
	assert.Equal(t, "Chocolate", prep)
	lineCost, _ := f.GetCellValue(summarySheet, "I18")
	assert.Equal(t, "100", lineCost)

	unpriced, _ := f.GetCellValue(summarySheet, "I19")
	assert.Equal(t, "", unpriced)

	subtotal, _ := f.GetCellValue(summarySheet, "A20")
	assert.Equal(t, "Subtotal Postre", subtotal)

	warning, _ := f.GetCellValue(warningsSheet, "A1")
	assert.Equal(t, "Postre / Flores: sin precio", warning)
}

func TestGenerateMenuSheet_SinAdvertenciasNoCreaHoja(t *testing.T) {
	r := sampleResult()
	r.Warnings = nil

	data, err := NewMenuSheetGenerator().GenerateMenuSheet(context.Background(), r)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{summarySheet}, f.GetSheetList())
}

func TestGenerateMenuSheet_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMenuSheetGenerator().GenerateMenuSheet(ctx, sampleResult())
	assert.ErrorIs(t, err, context.Canceled)
}
