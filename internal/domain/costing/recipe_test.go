package costing_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/costing"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func butterSnapshot(recipes ...*entity.Recipe) *costing.Snapshot {
	cat := (&catalogBuilder{}).
		price(outletA, "butter", "lb", "2.50").
		price(outletB, "butter", "lb", "3.50").
		build()
	return snapshot(cat, recipes, ingredient("butter", "Mantequilla"))
}

func TestCostRecipe_AislamientoPorOutlet(t *testing.T) {
	r := recipe("compound-butter", "1", "batch", ingLine("l1", "butter", "2", "lb"))
	snap := butterSnapshot(r)
	calc := costing.NewCalculator(0)

	a, err := calc.CostRecipe(snap, r.ID, outletA)
	require.NoError(t, err)
	b, err := calc.CostRecipe(snap, r.ID, outletB)
	require.NoError(t, err)

	require.NotNil(t, a.TotalCost)
	require.NotNil(t, b.TotalCost)
	assert.True(t, d("5.00").Equal(*a.TotalCost), "outlet A: %s", a.TotalCost)
	assert.True(t, d("7.00").Equal(*b.TotalCost), "outlet B: %s", b.TotalCost)
	assert.Empty(t, a.Warnings)
	assert.Equal(t, "outlet-a:butter", a.LineItems[0].SourceDistributorProductID)
}

func TestCostRecipe_ConsistenciaRecursiva(t *testing.T) {
	r1 := recipe("r1", "4", "porciones", ingLine("l1", "butter", "2", "lb"))
	r2 := recipe("r2", "1", "batch", subLine("l2", "r1", "1", "batch"))
	snap := butterSnapshot(r1, r2)
	calc := costing.NewCalculator(0)

	c1, err := calc.CostRecipe(snap, "r1", outletA)
	require.NoError(t, err)
	c2, err := calc.CostRecipe(snap, "r2", outletA)
	require.NoError(t, err)

	require.Len(t, c2.LineItems, 1)
	line := c2.LineItems[0]
	require.NotNil(t, line.LineCost)
	assert.True(t, c2.TotalCost.Equal(*line.LineCost))
	assert.True(t, c1.CostPerServing.Mul(r1.YieldQuantity).Equal(*line.LineCost))
	assert.True(t, d("1.25").Equal(*c1.CostPerServing))
	assert.Equal(t, entity.RefSubRecipe, line.Ref.Kind)
	assert.Equal(t, "porciones", line.PricedUnit)
}

func TestCostRecipe_SubRecetaPorUnidadDeRendimiento(t *testing.T) {
	sauce := recipe("sauce", "2", "kg", ingLine("l1", "butter", "2", "lb"))    // 5.00 por 2 kg
	dish := recipe("dish", "10", "plates", subLine("l2", "sauce", "500", "g")) // 0.5 kg
	calc := costing.NewCalculator(0)

	res, err := calc.CostRecipe(butterSnapshot(sauce, dish), "dish", outletA)
	require.NoError(t, err)
	assert.True(t, d("1.25").Equal(*res.TotalCost))
	assert.True(t, d("0.125").Equal(*res.CostPerServing))
	assert.True(t, d("0.5").Equal(*res.LineItems[0].PurchaseQuantity))
}

func TestCostRecipe_DeteccionDeCiclos(t *testing.T) {
	r1 := recipe("r1", "1", "", subLine("a", "r2", "1", ""))
	r2 := recipe("r2", "1", "", subLine("b", "r1", "1", ""))
	calc := costing.NewCalculator(0)

	_, err := calc.CostRecipe(butterSnapshot(r1, r2), "r1", outletA)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCyclicRecipe)

	var cyc *domain.CyclicRecipeError
	require.ErrorAs(t, err, &cyc)
	assert.Equal(t, []string{"r1", "r2", "r1"}, cyc.Chain)
	assert.Contains(t, err.Error(), "r1 -> r2 -> r1")
}

func TestCostRecipe_AutoReferencia(t *testing.T) {
	r := recipe("self", "1", "", ingLine("a", "butter", "1", "lb"), subLine("b", "self", "1", ""))
	_, err := costing.NewCalculator(0).CostRecipe(butterSnapshot(r), "self", outletA)
	assert.ErrorIs(t, err, domain.ErrCyclicRecipe)
}

func TestCostRecipe_LimiteDeProfundidad(t *testing.T) {
	var recipes []*entity.Recipe
	for i := 0; i < 5; i++ {
		if i == 4 {
			recipes = append(recipes, recipe(fmt.Sprintf("r%d", i), "1", "", ingLine("leaf", "butter", "1", "lb")))
			continue
		}
		recipes = append(recipes, recipe(fmt.Sprintf("r%d", i), "1", "", subLine("s", fmt.Sprintf("r%d", i+1), "1", "")))
	}
	snap := butterSnapshot(recipes...)

	_, err := costing.NewCalculator(3).CostRecipe(snap, "r0", outletA)
	assert.ErrorIs(t, err, domain.ErrRecursionTooDeep)

	res, err := costing.NewCalculator(5).CostRecipe(snap, "r0", outletA)
	require.NoError(t, err)
	assert.True(t, d("2.50").Equal(*res.TotalCost))
}

func TestCostRecipe_MemoRespetaProfundidad(t *testing.T) {
	// r0 usa "leafy" directo (profundidad 2) y a través de r1 -> r2 (profundidad 4).
	leafy := recipe("leafy", "1", "", ingLine("l", "butter", "1", "lb"))
	r2 := recipe("r2", "1", "", subLine("s", "leafy", "1", ""))
	r1 := recipe("r1", "1", "", subLine("s", "r2", "1", ""))
	r0 := recipe("r0", "1", "", subLine("a", "leafy", "1", ""), subLine("b", "r1", "1", ""))
	snap := butterSnapshot(leafy, r2, r1, r0)

	_, err := costing.NewCalculator(3).CostRecipe(snap, "r0", outletA)
	assert.ErrorIs(t, err, domain.ErrRecursionTooDeep)

	res, err := costing.NewCalculator(4).CostRecipe(snap, "r0", outletA)
	require.NoError(t, err)
	assert.True(t, d("5.00").Equal(*res.TotalCost))
}

func TestCostRecipe_Idempotente(t *testing.T) {
	r1 := recipe("r1", "3", "", ingLine("l1", "butter", "1", "lb"), ingLine("l2", "missing", "1", "lb"))
	r2 := recipe("r2", "7", "", subLine("s", "r1", "2", ""), ingLine("l3", "butter", "10", "oz"))
	snap := butterSnapshot(r1, r2)
	calc := costing.NewCalculator(0)

	first, err := calc.CostRecipe(snap, "r2", outletA)
	require.NoError(t, err)
	second, err := calc.CostRecipe(snap, "r2", outletA)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCostRecipe_ConcurrenciaSinInterferencia(t *testing.T) {
	r1 := recipe("r1", "1", "", ingLine("l1", "butter", "2", "lb"))
	r2 := recipe("r2", "1", "", subLine("s", "r1", "1", ""), subLine("t", "r1", "1", ""))
	snap := butterSnapshot(r1, r2)
	calc := costing.NewCalculator(0)

	var wg sync.WaitGroup
	results := make([]string, 20)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outlet := outletA
			if i%2 == 1 {
				outlet = outletB
			}
			res, err := calc.CostRecipe(snap, "r2", outlet)
			if err == nil {
				results[i] = res.TotalCost.String()
			}
		}(i)
	}
	wg.Wait()
	for i, got := range results {
		if i%2 == 0 {
			assert.Equal(t, "10", got)
		} else {
			assert.Equal(t, "14", got)
		}
	}
}

func TestCostRecipe_FallaParcialMarcada(t *testing.T) {
	cat := (&catalogBuilder{}).
		price(outletA, "flour", "kg", "1.20").
		price(outletA, "sugar", "kg", "2.00").
		build()
	r := recipe("cake", "8", "porciones",
		ingLine("l1", "flour", "500", "g"),
		ingLine("l2", "vanilla", "10", "ml"),
		ingLine("l3", "sugar", "250", "g"),
	)
	snap := snapshot(cat, []*entity.Recipe{r}, ingredient("flour", "Harina"), ingredient("sugar", "Azúcar"), ingredient("vanilla", "Vainilla"))

	res, err := costing.NewCalculator(0).CostRecipe(snap, "cake", outletA)
	require.NoError(t, err)
	require.NotNil(t, res.TotalCost)
	assert.True(t, d("1.10").Equal(*res.TotalCost), "total: %s", res.TotalCost)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "Vainilla")
	assert.Nil(t, res.LineItems[1].LineCost)
	assert.Nil(t, res.LineItems[1].UnitCost)

	// El orden de las líneas es el declarado, no por costo.
	assert.Equal(t, []string{"Harina", "Vainilla", "Azúcar"}, []string{res.LineItems[0].Name, res.LineItems[1].Name, res.LineItems[2].Name})
}

func TestCostRecipe_NingunaLineaCosteada(t *testing.T) {
	r := recipe("r", "2", "", ingLine("l1", "ghost", "1", "kg"))
	res, err := costing.NewCalculator(0).CostRecipe(butterSnapshot(r), "r", outletA)
	require.NoError(t, err)
	assert.Nil(t, res.TotalCost)
	assert.Nil(t, res.CostPerServing)
	assert.Len(t, res.Warnings, 1)
}

func TestCostRecipe_SubRecetaSinCostoPropagaAdvertencias(t *testing.T) {
	inner := recipe("inner", "1", "", ingLine("l1", "ghost", "1", "kg"))
	outer := recipe("outer", "1", "", subLine("s", "inner", "1", ""), ingLine("l2", "butter", "1", "lb"))
	res, err := costing.NewCalculator(0).CostRecipe(butterSnapshot(inner, outer), "outer", outletA)
	require.NoError(t, err)
	assert.True(t, d("2.50").Equal(*res.TotalCost))
	assert.Nil(t, res.LineItems[0].LineCost)
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0], "sin costo calculable")
	assert.Contains(t, res.Warnings[1], "inner > ")
}

func TestCostRecipe_ConversionYMerma(t *testing.T) {
	line := ingLine("l1", "butter", "8", "oz")
	line.YieldLossPct = d("20")
	r := recipe("r", "1", "", line, ingLine("l2", "butter", "1", "cup"))

	res, err := costing.NewCalculator(0).CostRecipe(butterSnapshot(r), "r", outletA)
	require.NoError(t, err)
	// 8 oz = 0.5 lb; con 20% de merma se compran 0.625 lb -> 1.5625
	assert.True(t, d("0.625").Equal(*res.LineItems[0].PurchaseQuantity))
	assert.True(t, d("1.5625").Equal(*res.LineItems[0].LineCost))
	// taza sin densidad: advertencia por unidades incompatibles
	assert.Nil(t, res.LineItems[1].LineCost)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "unidades incompatibles")
}

func TestCostRecipe_UnidadFueraDeTablaIgualAlPrecio(t *testing.T) {
	cat := (&catalogBuilder{}).price(outletA, "eggs", "case", "30").build()
	r := recipe("r", "1", "", ingLine("l1", "eggs", "2", "case"))
	snap := snapshot(cat, []*entity.Recipe{r}, ingredient("eggs", "Huevos"))

	res, err := costing.NewCalculator(0).CostRecipe(snap, "r", outletA)
	require.NoError(t, err)
	require.NotNil(t, res.TotalCost)
	assert.True(t, d("60").Equal(*res.TotalCost))
	assert.Empty(t, res.Warnings)
}

func TestCostRecipe_SubRecetaEnUnidadFueraDeTabla(t *testing.T) {
	lasagna := recipe("lasagna", "4", "pan", ingLine("l1", "butter", "2", "lb"))
	buffet := recipe("buffet", "1", "", subLine("s", "lasagna", "1", "pan"))

	res, err := costing.NewCalculator(0).CostRecipe(butterSnapshot(lasagna, buffet), "buffet", outletA)
	require.NoError(t, err)
	require.NotNil(t, res.TotalCost)
	// 5.00 por 4 bandejas -> 1.25 por bandeja
	assert.True(t, d("1.25").Equal(*res.TotalCost))
	assert.Empty(t, res.Warnings)
}

func TestCostRecipe_ErroresEstructurales(t *testing.T) {
	calc := costing.NewCalculator(0)

	t.Run("rendimiento cero", func(t *testing.T) {
		r := recipe("r", "0", "", ingLine("l1", "butter", "1", "lb"))
		_, err := calc.CostRecipe(butterSnapshot(r), "r", outletA)
		assert.ErrorIs(t, err, domain.ErrInvalidYield)
	})
	t.Run("referencia ambigua", func(t *testing.T) {
		r := recipe("r", "1", "", entity.RecipeIngredient{ID: "bad", Ref: entity.IngredientRef{Kind: entity.RefInvalid}, Quantity: d("1")})
		_, err := calc.CostRecipe(butterSnapshot(r), "r", outletA)
		assert.ErrorIs(t, err, domain.ErrAmbiguousReference)
	})
	t.Run("sub-receta con rendimiento inválido aborta al padre", func(t *testing.T) {
		inner := recipe("inner", "-1", "", ingLine("l1", "butter", "1", "lb"))
		outer := recipe("outer", "1", "", subLine("s", "inner", "1", ""))
		_, err := calc.CostRecipe(butterSnapshot(inner, outer), "outer", outletA)
		assert.ErrorIs(t, err, domain.ErrInvalidYield)
	})
	t.Run("receta inexistente", func(t *testing.T) {
		_, err := calc.CostRecipe(butterSnapshot(), "nope", outletA)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServings(t *testing.T) {
	r := recipe("stock", "4", "l")
	cases := []struct {
		qty, unit, want string
	}{
		{"2", "", "2"},
		{"3", "porciones", "3"},
		{"1", "Lote", "4"},
		{"500", "ml", "0.5"},
	}
	for _, tc := range cases {
		got, err := costing.Servings(d(tc.qty), tc.unit, r)
		require.NoError(t, err)
		assert.True(t, d(tc.want).Equal(got), "%s %s => %s", tc.qty, tc.unit, got)
	}
	_, err := costing.Servings(d("1"), "kg", r)
	assert.ErrorIs(t, err, domain.ErrIncompatibleUnits)

	got, err := costing.Servings(d("1"), "pan", recipe("lasagna", "4", "pan"))
	require.NoError(t, err)
	assert.True(t, d("1").Equal(got))
}
