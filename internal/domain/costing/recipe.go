package costing

import (
	"fmt"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/units"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem costo de una línea de receta, en el orden declarado en la receta.
// UnitCost y LineCost son nil cuando la línea no se pudo costear (ver Warning).
type LineItem struct {
	RecipeIngredientID         string
	Position                   int
	Ref                        entity.IngredientRef
	Name                       string
	Quantity                   decimal.Decimal
	Unit                       string
	YieldLossPct               decimal.Decimal
	PurchaseQuantity           *decimal.Decimal // cantidad a comprar en la unidad del precio (o porciones de sub-receta)
	PricedUnit                 string
	UnitCost                   *decimal.Decimal
	LineCost                   *decimal.Decimal
	SourceDistributorProductID string
	Warning                    string
}

// RecipeCost resultado del costeo de una receta en un outlet.
// TotalCost es nil solo si la receta tiene líneas y ninguna pudo costearse.
type RecipeCost struct {
	RecipeID       string
	OutletID       string
	Name           string
	YieldQuantity  decimal.Decimal
	YieldUnit      string
	TotalCost      *decimal.Decimal
	CostPerServing *decimal.Decimal
	LineItems      []LineItem
	Warnings       []string
}

// CostRecipe costea recursivamente la receta en el outlet indicado.
// Fallos de precio o de unidades por línea quedan como advertencias; ciclos, rendimientos inválidos,
// referencias ambiguas y exceso de profundidad abortan el cálculo.
func (c *Calculator) CostRecipe(snap *Snapshot, recipeID, outletID string) (*RecipeCost, error) {
	run := c.newRecipeRun(snap, outletID)
	res, _, err := run.cost(recipeID, nil)
	if err != nil {
		return nil, err
	}
	return res, nil
}

type recipeMemo struct {
	cost   *RecipeCost
	height int
}

// recipeRun estado de una sola llamada top-level (memo de sub-recetas ya costeadas).
type recipeRun struct {
	calc     *Calculator
	snap     *Snapshot
	outletID string
	memo     map[string]recipeMemo
}

func (c *Calculator) newRecipeRun(snap *Snapshot, outletID string) *recipeRun {
	return &recipeRun{calc: c, snap: snap, outletID: outletID, memo: make(map[string]recipeMemo)}
}

// cost devuelve el costo de la receta y la altura de su subárbol de sub-recetas.
func (r *recipeRun) cost(recipeID string, path []string) (*RecipeCost, int, error) {
	if m, ok := r.memo[recipeID]; ok {
		if err := r.calc.fits(path, recipeID, m.height); err != nil {
			return nil, 0, err
		}
		return m.cost, m.height, nil
	}
	here, err := r.calc.enter(path, recipeID)
	if err != nil {
		return nil, 0, err
	}
	recipe, ok := r.snap.Recipes[recipeID]
	if !ok {
		return nil, 0, fmt.Errorf("receta %s: %w", recipeID, domain.ErrNotFound)
	}
	if !recipe.YieldQuantity.IsPositive() {
		return nil, 0, &domain.InvalidYieldError{Entity: "recipe", ID: recipe.ID, Value: recipe.YieldQuantity.String()}
	}

	result := &RecipeCost{
		RecipeID:      recipe.ID,
		OutletID:      r.outletID,
		Name:          recipe.Name,
		YieldQuantity: recipe.YieldQuantity,
		YieldUnit:     recipe.YieldUnit,
		LineItems:     make([]LineItem, 0, len(recipe.Ingredients)),
		Warnings:      []string{},
	}
	height := 1
	total := decimal.Zero
	priced := 0

	for i, line := range recipe.Ingredients {
		item := LineItem{
			RecipeIngredientID: line.ID,
			Position:           i + 1,
			Ref:                line.Ref,
			Quantity:           line.Quantity,
			Unit:               line.Unit,
			YieldLossPct:       line.YieldLossPct,
		}
		var nested []string
		switch line.Ref.Kind {
		case entity.RefCanonicalIngredient:
			r.costIngredientLine(&item, line)
		case entity.RefSubRecipe:
			h, warnings, err := r.costSubRecipeLine(&item, line, here)
			if err != nil {
				return nil, 0, err
			}
			if h+1 > height {
				height = h + 1
			}
			nested = warnings
		default:
			return nil, 0, &domain.AmbiguousReferenceError{Entity: "recipe_ingredient", ID: line.ID, ParentID: recipe.ID}
		}

		if item.LineCost != nil {
			total = total.Add(*item.LineCost)
			priced++
		}
		if item.Warning != "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("línea %d (%s): %s", item.Position, item.Name, item.Warning))
		}
		result.Warnings = append(result.Warnings, nested...)
		result.LineItems = append(result.LineItems, item)
	}

	if priced > 0 || len(recipe.Ingredients) == 0 {
		perServing := total.Div(recipe.YieldQuantity)
		result.TotalCost = &total
		result.CostPerServing = &perServing
	}

	r.memo[recipeID] = recipeMemo{cost: result, height: height}
	return result, height, nil
}

func (r *recipeRun) costIngredientLine(item *LineItem, line entity.RecipeIngredient) {
	ing, ok := r.snap.Ingredients[line.Ref.ID]
	if !ok {
		item.Name = line.Ref.ID
		item.Warning = fmt.Sprintf("ingrediente %s no encontrado", line.Ref.ID)
		return
	}
	item.Name = ing.Name

	res, err := r.snap.Prices.ResolvePrice(ing.ID, r.outletID)
	if err != nil {
		item.Warning = err.Error()
		return
	}
	item.PricedUnit = res.Unit
	item.SourceDistributorProductID = res.SourceDistributorProductID
	unitCost := res.UnitPrice
	item.UnitCost = &unitCost

	qty, err := units.Convert(line.Quantity, line.Unit, res.Unit, ing.DensityGPerML)
	if err != nil {
		item.Warning = err.Error()
		return
	}
	purchase, err := applyYieldLoss(qty, line.YieldLossPct)
	if err != nil {
		item.Warning = err.Error()
		return
	}
	lineCost := purchase.Mul(res.UnitPrice)
	item.PurchaseQuantity = &purchase
	item.LineCost = &lineCost
}

func (r *recipeRun) costSubRecipeLine(item *LineItem, line entity.RecipeIngredient, path []string) (int, []string, error) {
	sub, ok := r.snap.Recipes[line.Ref.ID]
	if !ok {
		// La referencia a sí misma o a un ancestro se reporta como ciclo aunque falten datos.
		if _, err := r.calc.enter(path, line.Ref.ID); err != nil {
			return 0, nil, err
		}
		item.Name = line.Ref.ID
		item.Warning = fmt.Sprintf("sub-receta %s no encontrada", line.Ref.ID)
		return 0, nil, nil
	}
	item.Name = sub.Name

	subCost, height, err := r.cost(sub.ID, path)
	if err != nil {
		return 0, nil, err
	}
	nested := make([]string, 0, len(subCost.Warnings))
	for _, w := range subCost.Warnings {
		nested = append(nested, sub.Name+" > "+w)
	}

	if subCost.CostPerServing == nil {
		item.Warning = fmt.Sprintf("sub-receta %s sin costo calculable", sub.Name)
		return height, nested, nil
	}
	perServing := *subCost.CostPerServing
	item.UnitCost = &perServing
	item.PricedUnit = servingUnit(sub)

	servings, err := Servings(line.Quantity, line.Unit, sub)
	if err != nil {
		item.Warning = err.Error()
		return height, nested, nil
	}
	// La merma de la línea aplica también a porciones de sub-receta.
	servings, err = applyYieldLoss(servings, line.YieldLossPct)
	if err != nil {
		item.Warning = err.Error()
		return height, nested, nil
	}
	lineCost := perServing.Mul(servings)
	item.PurchaseQuantity = &servings
	item.LineCost = &lineCost
	return height, nested, nil
}

// applyYieldLoss infla la cantidad por la merma: qty / (1 - pct/100). pct debe estar en [0, 100).
func applyYieldLoss(qty, pct decimal.Decimal) (decimal.Decimal, error) {
	if pct.IsZero() {
		return qty, nil
	}
	if pct.IsNegative() || pct.GreaterThanOrEqual(hundred) {
		return decimal.Zero, fmt.Errorf("porcentaje de merma inválido %s: %w", pct, domain.ErrInvalidInput)
	}
	return qty.Div(decimal.NewFromInt(1).Sub(pct.Div(hundred))), nil
}

var (
	servingWords = map[string]bool{
		"": true, "serving": true, "servings": true, "portion": true, "portions": true,
		"porcion": true, "porciones": true, "racion": true, "raciones": true,
	}
	batchWords = map[string]bool{
		"batch": true, "batches": true, "lote": true, "lotes": true,
		"recipe": true, "recipes": true, "receta": true, "recetas": true,
	}
)

// Servings porciones (unidades de rendimiento) de la sub-receta que consume una cantidad.
// Vacío o "porción" = porciones directas; "lote"/"batch" = múltiplos del rendimiento completo;
// cualquier otra unidad se convierte a la unidad de rendimiento de la receta.
func Servings(qty decimal.Decimal, unit string, recipe *entity.Recipe) (decimal.Decimal, error) {
	key := units.Fold(unit)
	switch {
	case servingWords[key]:
		return qty, nil
	case batchWords[key]:
		return qty.Mul(recipe.YieldQuantity), nil
	default:
		return units.Convert(qty, unit, recipe.YieldUnit, nil)
	}
}

func servingUnit(r *entity.Recipe) string {
	if r.YieldUnit != "" {
		return r.YieldUnit
	}
	return "serving"
}
