package costing_test

import (
	"time"

	"github.com/jhoicas/costeo-api/internal/domain/costing"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

const (
	outletA = "outlet-a"
	outletB = "outlet-b"
)

var priceDay = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// catalogBuilder arma productos y precios por outlet.
type catalogBuilder struct {
	products []*entity.DistributorProduct
	records  []*entity.PriceRecord
}

func (b *catalogBuilder) price(outletID, ingredientID, unit, unitPrice string) *catalogBuilder {
	id := outletID + ":" + ingredientID
	ing := ingredientID
	b.products = append(b.products, &entity.DistributorProduct{
		ID: id, OutletID: outletID, Unit: unit, PackSize: decimal.NewFromInt(1), CanonicalIngredientID: &ing,
	})
	b.records = append(b.records, &entity.PriceRecord{
		ID: "rec-" + id, DistributorProductID: id, OutletID: outletID, UnitPrice: dp(unitPrice), EffectiveAt: priceDay, CreatedAt: priceDay,
	})
	return b
}

func (b *catalogBuilder) product(id, outletID, unit, unitPrice string) *catalogBuilder {
	b.products = append(b.products, &entity.DistributorProduct{ID: id, OutletID: outletID, Unit: unit, PackSize: decimal.NewFromInt(1)})
	b.records = append(b.records, &entity.PriceRecord{
		ID: "rec-" + id, DistributorProductID: id, OutletID: outletID, UnitPrice: dp(unitPrice), EffectiveAt: priceDay, CreatedAt: priceDay,
	})
	return b
}

func (b *catalogBuilder) build() *pricing.Catalog {
	return pricing.NewCatalog(priceDay.Add(time.Hour), b.products, b.records)
}

func ingredient(id, name string) *entity.CanonicalIngredient {
	return &entity.CanonicalIngredient{ID: id, Name: name, Vegan: true, Vegetarian: true}
}

func ingLine(id, ingredientID, qty, unit string) entity.RecipeIngredient {
	return entity.RecipeIngredient{ID: id, Ref: entity.IngredientOf(ingredientID), Quantity: d(qty), Unit: unit}
}

func subLine(id, recipeID, qty, unit string) entity.RecipeIngredient {
	return entity.RecipeIngredient{ID: id, Ref: entity.SubRecipeOf(recipeID), Quantity: d(qty), Unit: unit}
}

func recipe(id, yield, yieldUnit string, lines ...entity.RecipeIngredient) *entity.Recipe {
	return &entity.Recipe{ID: id, OutletID: outletA, Name: id, YieldQuantity: d(yield), YieldUnit: yieldUnit, Ingredients: lines}
}

func snapshot(cat *pricing.Catalog, recipes []*entity.Recipe, ingredients ...*entity.CanonicalIngredient) *costing.Snapshot {
	return costing.NewSnapshot(cat, recipes, ingredients)
}
