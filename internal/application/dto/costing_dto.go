package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Escalas de redondeo para la salida: dinero y cantidades a 4 decimales, porcentajes a 2.
const (
	MoneyScale = 4
	PctScale   = 2
)

// Los montos y porcentajes viajan como números JSON, no como strings.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Money redondea un monto a MoneyScale decimales.
func Money(d decimal.Decimal) decimal.Decimal { return d.Round(MoneyScale) }

// Pct redondea un porcentaje a PctScale decimales.
func Pct(d decimal.Decimal) decimal.Decimal { return d.Round(PctScale) }

// MoneyPtr redondea conservando nil.
func MoneyPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := Money(*d)
	return &v
}

// PctPtr redondea conservando nil.
func PctPtr(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := Pct(*d)
	return &v
}

// RecipeLineDTO línea de receta costeada.
type RecipeLineDTO struct {
	RecipeIngredientID         string           `json:"recipe_ingredient_id"`
	Position                   int              `json:"position"`
	Kind                       string           `json:"kind"` // ingredient | recipe | invalid
	RefID                      string           `json:"ref_id"`
	Name                       string           `json:"name"`
	Quantity                   decimal.Decimal  `json:"quantity"`
	Unit                       string           `json:"unit"`
	YieldLossPct               decimal.Decimal  `json:"yield_loss_pct"`
	PurchaseQuantity           *decimal.Decimal `json:"purchase_quantity"`
	PricedUnit                 string           `json:"priced_unit,omitempty"`
	UnitCost                   *decimal.Decimal `json:"unit_cost"`
	LineCost                   *decimal.Decimal `json:"line_cost"`
	SourceDistributorProductID string           `json:"source_distributor_product_id,omitempty"`
	Warning                    string           `json:"warning,omitempty"`
}

// RecipeCostResult respuesta de GET /api/recipes/:id/cost.
type RecipeCostResult struct {
	RecipeID       string           `json:"recipe_id"`
	OutletID       string           `json:"outlet_id"`
	Name           string           `json:"name"`
	YieldQuantity  decimal.Decimal  `json:"yield_quantity"`
	YieldUnit      string           `json:"yield_unit"`
	TotalCost      *decimal.Decimal `json:"total_cost"`
	CostPerServing *decimal.Decimal `json:"cost_per_serving"`
	LineItems      []RecipeLineDTO  `json:"line_items"`
	Warnings       []string         `json:"warnings"`
	AsOf           time.Time        `json:"as_of"`
}

// AllergenProfileResponse respuesta de GET /api/recipes/:id/allergens.
type AllergenProfileResponse struct {
	RecipeID   string   `json:"recipe_id"`
	Allergens  []string `json:"allergens"`
	Vegan      bool     `json:"vegan"`
	Vegetarian bool     `json:"vegetarian"`
}

// PrepItemCostDTO prep item costeado.
type PrepItemCostDTO struct {
	PrepItemID                 string           `json:"prep_item_id"`
	Name                       string           `json:"name"`
	Mode                       string           `json:"mode"`
	LinkKind                   string           `json:"link_kind"`
	LinkID                     string           `json:"link_id,omitempty"`
	RequiredQuantity           decimal.Decimal  `json:"required_quantity"`
	Unit                       string           `json:"unit"`
	PricedQuantity             *decimal.Decimal `json:"priced_quantity"`
	PricedUnit                 string           `json:"priced_unit,omitempty"`
	UnitCost                   *decimal.Decimal `json:"unit_cost"`
	Cost                       *decimal.Decimal `json:"cost"`
	SourceDistributorProductID string           `json:"source_distributor_product_id,omitempty"`
	Unlinked                   bool             `json:"unlinked"`
	Warning                    string           `json:"warning,omitempty"`
}

// MenuItemCostDTO plato del menú con su desglose.
type MenuItemCostDTO struct {
	MenuItemID string            `json:"menu_item_id"`
	Name       string            `json:"name"`
	Cost       decimal.Decimal   `json:"cost"`
	PrepItems  []PrepItemCostDTO `json:"prep_items"`
}

// MenuCostResult respuesta de GET /api/menus/:id/cost.
type MenuCostResult struct {
	MenuID            string            `json:"menu_id"`
	OutletID          string            `json:"outlet_id"`
	Name              string            `json:"name"`
	GuestCount        int               `json:"guest_count"`
	MinGuestCount     int               `json:"min_guest_count"`
	PricePerPerson    decimal.Decimal   `json:"price_per_person"`
	TargetFoodCostPct decimal.Decimal   `json:"target_food_cost_pct"`
	TotalCost         decimal.Decimal   `json:"total_cost"`
	MenuCostPerGuest  decimal.Decimal   `json:"menu_cost_per_guest"`
	ActualFoodCostPct *decimal.Decimal  `json:"actual_food_cost_pct"`
	VariancePct       *decimal.Decimal  `json:"variance_pct"`
	BelowMinimum      bool              `json:"below_minimum"`
	SurchargeTotal    decimal.Decimal   `json:"surcharge_total"`
	TotalRevenue      decimal.Decimal   `json:"total_revenue"`
	GrossProfit       decimal.Decimal   `json:"gross_profit"`
	ItemCosts         []MenuItemCostDTO `json:"item_costs"`
	Warnings          []string          `json:"warnings"`
	AsOf              time.Time         `json:"as_of"`
}
