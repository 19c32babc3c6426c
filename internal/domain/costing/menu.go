package costing

import (
	"fmt"
	"strconv"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/pricing"
	"github.com/jhoicas/costeo-api/internal/domain/units"
	"github.com/shopspring/decimal"
)

// PrepItemCost costo de un prep item. Cost nil = no se pudo costear (contribuye 0, ver Warning).
type PrepItemCost struct {
	PrepItemID                 string
	Name                       string
	Mode                       entity.AmountMode
	Link                       entity.PrepLink
	RequiredQuantity           decimal.Decimal
	Unit                       string
	PricedQuantity             *decimal.Decimal
	PricedUnit                 string
	UnitCost                   *decimal.Decimal
	Cost                       *decimal.Decimal
	SourceDistributorProductID string
	Unlinked                   bool
	Warning                    string
}

// MenuItemCost suma de los prep items de un plato.
type MenuItemCost struct {
	MenuItemID string
	Name       string
	Cost       decimal.Decimal
	PrepItems  []PrepItemCost
}

// MenuCost economía del menú para una cantidad de invitados.
// SurchargeTotal forma parte del ingreso, nunca del costo por invitado.
type MenuCost struct {
	MenuID            string
	OutletID          string
	Name              string
	GuestCount        int
	MinGuestCount     int
	PricePerPerson    decimal.Decimal
	TargetFoodCostPct decimal.Decimal
	TotalCost         decimal.Decimal
	MenuCostPerGuest  decimal.Decimal
	ActualFoodCostPct *decimal.Decimal
	VariancePct       *decimal.Decimal // positivo = bajo presupuesto
	BelowMinimum      bool
	SurchargeTotal    decimal.Decimal
	TotalRevenue      decimal.Decimal
	GrossProfit       decimal.Decimal
	ItemCosts         []MenuItemCost
	Warnings          []string
}

// CostMenu calcula costos por prep item, costo por invitado, % de costo de alimentos, varianza y recargo.
// Los precios se resuelven en el outlet del menú.
func (c *Calculator) CostMenu(snap *Snapshot, menu *entity.BanquetMenu, guestCount int) (*MenuCost, error) {
	if guestCount <= 0 {
		return nil, &domain.InvalidYieldError{Entity: "menu", ID: menu.ID, Value: strconv.Itoa(guestCount)}
	}
	guests := decimal.NewFromInt(int64(guestCount))
	run := c.newRecipeRun(snap, menu.OutletID)

	out := &MenuCost{
		MenuID:            menu.ID,
		OutletID:          menu.OutletID,
		Name:              menu.Name,
		GuestCount:        guestCount,
		MinGuestCount:     menu.MinGuestCount,
		PricePerPerson:    menu.PricePerPerson,
		TargetFoodCostPct: menu.TargetFoodCostPct,
		ItemCosts:         make([]MenuItemCost, 0, len(menu.Items)),
		Warnings:          []string{},
	}
	total := decimal.Zero

	for _, item := range menu.Items {
		ic := MenuItemCost{MenuItemID: item.ID, Name: item.Name, Cost: decimal.Zero, PrepItems: make([]PrepItemCost, 0, len(item.PrepItems))}
		for _, prep := range item.PrepItems {
			pc, nested, err := run.costPrepItem(menu, prep, guests)
			if err != nil {
				return nil, err
			}
			if pc.Cost != nil {
				ic.Cost = ic.Cost.Add(*pc.Cost)
			}
			if pc.Warning != "" {
				out.Warnings = append(out.Warnings, fmt.Sprintf("%s / %s: %s", item.Name, pc.Name, pc.Warning))
			}
			out.Warnings = append(out.Warnings, nested...)
			ic.PrepItems = append(ic.PrepItems, pc)
		}
		total = total.Add(ic.Cost)
		out.ItemCosts = append(out.ItemCosts, ic)
	}

	out.TotalCost = total
	out.MenuCostPerGuest = total.Div(guests)
	if menu.PricePerPerson.IsPositive() {
		actual := out.MenuCostPerGuest.Div(menu.PricePerPerson).Mul(hundred)
		variance := menu.TargetFoodCostPct.Sub(actual)
		out.ActualFoodCostPct = &actual
		out.VariancePct = &variance
	} else {
		out.Warnings = append(out.Warnings, "precio por persona no configurado: sin % de costo de alimentos")
	}

	out.SurchargeTotal = Surcharge(menu, guestCount)
	out.BelowMinimum = guestCount < menu.MinGuestCount
	out.TotalRevenue = menu.PricePerPerson.Mul(guests).Add(out.SurchargeTotal)
	out.GrossProfit = out.TotalRevenue.Sub(total)
	return out, nil
}

// Surcharge recargo total por no alcanzar el mínimo de invitados.
func Surcharge(menu *entity.BanquetMenu, guestCount int) decimal.Decimal {
	if guestCount >= menu.MinGuestCount || guestCount <= 0 {
		return decimal.Zero
	}
	return menu.UnderMinSurcharge.Mul(decimal.NewFromInt(int64(guestCount)))
}

// RequiredQuantity cantidad requerida según el modo. Devuelve cantidad y unidad.
func RequiredQuantity(prep entity.PrepItem, guests decimal.Decimal) (decimal.Decimal, string, error) {
	switch prep.Mode {
	case entity.AmountPerPerson:
		ratio := prep.GuestsPerAmount
		if !ratio.IsPositive() {
			ratio = decimal.NewFromInt(1)
		}
		return prep.AmountPerGuest.Mul(guests).Div(ratio), prep.Unit, nil
	case entity.AmountAtMinimum, entity.AmountFixed:
		return prep.BaseAmount, prep.Unit, nil
	case entity.AmountVessel:
		if prep.Vessel == nil {
			return decimal.Zero, prep.Unit, fmt.Errorf("prep item %s sin recipiente definido: %w", prep.ID, domain.ErrInvalidInput)
		}
		return prep.VesselCount.Mul(prep.Vessel.Capacity), prep.Vessel.Unit, nil
	default:
		return decimal.Zero, prep.Unit, fmt.Errorf("modo de cantidad %q: %w", prep.Mode, domain.ErrInvalidInput)
	}
}

func (r *recipeRun) costPrepItem(menu *entity.BanquetMenu, prep entity.PrepItem, guests decimal.Decimal) (PrepItemCost, []string, error) {
	pc := PrepItemCost{
		PrepItemID: prep.ID,
		Name:       prep.Name,
		Mode:       prep.Mode,
		Link:       prep.Link,
		Unit:       prep.Unit,
	}

	if prep.Link.Kind == entity.LinkInvalid {
		return pc, nil, &domain.AmbiguousReferenceError{Entity: "prep_item", ID: prep.ID, ParentID: menu.ID}
	}

	qty, unit, err := RequiredQuantity(prep, guests)
	if err != nil {
		if prep.Mode == entity.AmountVessel {
			pc.Warning = err.Error()
			if prep.Link.Kind == entity.LinkNone {
				pc.Unlinked = true
				pc.Cost = zeroCost()
			}
			return pc, nil, nil
		}
		return pc, nil, err
	}
	pc.RequiredQuantity = qty
	pc.Unit = unit

	switch prep.Link.Kind {
	case entity.LinkNone:
		pc.Unlinked = true
		pc.Cost = zeroCost()
		pc.Warning = "prep item sin enlace: costo 0"
		return pc, nil, nil
	case entity.LinkCanonicalIngredient:
		ing, ok := r.snap.Ingredients[prep.Link.ID]
		if !ok {
			pc.Warning = fmt.Sprintf("ingrediente %s no encontrado", prep.Link.ID)
			return pc, nil, nil
		}
		res, err := r.snap.Prices.ResolvePrice(ing.ID, r.outletID)
		r.priceQuantity(&pc, res, err, ing.DensityGPerML)
		return pc, nil, nil
	case entity.LinkDistributorProduct:
		res, err := r.snap.Prices.ResolveProductPrice(prep.Link.ID, r.outletID)
		r.priceQuantity(&pc, res, err, r.productDensity(prep.Link.ID))
		return pc, nil, nil
	case entity.LinkRecipe:
		return r.costPrepRecipe(pc)
	default:
		return pc, nil, &domain.AmbiguousReferenceError{Entity: "prep_item", ID: prep.ID, ParentID: menu.ID}
	}
}

func (r *recipeRun) priceQuantity(pc *PrepItemCost, res pricing.Resolution, err error, density *decimal.Decimal) {
	if err != nil {
		pc.Warning = err.Error()
		return
	}
	unitCost := res.UnitPrice
	pc.UnitCost = &unitCost
	pc.PricedUnit = res.Unit
	pc.SourceDistributorProductID = res.SourceDistributorProductID
	priced, err := units.Convert(pc.RequiredQuantity, pc.Unit, res.Unit, density)
	if err != nil {
		pc.Warning = err.Error()
		return
	}
	cost := priced.Mul(res.UnitPrice)
	pc.PricedQuantity = &priced
	pc.Cost = &cost
}

// productDensity densidad del ingrediente canónico al que mapea el producto, si existe.
func (r *recipeRun) productDensity(productID string) *decimal.Decimal {
	p, ok := r.snap.Prices.Product(productID)
	if !ok || p.CanonicalIngredientID == nil {
		return nil
	}
	if ing, ok := r.snap.Ingredients[*p.CanonicalIngredientID]; ok {
		return ing.DensityGPerML
	}
	return nil
}

func (r *recipeRun) costPrepRecipe(pc PrepItemCost) (PrepItemCost, []string, error) {
	recipe, ok := r.snap.Recipes[pc.Link.ID]
	if !ok {
		pc.Warning = fmt.Sprintf("receta %s no encontrada", pc.Link.ID)
		return pc, nil, nil
	}
	rc, _, err := r.cost(recipe.ID, nil)
	if err != nil {
		return pc, nil, err
	}
	nested := make([]string, 0, len(rc.Warnings))
	for _, w := range rc.Warnings {
		nested = append(nested, recipe.Name+" > "+w)
	}
	if rc.CostPerServing == nil {
		pc.Warning = fmt.Sprintf("receta %s sin costo calculable", recipe.Name)
		return pc, nested, nil
	}
	perServing := *rc.CostPerServing
	pc.UnitCost = &perServing
	pc.PricedUnit = servingUnit(recipe)

	servings, err := Servings(pc.RequiredQuantity, pc.Unit, recipe)
	if err != nil {
		pc.Warning = err.Error()
		return pc, nested, nil
	}
	cost := perServing.Mul(servings)
	pc.PricedQuantity = &servings
	pc.Cost = &cost
	return pc, nested, nil
}

func zeroCost() *decimal.Decimal {
	z := decimal.Zero
	return &z
}
