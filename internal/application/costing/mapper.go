package costing

import (
	"time"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	domaincosting "github.com/jhoicas/costeo-api/internal/domain/costing"
)

func toRecipeCostResult(r *domaincosting.RecipeCost, asOf time.Time) *dto.RecipeCostResult {
	out := &dto.RecipeCostResult{
		RecipeID:       r.RecipeID,
		OutletID:       r.OutletID,
		Name:           r.Name,
		YieldQuantity:  r.YieldQuantity,
		YieldUnit:      r.YieldUnit,
		TotalCost:      dto.MoneyPtr(r.TotalCost),
		CostPerServing: dto.MoneyPtr(r.CostPerServing),
		LineItems:      make([]dto.RecipeLineDTO, 0, len(r.LineItems)),
		Warnings:       append([]string{}, r.Warnings...),
		AsOf:           asOf,
	}
	for _, li := range r.LineItems {
		out.LineItems = append(out.LineItems, dto.RecipeLineDTO{
			RecipeIngredientID:         li.RecipeIngredientID,
			Position:                   li.Position,
			Kind:                       li.Ref.Kind.String(),
			RefID:                      li.Ref.ID,
			Name:                       li.Name,
			Quantity:                   li.Quantity,
			Unit:                       li.Unit,
			YieldLossPct:               li.YieldLossPct,
			PurchaseQuantity:           dto.MoneyPtr(li.PurchaseQuantity),
			PricedUnit:                 li.PricedUnit,
			UnitCost:                   dto.MoneyPtr(li.UnitCost),
			LineCost:                   dto.MoneyPtr(li.LineCost),
			SourceDistributorProductID: li.SourceDistributorProductID,
			Warning:                    li.Warning,
		})
	}
	return out
}

func toMenuCostResult(m *domaincosting.MenuCost, asOf time.Time) *dto.MenuCostResult {
	out := &dto.MenuCostResult{
		MenuID:            m.MenuID,
		OutletID:          m.OutletID,
		Name:              m.Name,
		GuestCount:        m.GuestCount,
		MinGuestCount:     m.MinGuestCount,
		PricePerPerson:    dto.Money(m.PricePerPerson),
		TargetFoodCostPct: dto.Pct(m.TargetFoodCostPct),
		TotalCost:         dto.Money(m.TotalCost),
		MenuCostPerGuest:  dto.Money(m.MenuCostPerGuest),
		ActualFoodCostPct: dto.PctPtr(m.ActualFoodCostPct),
		VariancePct:       dto.PctPtr(m.VariancePct),
		BelowMinimum:      m.BelowMinimum,
		SurchargeTotal:    dto.Money(m.SurchargeTotal),
		TotalRevenue:      dto.Money(m.TotalRevenue),
		GrossProfit:       dto.Money(m.GrossProfit),
		ItemCosts:         make([]dto.MenuItemCostDTO, 0, len(m.ItemCosts)),
		Warnings:          append([]string{}, m.Warnings...),
		AsOf:              asOf,
	}
	for _, ic := range m.ItemCosts {
		item := dto.MenuItemCostDTO{
			MenuItemID: ic.MenuItemID,
			Name:       ic.Name,
			Cost:       dto.Money(ic.Cost),
			PrepItems:  make([]dto.PrepItemCostDTO, 0, len(ic.PrepItems)),
		}
		for _, pc := range ic.PrepItems {
			item.PrepItems = append(item.PrepItems, dto.PrepItemCostDTO{
				PrepItemID:                 pc.PrepItemID,
				Name:                       pc.Name,
				Mode:                       string(pc.Mode),
				LinkKind:                   pc.Link.Kind.String(),
				LinkID:                     pc.Link.ID,
				RequiredQuantity:           dto.Money(pc.RequiredQuantity),
				Unit:                       pc.Unit,
				PricedQuantity:             dto.MoneyPtr(pc.PricedQuantity),
				PricedUnit:                 pc.PricedUnit,
				UnitCost:                   dto.MoneyPtr(pc.UnitCost),
				Cost:                       dto.MoneyPtr(pc.Cost),
				SourceDistributorProductID: pc.SourceDistributorProductID,
				Unlinked:                   pc.Unlinked,
				Warning:                    pc.Warning,
			})
		}
		out.ItemCosts = append(out.ItemCosts, item)
	}
	return out
}
