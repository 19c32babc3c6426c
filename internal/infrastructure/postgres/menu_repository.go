package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.MenuRepository = (*MenuRepo)(nil)

// MenuRepo implementación de MenuRepository sobre PostgreSQL.
type MenuRepo struct {
	q Querier
}

// NewMenuRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMenuRepository(q Querier) *MenuRepo {
	return &MenuRepo{q: q}
}

// GetByID carga el menú con platos y prep items en orden declarado; nil si no existe.
func (r *MenuRepo) GetByID(ctx context.Context, id string) (*entity.BanquetMenu, error) {
	var m entity.BanquetMenu
	err := r.q.QueryRow(ctx, `
		SELECT id, outlet_id, name, price_per_person, min_guest_count, under_min_surcharge, target_food_cost_pct, created_at, updated_at
		FROM banquet_menus WHERE id = $1`, id).Scan(
		&m.ID, &m.OutletID, &m.Name, &m.PricePerPerson, &m.MinGuestCount, &m.UnderMinSurcharge, &m.TargetFoodCostPct, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get menu: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT mi.id, mi.name, mi.position,
		       pi.id, pi.name, pi.position, pi.amount_mode, pi.amount_per_guest, pi.guests_per_amount,
		       pi.base_amount, pi.unit, pi.vessel_count,
		       pi.canonical_ingredient_id, pi.distributor_product_id, pi.recipe_id,
		       v.id, v.name, v.capacity, v.unit
		FROM menu_items mi
		LEFT JOIN prep_items pi ON pi.menu_item_id = mi.id
		LEFT JOIN vessels v ON v.id = pi.vessel_id
		WHERE mi.menu_id = $1
		ORDER BY mi.position, mi.id, pi.position, pi.id`, id)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itemID, itemName                  string
			itemPos                           int
			prepID, prepName, mode, unit      *string
			prepPos                           *int
			perGuest, guestsPer, base, vCount *decimal.Decimal
			canonicalID, productID, recipeID  *string
			vesselID, vesselName, vesselUnit  *string
			vesselCap                         *decimal.Decimal
		)
		if err := rows.Scan(
			&itemID, &itemName, &itemPos,
			&prepID, &prepName, &prepPos, &mode, &perGuest, &guestsPer,
			&base, &unit, &vCount,
			&canonicalID, &productID, &recipeID,
			&vesselID, &vesselName, &vesselCap, &vesselUnit,
		); err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		if n := len(m.Items); n == 0 || m.Items[n-1].ID != itemID {
			m.Items = append(m.Items, entity.MenuItem{ID: itemID, Name: itemName, Position: itemPos})
		}
		if prepID == nil {
			continue
		}
		p := entity.PrepItem{
			ID:              *prepID,
			Name:            deref(prepName),
			Position:        derefInt(prepPos),
			AmountPerGuest:  derefDec(perGuest),
			GuestsPerAmount: derefDec(guestsPer),
			BaseAmount:      derefDec(base),
			Unit:            deref(unit),
			VesselCount:     derefDec(vCount),
		}
		// Un modo desconocido se conserva tal cual; el calculador lo reporta en el prep item.
		p.Mode = entity.AmountMode(deref(mode))
		if parsed, err := entity.ParseAmountMode(deref(mode)); err == nil {
			p.Mode = parsed
		}
		p.Link, _ = entity.NewPrepLink(canonicalID, productID, recipeID)
		if vesselID != nil {
			p.Vessel = &entity.Vessel{ID: *vesselID, Name: deref(vesselName), Capacity: derefDec(vesselCap), Unit: deref(vesselUnit)}
		}
		last := &m.Items[len(m.Items)-1]
		last.PrepItems = append(last.PrepItems, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Insert persiste el menú completo (usado por el seed). q debe ser una tx para atomicidad.
func (r *MenuRepo) Insert(ctx context.Context, m *entity.BanquetMenu) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO banquet_menus (id, outlet_id, name, price_per_person, min_guest_count, under_min_surcharge, target_food_cost_pct, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		m.ID, m.OutletID, m.Name, m.PricePerPerson, m.MinGuestCount, m.UnderMinSurcharge, m.TargetFoodCostPct, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert menu: %w", err)
	}
	for _, item := range m.Items {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO menu_items (id, menu_id, name, position) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO NOTHING`, item.ID, m.ID, item.Name, item.Position); err != nil {
			return fmt.Errorf("insert menu item %s: %w", item.ID, err)
		}
		for _, p := range item.PrepItems {
			var vesselID *string
			if p.Vessel != nil {
				if _, err := r.q.Exec(ctx, `
					INSERT INTO vessels (id, name, capacity, unit) VALUES ($1, $2, $3, $4)
					ON CONFLICT (id) DO NOTHING`, p.Vessel.ID, p.Vessel.Name, p.Vessel.Capacity, p.Vessel.Unit); err != nil {
					return fmt.Errorf("insert vessel %s: %w", p.Vessel.ID, err)
				}
				vesselID = &p.Vessel.ID
			}
			var canonicalID, productID, recipeID *string
			switch p.Link.Kind {
			case entity.LinkCanonicalIngredient:
				canonicalID = &p.Link.ID
			case entity.LinkDistributorProduct:
				productID = &p.Link.ID
			case entity.LinkRecipe:
				recipeID = &p.Link.ID
			}
			if _, err := r.q.Exec(ctx, `
				INSERT INTO prep_items (id, menu_item_id, name, position, amount_mode, amount_per_guest, guests_per_amount,
				                        base_amount, unit, vessel_id, vessel_count, canonical_ingredient_id, distributor_product_id, recipe_id)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
				ON CONFLICT (id) DO NOTHING`,
				p.ID, item.ID, p.Name, p.Position, string(p.Mode), p.AmountPerGuest, p.GuestsPerAmount,
				p.BaseAmount, p.Unit, vesselID, p.VesselCount, canonicalID, productID, recipeID); err != nil {
				return fmt.Errorf("insert prep item %s: %w", p.ID, err)
			}
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func derefDec(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
