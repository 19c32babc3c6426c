package costing

import (
	"fmt"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// AllergenProfile alérgenos (unión) y banderas dietarias (intersección) de una receta.
type AllergenProfile struct {
	RecipeID   string
	Allergens  []entity.Allergen
	Vegan      bool
	Vegetarian bool
}

type dietary struct {
	flags      entity.AllergenFlags
	vegan      bool
	vegetarian bool
	leaves     int // ingredientes canónicos alcanzados
	height     int
}

// merge une alérgenos e intersecta banderas dietarias.
func (d dietary) merge(o dietary) dietary {
	if o.leaves == 0 {
		return d
	}
	if d.leaves == 0 {
		d.vegan, d.vegetarian = true, true
	}
	return dietary{
		flags:      d.flags.Union(o.flags),
		vegan:      d.vegan && o.vegan,
		vegetarian: d.vegetarian && o.vegetarian,
		leaves:     d.leaves + o.leaves,
		height:     d.height,
	}
}

// AggregateAllergens recorre el mismo grafo que CostRecipe, con la misma protección de ciclos.
// Una receta sin ningún ingrediente no se considera vegana ni vegetariana.
func (c *Calculator) AggregateAllergens(snap *Snapshot, recipeID string) (*AllergenProfile, error) {
	memo := make(map[string]dietary)
	res, err := c.allergens(snap, recipeID, nil, memo)
	if err != nil {
		return nil, err
	}
	list := res.flags.List()
	return &AllergenProfile{
		RecipeID:   recipeID,
		Allergens:  list,
		Vegan:      res.leaves > 0 && res.vegan,
		Vegetarian: res.leaves > 0 && res.vegetarian,
	}, nil
}

func (c *Calculator) allergens(snap *Snapshot, recipeID string, path []string, memo map[string]dietary) (dietary, error) {
	if m, ok := memo[recipeID]; ok {
		if err := c.fits(path, recipeID, m.height); err != nil {
			return dietary{}, err
		}
		return m, nil
	}
	here, err := c.enter(path, recipeID)
	if err != nil {
		return dietary{}, err
	}
	recipe, ok := snap.Recipes[recipeID]
	if !ok {
		return dietary{}, fmt.Errorf("receta %s: %w", recipeID, domain.ErrNotFound)
	}

	acc := dietary{height: 1}
	for _, line := range recipe.Ingredients {
		switch line.Ref.Kind {
		case entity.RefCanonicalIngredient:
			ing, ok := snap.Ingredients[line.Ref.ID]
			if !ok {
				return dietary{}, fmt.Errorf("ingrediente %s: %w", line.Ref.ID, domain.ErrNotFound)
			}
			acc = acc.merge(dietary{flags: ing.Allergens, vegan: ing.Vegan, vegetarian: ing.Vegetarian, leaves: 1})
		case entity.RefSubRecipe:
			sub, err := c.allergens(snap, line.Ref.ID, here, memo)
			if err != nil {
				return dietary{}, err
			}
			if sub.height+1 > acc.height {
				acc.height = sub.height + 1
			}
			acc = acc.merge(sub)
		default:
			return dietary{}, &domain.AmbiguousReferenceError{Entity: "recipe_ingredient", ID: line.ID, ParentID: recipe.ID}
		}
	}
	memo[recipeID] = acc
	return acc, nil
}
