// Package costing calcula costos de recetas (recursivos), perfiles de alérgenos y economía de menús
// sobre una foto de datos de solo lectura. No mantiene estado entre llamadas.
package costing

import (
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/pricing"
)

// Snapshot datos de una petición: recetas alcanzables, ingredientes canónicos y catálogo de precios.
// No se modifica después de construirse.
type Snapshot struct {
	Recipes     map[string]*entity.Recipe
	Ingredients map[string]*entity.CanonicalIngredient
	Prices      *pricing.Catalog
}

// NewSnapshot indexa recetas e ingredientes por id.
func NewSnapshot(prices *pricing.Catalog, recipes []*entity.Recipe, ingredients []*entity.CanonicalIngredient) *Snapshot {
	s := &Snapshot{
		Recipes:     make(map[string]*entity.Recipe, len(recipes)),
		Ingredients: make(map[string]*entity.CanonicalIngredient, len(ingredients)),
		Prices:      prices,
	}
	for _, r := range recipes {
		if r != nil {
			s.Recipes[r.ID] = r
		}
	}
	for _, i := range ingredients {
		if i != nil {
			s.Ingredients[i.ID] = i
		}
	}
	if s.Prices == nil {
		s.Prices = pricing.NewCatalog(zeroTime, nil, nil)
	}
	return s
}
