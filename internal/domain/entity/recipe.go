package entity

import (
	"time"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/shopspring/decimal"
)

// RefKind tipo de referencia de una línea de receta.
type RefKind int

const (
	RefInvalid RefKind = iota
	RefCanonicalIngredient
	RefSubRecipe
)

func (k RefKind) String() string {
	switch k {
	case RefCanonicalIngredient:
		return "ingredient"
	case RefSubRecipe:
		return "recipe"
	default:
		return "invalid"
	}
}

// IngredientRef variante etiquetada: una línea apunta a un ingrediente canónico o a una sub-receta, nunca a ambos.
type IngredientRef struct {
	Kind RefKind
	ID   string
}

// IngredientOf referencia a un ingrediente canónico.
func IngredientOf(id string) IngredientRef {
	return IngredientRef{Kind: RefCanonicalIngredient, ID: id}
}

// SubRecipeOf referencia a una sub-receta.
func SubRecipeOf(id string) IngredientRef {
	return IngredientRef{Kind: RefSubRecipe, ID: id}
}

// NewIngredientRef construye la variante a partir de las dos columnas opcionales.
// Si ambas o ninguna vienen informadas devuelve RefInvalid junto con ErrAmbiguousReference.
func NewIngredientRef(canonicalID, subRecipeID *string) (IngredientRef, error) {
	hasIngredient := canonicalID != nil && *canonicalID != ""
	hasRecipe := subRecipeID != nil && *subRecipeID != ""
	switch {
	case hasIngredient && !hasRecipe:
		return IngredientOf(*canonicalID), nil
	case hasRecipe && !hasIngredient:
		return SubRecipeOf(*subRecipeID), nil
	default:
		return IngredientRef{Kind: RefInvalid}, domain.ErrAmbiguousReference
	}
}

// Valid indica si la referencia tiene exactamente un destino.
func (r IngredientRef) Valid() bool {
	return r.Kind != RefInvalid && r.ID != ""
}

// RecipeIngredient línea de receta. YieldLossPct es porcentaje (0-100) de merma.
type RecipeIngredient struct {
	ID           string
	Position     int
	Ref          IngredientRef
	Quantity     decimal.Decimal
	Unit         string
	YieldLossPct decimal.Decimal
	Note         string
}

// Recipe receta de un outlet con rendimiento (cantidad + unidad) y líneas ordenadas.
type Recipe struct {
	ID            string
	OutletID      string
	Name          string
	YieldQuantity decimal.Decimal
	YieldUnit     string
	Ingredients   []RecipeIngredient
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SubRecipeIDs devuelve los ids de sub-recetas referenciadas, en orden de declaración y sin duplicados.
func (r *Recipe) SubRecipeIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, line := range r.Ingredients {
		if line.Ref.Kind == RefSubRecipe && !seen[line.Ref.ID] {
			seen[line.Ref.ID] = true
			ids = append(ids, line.Ref.ID)
		}
	}
	return ids
}

// IngredientIDs devuelve los ids de ingredientes canónicos referenciados directamente.
func (r *Recipe) IngredientIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, line := range r.Ingredients {
		if line.Ref.Kind == RefCanonicalIngredient && !seen[line.Ref.ID] {
			seen[line.Ref.ID] = true
			ids = append(ids, line.Ref.ID)
		}
	}
	return ids
}
