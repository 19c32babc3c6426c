package entity

import (
	"time"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/shopspring/decimal"
)

// AmountMode política de escalado de la cantidad requerida de un prep item.
type AmountMode string

const (
	AmountPerPerson AmountMode = "per_person"
	AmountAtMinimum AmountMode = "at_minimum"
	AmountFixed     AmountMode = "fixed"
	AmountVessel    AmountMode = "vessel"
)

// ParseAmountMode valida el modo almacenado.
func ParseAmountMode(s string) (AmountMode, error) {
	switch m := AmountMode(s); m {
	case AmountPerPerson, AmountAtMinimum, AmountFixed, AmountVessel:
		return m, nil
	default:
		return "", domain.ErrInvalidInput
	}
}

// LinkKind tipo de entidad enlazada a un prep item.
type LinkKind int

const (
	LinkNone LinkKind = iota
	LinkCanonicalIngredient
	LinkDistributorProduct
	LinkRecipe
	LinkInvalid
)

func (k LinkKind) String() string {
	switch k {
	case LinkNone:
		return "none"
	case LinkCanonicalIngredient:
		return "ingredient"
	case LinkDistributorProduct:
		return "product"
	case LinkRecipe:
		return "recipe"
	default:
		return "invalid"
	}
}

// PrepLink variante etiquetada: a lo sumo una entidad enlazada.
type PrepLink struct {
	Kind LinkKind
	ID   string
}

// NewPrepLink construye el enlace desde las tres columnas opcionales.
// Más de una informada devuelve LinkInvalid con ErrAmbiguousReference; ninguna es LinkNone.
func NewPrepLink(canonicalID, productID, recipeID *string) (PrepLink, error) {
	var links []PrepLink
	if canonicalID != nil && *canonicalID != "" {
		links = append(links, PrepLink{Kind: LinkCanonicalIngredient, ID: *canonicalID})
	}
	if productID != nil && *productID != "" {
		links = append(links, PrepLink{Kind: LinkDistributorProduct, ID: *productID})
	}
	if recipeID != nil && *recipeID != "" {
		links = append(links, PrepLink{Kind: LinkRecipe, ID: *recipeID})
	}
	switch len(links) {
	case 0:
		return PrepLink{Kind: LinkNone}, nil
	case 1:
		return links[0], nil
	default:
		return PrepLink{Kind: LinkInvalid}, domain.ErrAmbiguousReference
	}
}

// Vessel recipiente (bandeja, chafing, botella) con capacidad en su propia unidad.
type Vessel struct {
	ID       string
	Name     string
	Capacity decimal.Decimal
	Unit     string
}

// PrepItem sub-componente de un MenuItem con su propio cálculo de cantidad.
type PrepItem struct {
	ID              string
	Name            string
	Position        int
	Mode            AmountMode
	AmountPerGuest  decimal.Decimal
	GuestsPerAmount decimal.Decimal // "1 botella cada 10 invitados" => AmountPerGuest=1, GuestsPerAmount=10
	BaseAmount      decimal.Decimal
	Unit            string
	Vessel          *Vessel
	VesselCount     decimal.Decimal
	Link            PrepLink
}

// MenuItem plato del menú compuesto por prep items.
type MenuItem struct {
	ID        string
	Name      string
	Position  int
	PrepItems []PrepItem
}

// BanquetMenu menú de banquete/restaurante de un outlet.
type BanquetMenu struct {
	ID                string
	OutletID          string
	Name              string
	PricePerPerson    decimal.Decimal
	MinGuestCount     int
	UnderMinSurcharge decimal.Decimal // recargo por persona cuando no se alcanza el mínimo
	TargetFoodCostPct decimal.Decimal
	Items             []MenuItem
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// RecipeIDs ids de recetas enlazadas desde prep items.
func (m *BanquetMenu) RecipeIDs() []string {
	return m.linkedIDs(LinkRecipe)
}

// IngredientIDs ids de ingredientes canónicos enlazados desde prep items.
func (m *BanquetMenu) IngredientIDs() []string {
	return m.linkedIDs(LinkCanonicalIngredient)
}

// ProductIDs ids de productos de distribuidor enlazados desde prep items.
func (m *BanquetMenu) ProductIDs() []string {
	return m.linkedIDs(LinkDistributorProduct)
}

func (m *BanquetMenu) linkedIDs(kind LinkKind) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, item := range m.Items {
		for _, p := range item.PrepItems {
			if p.Link.Kind == kind && !seen[p.Link.ID] {
				seen[p.Link.ID] = true
				ids = append(ids, p.Link.ID)
			}
		}
	}
	return ids
}
