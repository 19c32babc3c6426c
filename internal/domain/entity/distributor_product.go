package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistributorProduct ítem comprable de un distribuidor dentro de un outlet.
// Mapea a cero o un CanonicalIngredient.
type DistributorProduct struct {
	ID                    string
	OutletID              string
	Distributor           string
	SKU                   string
	Brand                 string
	Description           string
	PackSize              decimal.Decimal
	Unit                  string // unidad en la que se expresa el precio unitario
	CanonicalIngredientID *string
}

// PriceRecord precio unitario con fecha efectiva. Inmutable: actualizar un precio es insertar otro registro.
type PriceRecord struct {
	ID                   string
	DistributorProductID string
	OutletID             string
	UnitPrice            *decimal.Decimal // nil = sin precio publicado
	EffectiveAt          time.Time
	CreatedAt            time.Time
}
