// Package pricing resuelve el costo unitario vigente de un ingrediente canónico dentro de un outlet.
package pricing

import (
	"time"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Resolution precio autoritativo para costeo.
type Resolution struct {
	UnitPrice                  decimal.Decimal
	Unit                       string
	SourceDistributorProductID string
	EffectiveAt                time.Time
}

type offerKey struct {
	outletID     string
	ingredientID string
}

// Catalog índice inmutable de productos y precios a una fecha de corte (asOf).
// Se construye una vez por petición; es seguro para uso concurrente.
type Catalog struct {
	asOf     time.Time
	products map[string]*entity.DistributorProduct
	latest   map[string]*entity.PriceRecord // productID -> último registro con precio
	byOutlet map[offerKey][]string          // (outlet, ingrediente) -> productIDs
}

// NewCatalog indexa productos y registros. Registros con precio nil, con fecha posterior a asOf
// o cuyo outlet no coincide con el del producto se ignoran.
func NewCatalog(asOf time.Time, products []*entity.DistributorProduct, records []*entity.PriceRecord) *Catalog {
	c := &Catalog{
		asOf:     asOf,
		products: make(map[string]*entity.DistributorProduct, len(products)),
		latest:   make(map[string]*entity.PriceRecord, len(products)),
		byOutlet: make(map[offerKey][]string),
	}
	for _, p := range products {
		if p == nil {
			continue
		}
		c.products[p.ID] = p
		if p.CanonicalIngredientID != nil && *p.CanonicalIngredientID != "" {
			k := offerKey{outletID: p.OutletID, ingredientID: *p.CanonicalIngredientID}
			c.byOutlet[k] = append(c.byOutlet[k], p.ID)
		}
	}
	for _, r := range records {
		if r == nil || r.UnitPrice == nil {
			continue
		}
		if !asOf.IsZero() && r.EffectiveAt.After(asOf) {
			continue
		}
		p, ok := c.products[r.DistributorProductID]
		if !ok || p.OutletID != r.OutletID {
			continue
		}
		if cur, ok := c.latest[r.DistributorProductID]; !ok || newer(r, cur) {
			c.latest[r.DistributorProductID] = r
		}
	}
	return c
}

// newer desempata registros del mismo producto: fecha efectiva, luego creación, luego id.
func newer(a, b *entity.PriceRecord) bool {
	if !a.EffectiveAt.Equal(b.EffectiveAt) {
		return a.EffectiveAt.After(b.EffectiveAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// AsOf fecha de corte del catálogo.
func (c *Catalog) AsOf() time.Time { return c.asOf }

// Product devuelve el producto indexado.
func (c *Catalog) Product(id string) (*entity.DistributorProduct, bool) {
	p, ok := c.products[id]
	return p, ok
}

// ResolvePrice entre los productos del outlet mapeados al ingrediente, elige el de registro más reciente;
// en empate de fecha gana el precio unitario más bajo (y luego el id menor, para determinismo).
func (c *Catalog) ResolvePrice(canonicalIngredientID, outletID string) (Resolution, error) {
	var best *entity.PriceRecord
	var bestProduct *entity.DistributorProduct
	for _, productID := range c.byOutlet[offerKey{outletID: outletID, ingredientID: canonicalIngredientID}] {
		rec, ok := c.latest[productID]
		if !ok {
			continue
		}
		if best == nil || better(rec, best) {
			best = rec
			bestProduct = c.products[productID]
		}
	}
	if best == nil {
		return Resolution{}, &domain.NoPriceFoundError{CanonicalIngredientID: canonicalIngredientID, OutletID: outletID}
	}
	return toResolution(bestProduct, best), nil
}

// ResolveProductPrice precio vigente de un producto concreto en el outlet.
func (c *Catalog) ResolveProductPrice(distributorProductID, outletID string) (Resolution, error) {
	p, ok := c.products[distributorProductID]
	if !ok || p.OutletID != outletID {
		return Resolution{}, &domain.NoPriceFoundError{DistributorProductID: distributorProductID, OutletID: outletID}
	}
	rec, ok := c.latest[distributorProductID]
	if !ok {
		return Resolution{}, &domain.NoPriceFoundError{DistributorProductID: distributorProductID, OutletID: outletID}
	}
	return toResolution(p, rec), nil
}

func better(a, b *entity.PriceRecord) bool {
	if !a.EffectiveAt.Equal(b.EffectiveAt) {
		return a.EffectiveAt.After(b.EffectiveAt)
	}
	if !a.UnitPrice.Equal(*b.UnitPrice) {
		return a.UnitPrice.LessThan(*b.UnitPrice)
	}
	return a.DistributorProductID < b.DistributorProductID
}

func toResolution(p *entity.DistributorProduct, r *entity.PriceRecord) Resolution {
	return Resolution{
		UnitPrice:                  *r.UnitPrice,
		Unit:                       p.Unit,
		SourceDistributorProductID: p.ID,
		EffectiveAt:                r.EffectiveAt,
	}
}
