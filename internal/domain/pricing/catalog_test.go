package pricing_test

import (
	"testing"
	"time"

	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day1 = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 = day1.AddDate(0, 0, 1)
	day3 = day1.AddDate(0, 0, 2)
)

func price(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func product(id, outletID, ingredientID, unit string) *entity.DistributorProduct {
	p := &entity.DistributorProduct{ID: id, OutletID: outletID, Unit: unit, PackSize: decimal.NewFromInt(1)}
	if ingredientID != "" {
		p.CanonicalIngredientID = &ingredientID
	}
	return p
}

func record(id, productID, outletID string, unitPrice *decimal.Decimal, at time.Time) *entity.PriceRecord {
	return &entity.PriceRecord{ID: id, DistributorProductID: productID, OutletID: outletID, UnitPrice: unitPrice, EffectiveAt: at, CreatedAt: at}
}

func TestResolvePrice_AislamientoPorOutlet(t *testing.T) {
	cat := pricing.NewCatalog(day3,
		[]*entity.DistributorProduct{
			product("p-a", "outlet-a", "butter", "lb"),
			product("p-b", "outlet-b", "butter", "lb"),
		},
		[]*entity.PriceRecord{
			record("r1", "p-a", "outlet-a", price("2.50"), day1),
			record("r2", "p-b", "outlet-b", price("3.50"), day1),
		},
	)

	a, err := cat.ResolvePrice("butter", "outlet-a")
	require.NoError(t, err)
	b, err := cat.ResolvePrice("butter", "outlet-b")
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("2.50").Equal(a.UnitPrice))
	assert.True(t, decimal.RequireFromString("3.50").Equal(b.UnitPrice))
	assert.Equal(t, "p-a", a.SourceDistributorProductID)
	assert.Equal(t, "p-b", b.SourceDistributorProductID)
	assert.Equal(t, "lb", a.Unit)
}

func TestResolvePrice_GanaElMasRecienteYLuegoElMasBarato(t *testing.T) {
	products := []*entity.DistributorProduct{
		product("sysco", "o1", "cream", "qt"),
		product("usf", "o1", "cream", "qt"),
		product("local", "o1", "cream", "qt"),
	}
	t.Run("más reciente aunque sea más caro", func(t *testing.T) {
		cat := pricing.NewCatalog(day3, products, []*entity.PriceRecord{
			record("r1", "sysco", "o1", price("4.00"), day1),
			record("r2", "usf", "o1", price("5.00"), day2),
		})
		res, err := cat.ResolvePrice("cream", "o1")
		require.NoError(t, err)
		assert.Equal(t, "usf", res.SourceDistributorProductID)
	})
	t.Run("empate de fecha: precio más bajo", func(t *testing.T) {
		cat := pricing.NewCatalog(day3, products, []*entity.PriceRecord{
			record("r1", "sysco", "o1", price("4.10"), day2),
			record("r2", "usf", "o1", price("3.90"), day2),
			record("r3", "local", "o1", price("1.00"), day1),
		})
		res, err := cat.ResolvePrice("cream", "o1")
		require.NoError(t, err)
		assert.Equal(t, "usf", res.SourceDistributorProductID)
		assert.True(t, decimal.RequireFromString("3.90").Equal(res.UnitPrice))
	})
}

func TestResolvePrice_IgnoraNulosFuturosYOtrosOutlets(t *testing.T) {
	cat := pricing.NewCatalog(day2,
		[]*entity.DistributorProduct{product("p1", "o1", "salt", "kg")},
		[]*entity.PriceRecord{
			record("old", "p1", "o1", price("1.20"), day1),
			record("null", "p1", "o1", nil, day2),
			record("future", "p1", "o1", price("0.10"), day3),
			record("foreign", "p1", "o2", price("0.05"), day2),
		},
	)
	res, err := cat.ResolvePrice("salt", "o1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.20").Equal(res.UnitPrice))
	assert.Equal(t, day1, res.EffectiveAt)
}

func TestResolvePrice_SinPrecioDevuelveError(t *testing.T) {
	cat := pricing.NewCatalog(day3,
		[]*entity.DistributorProduct{
			product("p1", "o1", "saffron", "g"),
			product("p2", "o2", "saffron", "g"),
		},
		[]*entity.PriceRecord{record("r", "p2", "o2", price("9"), day1)},
	)
	_, err := cat.ResolvePrice("saffron", "o1")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoPriceFound)

	var npf *domain.NoPriceFoundError
	require.ErrorAs(t, err, &npf)
	assert.Equal(t, "saffron", npf.CanonicalIngredientID)
	assert.Equal(t, "o1", npf.OutletID)
}

func TestResolveProductPrice(t *testing.T) {
	cat := pricing.NewCatalog(day3,
		[]*entity.DistributorProduct{product("wine", "o1", "", "bottle")},
		[]*entity.PriceRecord{record("r", "wine", "o1", price("12"), day1)},
	)
	res, err := cat.ResolveProductPrice("wine", "o1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(12).Equal(res.UnitPrice))

	_, err = cat.ResolveProductPrice("wine", "o2")
	assert.ErrorIs(t, err, domain.ErrNoPriceFound)
}
