package repository

import (
	"context"
	"time"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// PriceRepository puerto de productos de distribuidor y registros de precio (solo inserción).
type PriceRepository interface {
	GetProduct(ctx context.Context, id string) (*entity.DistributorProduct, error)
	// ListOffers devuelve los productos del outlet mapeados a ingredientIDs o con id en productIDs,
	// junto con el último registro con precio de cada uno vigente a asOf.
	ListOffers(ctx context.Context, outletID string, ingredientIDs, productIDs []string, asOf time.Time) ([]*entity.DistributorProduct, []*entity.PriceRecord, error)
	Insert(ctx context.Context, record *entity.PriceRecord) error
	ListHistory(ctx context.Context, productID, outletID string, limit int) ([]*entity.PriceRecord, error)
}
