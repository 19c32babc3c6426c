package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.PriceRepository = (*PriceRepo)(nil)

// PriceRepo productos de distribuidor y registros de precio sobre PostgreSQL.
type PriceRepo struct {
	q Querier
}

// NewPriceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceRepository(q Querier) *PriceRepo {
	return &PriceRepo{q: q}
}

const productColumns = `id, outlet_id, distributor, sku, brand, description, pack_size, unit, canonical_ingredient_id`

func scanProduct(row pgx.Row) (*entity.DistributorProduct, error) {
	var p entity.DistributorProduct
	err := row.Scan(&p.ID, &p.OutletID, &p.Distributor, &p.SKU, &p.Brand, &p.Description, &p.PackSize, &p.Unit, &p.CanonicalIngredientID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanRecord(row pgx.Row) (*entity.PriceRecord, error) {
	var rec entity.PriceRecord
	if err := row.Scan(&rec.ID, &rec.DistributorProductID, &rec.OutletID, &rec.UnitPrice, &rec.EffectiveAt, &rec.CreatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetProduct obtiene un producto de distribuidor; nil si no existe.
func (r *PriceRepo) GetProduct(ctx context.Context, id string) (*entity.DistributorProduct, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM distributor_products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get distributor product: %w", err)
	}
	return p, nil
}

// ListOffers productos del outlet y el último registro con precio de cada uno (DISTINCT ON).
func (r *PriceRepo) ListOffers(ctx context.Context, outletID string, ingredientIDs, productIDs []string, asOf time.Time) ([]*entity.DistributorProduct, []*entity.PriceRecord, error) {
	if len(ingredientIDs) == 0 && len(productIDs) == 0 {
		return nil, nil, nil
	}
	if ingredientIDs == nil {
		ingredientIDs = []string{}
	}
	if productIDs == nil {
		productIDs = []string{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT `+productColumns+`
		FROM distributor_products
		WHERE outlet_id = $1 AND (canonical_ingredient_id = ANY($2) OR id = ANY($3))
		ORDER BY id`, outletID, ingredientIDs, productIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("list offers: %w", err)
	}
	var (
		products []*entity.DistributorProduct
		ids      []string
	)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan offer: %w", err)
		}
		products = append(products, p)
		ids = append(ids, p.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if len(ids) == 0 {
		return nil, nil, nil
	}

	recRows, err := r.q.Query(ctx, `
		SELECT DISTINCT ON (distributor_product_id)
		       id, distributor_product_id, outlet_id, unit_price, effective_at, created_at
		FROM price_records
		WHERE distributor_product_id = ANY($1) AND outlet_id = $2
		  AND unit_price IS NOT NULL AND effective_at <= $3
		ORDER BY distributor_product_id, effective_at DESC, created_at DESC, id DESC`, ids, outletID, asOf)
	if err != nil {
		return nil, nil, fmt.Errorf("list latest prices: %w", err)
	}
	defer recRows.Close()
	var records []*entity.PriceRecord
	for recRows.Next() {
		rec, err := scanRecord(recRows)
		if err != nil {
			return nil, nil, fmt.Errorf("scan price record: %w", err)
		}
		records = append(records, rec)
	}
	return products, records, recRows.Err()
}

// Insert agrega un registro inmutable.
func (r *PriceRepo) Insert(ctx context.Context, rec *entity.PriceRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO price_records (id, distributor_product_id, outlet_id, unit_price, effective_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.DistributorProductID, rec.OutletID, rec.UnitPrice, rec.EffectiveAt, rec.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("registro de precio %s duplicado: %w", rec.ID, domain.ErrInvalidInput)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("producto %s: %w", rec.DistributorProductID, domain.ErrNotFound)
		}
		return fmt.Errorf("insert price record: %w", err)
	}
	return nil
}

// ListHistory registros del producto en el outlet, del más reciente al más antiguo.
func (r *PriceRepo) ListHistory(ctx context.Context, productID, outletID string, limit int) ([]*entity.PriceRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, distributor_product_id, outlet_id, unit_price, effective_at, created_at
		FROM price_records
		WHERE distributor_product_id = $1 AND outlet_id = $2
		ORDER BY effective_at DESC, created_at DESC, id DESC
		LIMIT $3`, productID, outletID, limit)
	if err != nil {
		return nil, fmt.Errorf("price history: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price record: %w", err)
		}
		list = append(list, rec)
	}
	return list, rows.Err()
}

// InsertProduct persiste un producto de distribuidor (usado por el seed).
func (r *PriceRepo) InsertProduct(ctx context.Context, p *entity.DistributorProduct) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO distributor_products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		p.ID, p.OutletID, p.Distributor, p.SKU, p.Brand, p.Description, p.PackSize, p.Unit, p.CanonicalIngredientID)
	if err != nil {
		return fmt.Errorf("insert distributor product: %w", err)
	}
	return nil
}
