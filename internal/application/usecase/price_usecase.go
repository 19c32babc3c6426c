package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/pricing"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

// PriceUseCase registro e historial de precios de productos de distribuidor.
// Los registros son inmutables: un cambio de precio es siempre un registro nuevo.
type PriceUseCase struct {
	prices       repository.PriceRepository
	outlets      repository.OutletRepository
	defaultLimit int
	maxLimit     int
	log          *logger.Logger
	now          func() time.Time
}

// NewPriceUseCase construye el caso de uso.
func NewPriceUseCase(prices repository.PriceRepository, outlets repository.OutletRepository, defaultLimit, maxLimit int, log *logger.Logger) *PriceUseCase {
	if log == nil {
		log = logger.NewNop()
	}
	if defaultLimit <= 0 {
		defaultLimit = 50
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &PriceUseCase{
		prices:       prices,
		outlets:      outlets,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		log:          log.Component("prices"),
		now:          time.Now,
	}
}

// RecordPrice inserta un nuevo registro de precio en el outlet dueño del producto.
func (uc *PriceUseCase) RecordPrice(ctx context.Context, organizationID string, in dto.RecordPriceRequest) (*dto.PriceRecordResponse, error) {
	if in.DistributorProductID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
	}
	product, err := uc.ownedProduct(ctx, organizationID, in.DistributorProductID, true)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	effective := now
	if in.EffectiveAt != nil {
		effective = in.EffectiveAt.UTC()
	}
	rec := &entity.PriceRecord{
		ID:                   uuid.New().String(),
		DistributorProductID: product.ID,
		OutletID:             product.OutletID,
		UnitPrice:            in.UnitPrice,
		EffectiveAt:          effective,
		CreatedAt:            now,
	}
	if err := uc.prices.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("registrar precio: %w", err)
	}
	uc.log.Info().
		Str("distributor_product_id", rec.DistributorProductID).
		Str("outlet_id", rec.OutletID).
		Str("price_record_id", rec.ID).
		Msg("precio registrado")
	return toPriceRecordResponse(rec), nil
}

// History lista los registros de un producto, del más reciente al más antiguo.
// outletID vacío = outlet del producto; un outlet distinto no tiene registros válidos.
func (uc *PriceUseCase) History(ctx context.Context, organizationID, productID, outletID string, limit int) (*dto.PriceHistoryResponse, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.ownedProduct(ctx, organizationID, productID, false)
	if err != nil {
		return nil, err
	}
	if outletID == "" {
		outletID = product.OutletID
	}
	switch {
	case limit <= 0:
		limit = uc.defaultLimit
	case limit > uc.maxLimit:
		limit = uc.maxLimit
	}

	out := &dto.PriceHistoryResponse{
		DistributorProductID: productID,
		OutletID:             outletID,
		Limit:                limit,
		Records:              []dto.PriceRecordResponse{},
	}
	if outletID != product.OutletID {
		return out, nil
	}
	records, err := uc.prices.ListHistory(ctx, productID, outletID, limit)
	if err != nil {
		return nil, fmt.Errorf("historial de precios: %w", err)
	}
	for _, r := range records {
		out.Records = append(out.Records, *toPriceRecordResponse(r))
	}
	return out, nil
}

// ResolvePrice precio vigente de un ingrediente canónico en el outlet.
func (uc *PriceUseCase) ResolvePrice(ctx context.Context, organizationID, ingredientID, outletID string) (*dto.ResolvedPriceResponse, error) {
	if ingredientID == "" || outletID == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.ownedOutlet(ctx, organizationID, outletID); err != nil {
		return nil, err
	}
	asOf := uc.now().UTC()
	products, records, err := uc.prices.ListOffers(ctx, outletID, []string{ingredientID}, nil, asOf)
	if err != nil {
		return nil, fmt.Errorf("resolver precio: %w", err)
	}
	res, err := pricing.NewCatalog(asOf, products, records).ResolvePrice(ingredientID, outletID)
	if err != nil {
		return nil, err
	}
	return &dto.ResolvedPriceResponse{
		CanonicalIngredientID:      ingredientID,
		OutletID:                   outletID,
		UnitPrice:                  dto.Money(res.UnitPrice),
		Unit:                       res.Unit,
		SourceDistributorProductID: res.SourceDistributorProductID,
		EffectiveAt:                res.EffectiveAt,
	}, nil
}

func (uc *PriceUseCase) ownedProduct(ctx context.Context, organizationID, productID string, requireActive bool) (*entity.DistributorProduct, error) {
	product, err := uc.prices.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	outlet, err := uc.ownedOutlet(ctx, organizationID, product.OutletID)
	if err != nil {
		return nil, err
	}
	if requireActive && !outlet.Active {
		return nil, fmt.Errorf("outlet %s desactivado: %w", outlet.ID, domain.ErrInvalidInput)
	}
	return product, nil
}

func (uc *PriceUseCase) ownedOutlet(ctx context.Context, organizationID, outletID string) (*entity.Outlet, error) {
	outlet, err := uc.outlets.GetByID(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("obtener outlet: %w", err)
	}
	if outlet == nil {
		return nil, fmt.Errorf("outlet %s: %w", outletID, domain.ErrNotFound)
	}
	if organizationID != "" && outlet.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	return outlet, nil
}

func toPriceRecordResponse(r *entity.PriceRecord) *dto.PriceRecordResponse {
	return &dto.PriceRecordResponse{
		ID:                   r.ID,
		DistributorProductID: r.DistributorProductID,
		OutletID:             r.OutletID,
		UnitPrice:            r.UnitPrice,
		EffectiveAt:          r.EffectiveAt,
		CreatedAt:            r.CreatedAt,
	}
}
