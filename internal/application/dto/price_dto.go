package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordPriceRequest body para POST /api/prices. UnitPrice null registra "sin precio disponible".
type RecordPriceRequest struct {
	DistributorProductID string           `json:"distributor_product_id"`
	UnitPrice            *decimal.Decimal `json:"unit_price"`
	EffectiveAt          *time.Time       `json:"effective_at,omitempty"` // por defecto: ahora
}

// PriceRecordResponse registro de precio persistido.
type PriceRecordResponse struct {
	ID                   string           `json:"id"`
	DistributorProductID string           `json:"distributor_product_id"`
	OutletID             string           `json:"outlet_id"`
	UnitPrice            *decimal.Decimal `json:"unit_price"`
	EffectiveAt          time.Time        `json:"effective_at"`
	CreatedAt            time.Time        `json:"created_at"`
}

// PriceHistoryResponse historial de un producto, del más reciente al más antiguo.
type PriceHistoryResponse struct {
	DistributorProductID string                `json:"distributor_product_id"`
	OutletID             string                `json:"outlet_id"`
	Limit                int                   `json:"limit"`
	Records              []PriceRecordResponse `json:"records"`
}

// ResolvedPriceResponse precio vigente de un ingrediente canónico en un outlet.
type ResolvedPriceResponse struct {
	CanonicalIngredientID      string          `json:"canonical_ingredient_id"`
	OutletID                   string          `json:"outlet_id"`
	UnitPrice                  decimal.Decimal `json:"unit_price"`
	Unit                       string          `json:"unit"`
	SourceDistributorProductID string          `json:"source_distributor_product_id"`
	EffectiveAt                time.Time       `json:"effective_at"`
}
