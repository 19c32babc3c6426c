package repository

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// IngredientRepository puerto de lectura de ingredientes canónicos.
type IngredientRepository interface {
	GetByID(ctx context.Context, id string) (*entity.CanonicalIngredient, error)
	// GetByIDs carga en lote; los ids inexistentes simplemente no aparecen.
	GetByIDs(ctx context.Context, ids []string) ([]*entity.CanonicalIngredient, error)
}
