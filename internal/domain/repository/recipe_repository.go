package repository

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// RecipeRepository puerto de lectura de recetas con sus líneas.
type RecipeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Recipe, error)
	// GetGraph devuelve las recetas raíz y todas las sub-recetas alcanzables hasta maxDepth niveles,
	// cada una con sus líneas en orden. Tolera ciclos en los datos (cada receta aparece una vez).
	GetGraph(ctx context.Context, rootIDs []string, maxDepth int) ([]*entity.Recipe, error)
}
