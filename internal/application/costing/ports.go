package costing

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

// SnapshotRepos repositorios atados a una misma transacción de lectura.
type SnapshotRepos struct {
	Outlets     repository.OutletRepository
	Ingredients repository.IngredientRepository
	Recipes     repository.RecipeRepository
	Menus       repository.MenuRepository
	Prices      repository.PriceRepository
}

// SnapshotRunner ejecuta fn dentro de una transacción de solo lectura (REPEATABLE READ),
// de modo que todas las lecturas de una petición ven la misma foto de datos.
type SnapshotRunner interface {
	RunSnapshot(ctx context.Context, fn func(repos SnapshotRepos) error) error
}

// MenuSheetGenerator genera la hoja de costeo de un evento (XLSX).
type MenuSheetGenerator interface {
	GenerateMenuSheet(ctx context.Context, result *dto.MenuCostResult) ([]byte, error)
}
