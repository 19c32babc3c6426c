package costing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain"
	domaincosting "github.com/jhoicas/costeo-api/internal/domain/costing"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/pricing"
	"github.com/jhoicas/costeo-api/pkg/logger"
	"github.com/rs/zerolog"
)

// UseCase costeo de recetas, alérgenos y menús de banquete.
// Carga la foto de datos en una sola transacción de lectura y luego calcula sin I/O.
type UseCase struct {
	runner SnapshotRunner
	calc   *domaincosting.Calculator
	sheets MenuSheetGenerator
	log    *logger.Logger
	now    func() time.Time
}

// NewCostingUseCase construye el caso de uso. sheets puede ser nil si no se expone la exportación.
func NewCostingUseCase(runner SnapshotRunner, calc *domaincosting.Calculator, sheets MenuSheetGenerator, log *logger.Logger) *UseCase {
	if log == nil {
		log = logger.NewNop()
	}
	return &UseCase{runner: runner, calc: calc, sheets: sheets, log: log.Component("costing"), now: time.Now}
}

// RecipeCost costea la receta en outletID (vacío = outlet de la receta).
func (uc *UseCase) RecipeCost(ctx context.Context, organizationID, recipeID, outletID string) (*dto.RecipeCostResult, error) {
	if recipeID == "" {
		return nil, domain.ErrInvalidInput
	}
	asOf := uc.now().UTC()
	var snap *domaincosting.Snapshot
	err := uc.runner.RunSnapshot(ctx, func(repos SnapshotRepos) error {
		recipe, err := uc.ownedRecipe(ctx, repos, organizationID, recipeID)
		if err != nil {
			return err
		}
		if outletID == "" {
			outletID = recipe.OutletID
		}
		if _, err := uc.ownedOutlet(ctx, repos, organizationID, outletID); err != nil {
			return err
		}
		snap, err = uc.loadSnapshot(ctx, repos, outletID, []string{recipeID}, nil, nil, asOf)
		return err
	})
	if err != nil {
		return nil, err
	}

	res, err := uc.calc.CostRecipe(snap, recipeID, outletID)
	if err != nil {
		uc.logFailure(err).Str("recipe_id", recipeID).Str("outlet_id", outletID).Msg("costeo de receta abortado")
		return nil, err
	}
	uc.log.Debug().Str("recipe_id", recipeID).Str("outlet_id", outletID).Int("warnings", len(res.Warnings)).Msg("receta costeada")
	return toRecipeCostResult(res, asOf), nil
}

// RecipeAllergens agrega alérgenos y banderas dietarias de la receta y sus sub-recetas.
func (uc *UseCase) RecipeAllergens(ctx context.Context, organizationID, recipeID string) (*dto.AllergenProfileResponse, error) {
	if recipeID == "" {
		return nil, domain.ErrInvalidInput
	}
	var snap *domaincosting.Snapshot
	err := uc.runner.RunSnapshot(ctx, func(repos SnapshotRepos) error {
		if _, err := uc.ownedRecipe(ctx, repos, organizationID, recipeID); err != nil {
			return err
		}
		recipes, ingredients, err := uc.loadGraph(ctx, repos, []string{recipeID}, nil)
		if err != nil {
			return err
		}
		snap = domaincosting.NewSnapshot(nil, recipes, ingredients)
		return nil
	})
	if err != nil {
		return nil, err
	}

	profile, err := uc.calc.AggregateAllergens(snap, recipeID)
	if err != nil {
		uc.logFailure(err).Str("recipe_id", recipeID).Msg("agregación de alérgenos abortada")
		return nil, err
	}
	out := &dto.AllergenProfileResponse{
		RecipeID:   profile.RecipeID,
		Allergens:  make([]string, 0, len(profile.Allergens)),
		Vegan:      profile.Vegan,
		Vegetarian: profile.Vegetarian,
	}
	for _, a := range profile.Allergens {
		out.Allergens = append(out.Allergens, string(a))
	}
	return out, nil
}

// MenuCost costea el menú para guests invitados (nil = mínimo del menú).
func (uc *UseCase) MenuCost(ctx context.Context, organizationID, menuID string, guests *int) (*dto.MenuCostResult, error) {
	if menuID == "" {
		return nil, domain.ErrInvalidInput
	}
	asOf := uc.now().UTC()
	var (
		snap *domaincosting.Snapshot
		menu *entity.BanquetMenu
	)
	err := uc.runner.RunSnapshot(ctx, func(repos SnapshotRepos) error {
		var err error
		menu, err = repos.Menus.GetByID(ctx, menuID)
		if err != nil {
			return fmt.Errorf("costeo: obtener menú: %w", err)
		}
		if menu == nil {
			return fmt.Errorf("menú %s: %w", menuID, domain.ErrNotFound)
		}
		if _, err := uc.ownedOutlet(ctx, repos, organizationID, menu.OutletID); err != nil {
			return err
		}
		snap, err = uc.loadSnapshot(ctx, repos, menu.OutletID, menu.RecipeIDs(), menu.IngredientIDs(), menu.ProductIDs(), asOf)
		return err
	})
	if err != nil {
		return nil, err
	}

	guestCount := menu.MinGuestCount
	if guests != nil {
		guestCount = *guests
	}
	res, err := uc.calc.CostMenu(snap, menu, guestCount)
	if err != nil {
		uc.logFailure(err).Str("menu_id", menuID).Int("guests", guestCount).Msg("costeo de menú abortado")
		return nil, err
	}
	uc.log.Debug().Str("menu_id", menuID).Int("guests", guestCount).Int("warnings", len(res.Warnings)).Msg("menú costeado")
	return toMenuCostResult(res, asOf), nil
}

// ExportMenuCost genera la hoja XLSX del costeo del menú. Devuelve bytes y nombre de archivo.
func (uc *UseCase) ExportMenuCost(ctx context.Context, organizationID, menuID string, guests *int) ([]byte, string, error) {
	if uc.sheets == nil {
		return nil, "", errors.New("costeo: exportación no configurada")
	}
	res, err := uc.MenuCost(ctx, organizationID, menuID, guests)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.sheets.GenerateMenuSheet(ctx, res)
	if err != nil {
		return nil, "", fmt.Errorf("costeo: generar hoja: %w", err)
	}
	return data, fmt.Sprintf("costeo-menu-%s-%d.xlsx", res.MenuID, res.GuestCount), nil
}

func (uc *UseCase) ownedRecipe(ctx context.Context, repos SnapshotRepos, organizationID, recipeID string) (*entity.Recipe, error) {
	recipe, err := repos.Recipes.GetByID(ctx, recipeID)
	if err != nil {
		return nil, fmt.Errorf("costeo: obtener receta: %w", err)
	}
	if recipe == nil {
		return nil, fmt.Errorf("receta %s: %w", recipeID, domain.ErrNotFound)
	}
	if _, err := uc.ownedOutlet(ctx, repos, organizationID, recipe.OutletID); err != nil {
		return nil, err
	}
	return recipe, nil
}

// ownedOutlet verifica que el outlet exista y pertenezca a la organización del token.
func (uc *UseCase) ownedOutlet(ctx context.Context, repos SnapshotRepos, organizationID, outletID string) (*entity.Outlet, error) {
	outlet, err := repos.Outlets.GetByID(ctx, outletID)
	if err != nil {
		return nil, fmt.Errorf("costeo: obtener outlet: %w", err)
	}
	if outlet == nil {
		return nil, fmt.Errorf("outlet %s: %w", outletID, domain.ErrNotFound)
	}
	if organizationID != "" && outlet.OrganizationID != organizationID {
		return nil, domain.ErrForbidden
	}
	return outlet, nil
}

// loadGraph carga las recetas alcanzables desde rootIDs y los ingredientes que referencian.
func (uc *UseCase) loadGraph(ctx context.Context, repos SnapshotRepos, rootIDs, extraIngredientIDs []string) ([]*entity.Recipe, []*entity.CanonicalIngredient, error) {
	var recipes []*entity.Recipe
	if len(rootIDs) > 0 {
		var err error
		recipes, err = repos.Recipes.GetGraph(ctx, rootIDs, uc.calc.MaxDepth())
		if err != nil {
			return nil, nil, fmt.Errorf("costeo: cargar grafo de recetas: %w", err)
		}
	}
	ids := append([]string{}, extraIngredientIDs...)
	for _, r := range recipes {
		ids = append(ids, r.IngredientIDs()...)
	}
	ids = dedupe(ids)
	var ingredients []*entity.CanonicalIngredient
	if len(ids) > 0 {
		var err error
		ingredients, err = repos.Ingredients.GetByIDs(ctx, ids)
		if err != nil {
			return nil, nil, fmt.Errorf("costeo: cargar ingredientes: %w", err)
		}
	}
	return recipes, ingredients, nil
}

func (uc *UseCase) loadSnapshot(ctx context.Context, repos SnapshotRepos, outletID string, rootIDs, ingredientIDs, productIDs []string, asOf time.Time) (*domaincosting.Snapshot, error) {
	recipes, ingredients, err := uc.loadGraph(ctx, repos, rootIDs, ingredientIDs)
	if err != nil {
		return nil, err
	}
	ingIDs := make([]string, 0, len(ingredients))
	for _, i := range ingredients {
		ingIDs = append(ingIDs, i.ID)
	}
	products, records, err := repos.Prices.ListOffers(ctx, outletID, ingIDs, dedupe(productIDs), asOf)
	if err != nil {
		return nil, fmt.Errorf("costeo: cargar precios: %w", err)
	}
	// Los productos enlazados directamente aportan la densidad de su ingrediente canónico.
	known := make(map[string]struct{}, len(ingIDs))
	for _, id := range ingIDs {
		known[id] = struct{}{}
	}
	var missing []string
	for _, p := range products {
		if p.CanonicalIngredientID == nil {
			continue
		}
		if _, ok := known[*p.CanonicalIngredientID]; !ok {
			missing = append(missing, *p.CanonicalIngredientID)
		}
	}
	if missing = dedupe(missing); len(missing) > 0 {
		extra, err := repos.Ingredients.GetByIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("costeo: cargar ingredientes de productos: %w", err)
		}
		ingredients = append(ingredients, extra...)
	}
	return domaincosting.NewSnapshot(pricing.NewCatalog(asOf, products, records), recipes, ingredients), nil
}

func (uc *UseCase) logFailure(err error) *zerolog.Event {
	if domain.IsStructural(err) {
		return uc.log.Warn().Err(err)
	}
	return uc.log.Error().Err(err)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
