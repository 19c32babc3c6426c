package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.RecipeRepository = (*RecipeRepo)(nil)

// RecipeRepo implementación de RecipeRepository sobre PostgreSQL.
type RecipeRepo struct {
	q Querier
}

// NewRecipeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRecipeRepository(q Querier) *RecipeRepo {
	return &RecipeRepo{q: q}
}

// GetByID obtiene la receta con sus líneas; nil si no existe.
func (r *RecipeRepo) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	list, err := r.loadRecipes(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// GetGraph resuelve los ids alcanzables con una consulta recursiva acotada por profundidad
// (UNION descarta filas repetidas y el límite corta los ciclos) y luego carga recetas y líneas en lote.
func (r *RecipeRepo) GetGraph(ctx context.Context, rootIDs []string, maxDepth int) ([]*entity.Recipe, error) {
	if len(rootIDs) == 0 {
		return nil, nil
	}
	query := `
		WITH RECURSIVE graph(id, depth) AS (
			SELECT r.id, 1 FROM recipes r WHERE r.id = ANY($1)
			UNION
			SELECT ri.sub_recipe_id, g.depth + 1
			FROM graph g
			JOIN recipe_ingredients ri ON ri.recipe_id = g.id
			WHERE ri.sub_recipe_id IS NOT NULL AND g.depth < $2
		)
		SELECT DISTINCT id FROM graph`
	rows, err := r.q.Query(ctx, query, rootIDs, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("recipe graph: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan recipe graph: %w", err)
	}
	return r.loadRecipes(ctx, ids)
}

func (r *RecipeRepo) loadRecipes(ctx context.Context, ids []string) ([]*entity.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, outlet_id, name, yield_quantity, yield_unit, created_at, updated_at
		FROM recipes WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Recipe
	byID := make(map[string]*entity.Recipe)
	for rows.Next() {
		var rc entity.Recipe
		if err := rows.Scan(&rc.ID, &rc.OutletID, &rc.Name, &rc.YieldQuantity, &rc.YieldUnit, &rc.CreatedAt, &rc.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		list = append(list, &rc)
		byID[rc.ID] = &rc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	lines, err := r.q.Query(ctx, `
		SELECT id, recipe_id, position, canonical_ingredient_id, sub_recipe_id, quantity, unit, yield_loss_pct, note
		FROM recipe_ingredients WHERE recipe_id = ANY($1)
		ORDER BY recipe_id, position, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list recipe ingredients: %w", err)
	}
	defer lines.Close()
	for lines.Next() {
		var (
			li                 entity.RecipeIngredient
			recipeID           string
			canonicalID, subID *string
		)
		if err := lines.Scan(&li.ID, &recipeID, &li.Position, &canonicalID, &subID, &li.Quantity, &li.Unit, &li.YieldLossPct, &li.Note); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		// Una línea ambigua se conserva como RefInvalid; el calculador la reporta como error estructural.
		li.Ref, _ = entity.NewIngredientRef(canonicalID, subID)
		if rc, ok := byID[recipeID]; ok {
			rc.Ingredients = append(rc.Ingredients, li)
		}
	}
	return list, lines.Err()
}

// Insert persiste la receta y sus líneas (usado por el seed). q debe ser una tx para atomicidad.
func (r *RecipeRepo) Insert(ctx context.Context, rc *entity.Recipe) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO recipes (id, outlet_id, name, yield_quantity, yield_unit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING`,
		rc.ID, rc.OutletID, rc.Name, rc.YieldQuantity, rc.YieldUnit, rc.CreatedAt, rc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	for _, li := range rc.Ingredients {
		var canonicalID, subID *string
		switch li.Ref.Kind {
		case entity.RefCanonicalIngredient:
			canonicalID = &li.Ref.ID
		case entity.RefSubRecipe:
			subID = &li.Ref.ID
		}
		_, err := r.q.Exec(ctx, `
			INSERT INTO recipe_ingredients (id, recipe_id, position, canonical_ingredient_id, sub_recipe_id, quantity, unit, yield_loss_pct, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING`,
			li.ID, rc.ID, li.Position, canonicalID, subID, li.Quantity, li.Unit, li.YieldLossPct, li.Note)
		if err != nil {
			return fmt.Errorf("insert recipe ingredient %s: %w", li.ID, err)
		}
	}
	return nil
}
