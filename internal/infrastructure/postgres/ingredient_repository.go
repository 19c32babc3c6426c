package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.IngredientRepository = (*IngredientRepo)(nil)

// IngredientRepo implementación de IngredientRepository sobre PostgreSQL.
type IngredientRepo struct {
	q Querier
}

// NewIngredientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewIngredientRepository(q Querier) *IngredientRepo {
	return &IngredientRepo{q: q}
}

const ingredientColumns = `id, organization_id, name, preferred_unit, density_g_per_ml, allergens, vegan, vegetarian`

func scanIngredient(row pgx.Row) (*entity.CanonicalIngredient, error) {
	var (
		i         entity.CanonicalIngredient
		allergens []string
	)
	if err := row.Scan(&i.ID, &i.OrganizationID, &i.Name, &i.PreferredUnit, &i.DensityGPerML, &allergens, &i.Vegan, &i.Vegetarian); err != nil {
		return nil, err
	}
	i.Allergens = allergenFlags(allergens)
	return &i, nil
}

// GetByID obtiene un ingrediente canónico; nil si no existe.
func (r *IngredientRepo) GetByID(ctx context.Context, id string) (*entity.CanonicalIngredient, error) {
	i, err := scanIngredient(r.q.QueryRow(ctx, `SELECT `+ingredientColumns+` FROM canonical_ingredients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return i, nil
}

// GetByIDs carga en una sola consulta.
func (r *IngredientRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.CanonicalIngredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+ingredientColumns+` FROM canonical_ingredients WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("list ingredients: %w", err)
	}
	defer rows.Close()
	var list []*entity.CanonicalIngredient
	for rows.Next() {
		i, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ingredient: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// Insert persiste un ingrediente (usado por el seed).
func (r *IngredientRepo) Insert(ctx context.Context, i *entity.CanonicalIngredient) error {
	query := `
		INSERT INTO canonical_ingredients (` + ingredientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`
	_, err := r.q.Exec(ctx, query, i.ID, i.OrganizationID, i.Name, i.PreferredUnit, i.DensityGPerML, allergenList(i.Allergens), i.Vegan, i.Vegetarian)
	if err != nil {
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}
