package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// Querier operaciones comunes a *pgxpool.Pool y pgx.Tx: los repositorios sirven con pool o dentro de una tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// allergenFlags convierte la columna text[] en banderas; los valores desconocidos se ignoran.
func allergenFlags(list []string) entity.AllergenFlags {
	var f entity.AllergenFlags
	for _, a := range list {
		switch entity.Allergen(strings.ToLower(strings.TrimSpace(a))) {
		case entity.AllergenGluten:
			f.Gluten = true
		case entity.AllergenCrustaceans:
			f.Crustaceans = true
		case entity.AllergenEggs:
			f.Eggs = true
		case entity.AllergenFish:
			f.Fish = true
		case entity.AllergenPeanuts:
			f.Peanuts = true
		case entity.AllergenSoy:
			f.Soy = true
		case entity.AllergenDairy:
			f.Dairy = true
		case entity.AllergenTreeNuts:
			f.TreeNuts = true
		case entity.AllergenCelery:
			f.Celery = true
		case entity.AllergenMustard:
			f.Mustard = true
		case entity.AllergenSesame:
			f.Sesame = true
		case entity.AllergenSulphites:
			f.Sulphites = true
		case entity.AllergenLupin:
			f.Lupin = true
		case entity.AllergenMolluscs:
			f.Molluscs = true
		}
	}
	return f
}

// allergenList inverso de allergenFlags, para inserciones (seed).
func allergenList(f entity.AllergenFlags) []string {
	list := f.List()
	out := make([]string, 0, len(list))
	for _, a := range list {
		out = append(out, string(a))
	}
	return out
}
