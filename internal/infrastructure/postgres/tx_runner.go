package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/costeo-api/internal/application/costing"
)

var _ costing.SnapshotRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSnapshot abre una transacción REPEATABLE READ de solo lectura y pasa a fn los repositorios atados a ella:
// todas las consultas de una petición de costeo ven la misma foto de precios y recetas.
func (r *TxRunner) RunSnapshot(ctx context.Context, fn func(repos costing.SnapshotRepos) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return fmt.Errorf("begin snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := costing.SnapshotRepos{
		Outlets:     NewOutletRepository(tx),
		Ingredients: NewIngredientRepository(tx),
		Recipes:     NewRecipeRepository(tx),
		Menus:       NewMenuRepository(tx),
		Prices:      NewPriceRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Run inicia una transacción de escritura, ejecuta fn con la tx y hace Commit o Rollback (seed).
func (r *TxRunner) Run(ctx context.Context, fn func(q Querier) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
