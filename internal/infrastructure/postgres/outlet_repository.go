package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

var _ repository.OutletRepository = (*OutletRepo)(nil)

// OutletRepo implementación de OutletRepository sobre PostgreSQL (usable con pool o tx).
type OutletRepo struct {
	q Querier
}

// NewOutletRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOutletRepository(q Querier) *OutletRepo {
	return &OutletRepo{q: q}
}

// GetByID obtiene un outlet por ID; nil si no existe.
func (r *OutletRepo) GetByID(ctx context.Context, id string) (*entity.Outlet, error) {
	query := `
		SELECT id, organization_id, name, active, created_at, updated_at
		FROM outlets WHERE id = $1`
	var o entity.Outlet
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.OrganizationID, &o.Name, &o.Active, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get outlet: %w", err)
	}
	return &o, nil
}

// ListByOrganization lista los outlets de una organización por nombre.
func (r *OutletRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Outlet, error) {
	query := `
		SELECT id, organization_id, name, active, created_at, updated_at
		FROM outlets WHERE organization_id = $1 ORDER BY name`
	rows, err := r.q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list outlets: %w", err)
	}
	defer rows.Close()
	var list []*entity.Outlet
	for rows.Next() {
		var o entity.Outlet
		if err := rows.Scan(&o.ID, &o.OrganizationID, &o.Name, &o.Active, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan outlet: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}

// Insert persiste un outlet (usado por el seed).
func (r *OutletRepo) Insert(ctx context.Context, o *entity.Outlet) error {
	query := `
		INSERT INTO outlets (id, organization_id, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, o.ID, o.OrganizationID, o.Name, o.Active, o.CreatedAt, o.UpdatedAt); err != nil {
		return fmt.Errorf("insert outlet: %w", err)
	}
	return nil
}
