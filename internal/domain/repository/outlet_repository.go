package repository

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// OutletRepository puerto de lectura de outlets (el alta/baja pertenece al módulo de administración).
type OutletRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Outlet, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*entity.Outlet, error)
}
