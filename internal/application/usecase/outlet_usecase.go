package usecase

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/jhoicas/costeo-api/internal/domain/repository"
)

// OutletUseCase consulta de outlets de la organización.
type OutletUseCase struct {
	repo repository.OutletRepository
}

// NewOutletUseCase construye el caso de uso.
func NewOutletUseCase(repo repository.OutletRepository) *OutletUseCase {
	return &OutletUseCase{repo: repo}
}

// List lista los outlets de la organización, activos e inactivos.
func (uc *OutletUseCase) List(ctx context.Context, organizationID string) (*dto.OutletListResponse, error) {
	if organizationID == "" {
		return nil, domain.ErrUnauthorized
	}
	list, err := uc.repo.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OutletResponse, 0, len(list))
	for _, o := range list {
		items = append(items, dto.OutletResponse{
			ID:        o.ID,
			Name:      o.Name,
			Active:    o.Active,
			CreatedAt: o.CreatedAt,
		})
	}
	return &dto.OutletListResponse{Items: items}, nil
}
