package repository

import (
	"context"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
)

// MenuRepository puerto de lectura de menús de banquete con platos, prep items y recipientes.
type MenuRepository interface {
	GetByID(ctx context.Context, id string) (*entity.BanquetMenu, error)
}
