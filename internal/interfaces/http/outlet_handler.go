package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/costeo-api/internal/application/usecase"
)

// OutletHandler listado de outlets (protegido).
type OutletHandler struct {
	uc *usecase.OutletUseCase
}

// NewOutletHandler construye el handler.
func NewOutletHandler(uc *usecase.OutletUseCase) *OutletHandler {
	return &OutletHandler{uc: uc}
}

// List godoc
// @Summary  Outlets de la organización
// @Tags     outlets
// @Security Bearer
// @Produce  json
// @Success  200  {object}  dto.OutletListResponse
// @Failure  401  {object}  dto.ErrorResponse
// @Router   /api/outlets [get]
func (h *OutletHandler) List(c *fiber.Ctx) error {
	org, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	out, err := h.uc.List(c.UserContext(), org)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
