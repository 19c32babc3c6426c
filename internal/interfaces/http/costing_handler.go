package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/costeo-api/internal/application/costing"
	"github.com/jhoicas/costeo-api/internal/application/dto"
)

// CostingHandler costeo de recetas, alérgenos y menús (protegido).
type CostingHandler struct {
	uc *costing.UseCase
}

// NewCostingHandler construye el handler.
func NewCostingHandler(uc *costing.UseCase) *CostingHandler {
	return &CostingHandler{uc: uc}
}

// RecipeCost godoc
// @Summary      Costeo recursivo de una receta
// @Description  Costea la receta y sus sub-recetas con los precios vigentes del outlet. Las líneas sin precio o con unidades incompatibles quedan como advertencias.
// @Tags         costing
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true   "ID de la receta"
// @Param        outlet_id  query  string  false  "Outlet de precios (por defecto el de la receta)"
// @Success      200  {object}  dto.RecipeCostResult
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/cost [get]
func (h *CostingHandler) RecipeCost(c *fiber.Ctx) error {
	org, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	out, err := h.uc.RecipeCost(c.UserContext(), org, c.Params("id"), c.Query("outlet_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecipeAllergens godoc
// @Summary      Alérgenos y banderas dietarias de una receta
// @Tags         costing
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la receta"
// @Success      200  {object}  dto.AllergenProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/recipes/{id}/allergens [get]
func (h *CostingHandler) RecipeAllergens(c *fiber.Ctx) error {
	org, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	out, err := h.uc.RecipeAllergens(c.UserContext(), org, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// MenuCost godoc
// @Summary      Costeo de menú de banquete
// @Tags         costing
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del menú"
// @Param        guests  query  int     false  "Invitados (por defecto el mínimo del menú)"
// @Success      200  {object}  dto.MenuCostResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/menus/{id}/cost [get]
func (h *CostingHandler) MenuCost(c *fiber.Ctx) error {
	org, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	guests, err := guestsParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "guests debe ser entero"})
	}
	out, err := h.uc.MenuCost(c.UserContext(), org, c.Params("id"), guests)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExportMenuCost godoc
// @Summary      Hoja de costeo del evento (XLSX)
// @Tags         costing
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id      path   string  true   "ID del menú"
// @Param        guests  query  int     false  "Invitados (por defecto el mínimo del menú)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/menus/{id}/cost/export [get]
func (h *CostingHandler) ExportMenuCost(c *fiber.Ctx) error {
	org, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	guests, err := guestsParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "guests debe ser entero"})
	}
	data, filename, err := h.uc.ExportMenuCost(c.UserContext(), org, c.Params("id"), guests)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// guestsParam nil cuando no viene en la query.
func guestsParam(c *fiber.Ctx) (*int, error) {
	raw := c.Query("guests")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
