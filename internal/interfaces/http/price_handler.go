package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/application/usecase"
)

// PriceHandler registro, historial y resolución de precios (protegido).
type PriceHandler struct {
	uc *usecase.PriceUseCase
}

// NewPriceHandler construye el handler.
func NewPriceHandler(uc *usecase.PriceUseCase) *PriceHandler {
	return &PriceHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar precio de producto
// @Description  Inserta un registro inmutable en el outlet dueño del producto. unit_price null = sin precio disponible.
// @Tags         prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPriceRequest  true  "Nuevo precio"
// @Success      201   {object}  dto.PriceRecordResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/prices [post]
func (h *PriceHandler) Record(c *fiber.Ctx) error {
	org, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	var in dto.RecordPriceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.DistributorProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "distributor_product_id es requerido"})
	}
	out, err := h.uc.RecordPrice(c.UserContext(), org, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// History godoc
// @Summary      Historial de precios de un producto
// @Tags         prices
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true   "ID del producto de distribuidor"
// @Param        outlet_id  query  string  false  "Outlet (por defecto el del producto)"
// @Param        limit      query  int     false  "Máximo de registros"
// @Success      200  {object}  dto.PriceHistoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/prices [get]
func (h *PriceHandler) History(c *fiber.Ctx) error {
	org, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	out, err := h.uc.History(c.UserContext(), org, c.Params("id"), c.Query("outlet_id"), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Resolve godoc
// @Summary      Precio vigente de un ingrediente en un outlet
// @Tags         prices
// @Security     Bearer
// @Produce      json
// @Param        id         path   string  true  "ID del ingrediente canónico"
// @Param        outlet_id  query  string  true  "Outlet"
// @Success      200  {object}  dto.ResolvedPriceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ingredients/{id}/price [get]
func (h *PriceHandler) Resolve(c *fiber.Ctx) error {
	org, ok := requireOrganization(c)
	if !ok {
		return nil
	}
	outletID := c.Query("outlet_id")
	if outletID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "outlet_id es requerido"})
	}
	out, err := h.uc.ResolvePrice(c.UserContext(), org, c.Params("id"), outletID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
