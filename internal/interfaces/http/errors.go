package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/domain"
	"github.com/rs/zerolog/log"
)

// writeError traduce errores de dominio a respuestas HTTP con código estable.
// Los errores estructurales de costeo devuelven el mensaje tal cual (incluye la cadena del ciclo).
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrCyclicRecipe):
		status, code = fiber.StatusUnprocessableEntity, "CYCLIC_RECIPE"
	case errors.Is(err, domain.ErrInvalidYield):
		status, code = fiber.StatusUnprocessableEntity, "INVALID_YIELD"
	case errors.Is(err, domain.ErrAmbiguousReference):
		status, code = fiber.StatusUnprocessableEntity, "AMBIGUOUS_REFERENCE"
	case errors.Is(err, domain.ErrRecursionTooDeep):
		status, code = fiber.StatusUnprocessableEntity, "RECURSION_TOO_DEEP"
	case errors.Is(err, domain.ErrNoPriceFound):
		status, code = fiber.StatusNotFound, "NO_PRICE_FOUND"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "INVALID_INPUT"
	default:
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		msg = "error interno"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func requireOrganization(c *fiber.Ctx) (string, bool) {
	org := GetOrganizationID(c)
	if org == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "organization_id requerido"})
		return "", false
	}
	return org, true
}
