package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/costeo-api/internal/application/costing"
	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/application/usecase"
	"github.com/jhoicas/costeo-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CostingUC *costing.UseCase
	PriceUC   *usecase.PriceUseCase
	OutletUC  *usecase.OutletUseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health)

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	api.Get("/outlets", NewOutletHandler(deps.OutletUC).List)

	costingHandler := NewCostingHandler(deps.CostingUC)
	recipes := api.Group("/recipes")
	recipes.Get("/:id/cost", costingHandler.RecipeCost)
	recipes.Get("/:id/allergens", costingHandler.RecipeAllergens)

	menus := api.Group("/menus")
	menus.Get("/:id/cost", costingHandler.MenuCost)
	menus.Get("/:id/cost/export", costingHandler.ExportMenuCost)

	priceHandler := NewPriceHandler(deps.PriceUC)
	api.Get("/ingredients/:id/price", priceHandler.Resolve)
	api.Get("/products/:id/prices", priceHandler.History)
	api.Post("/prices", RequireRole(jwt.RoleAdmin, jwt.RoleChef), priceHandler.Record)
}

// Health godoc
// @Summary  Estado del servicio
// @Tags     health
// @Produce  json
// @Success  200  {object}  dto.HealthResponse
// @Router   /health [get]
func Health(c *fiber.Ctx) error {
	return c.JSON(dto.HealthResponse{Status: "ok"})
}
