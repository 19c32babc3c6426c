package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/costeo-api/internal/application/costing"
	"github.com/jhoicas/costeo-api/internal/application/dto"
	"github.com/jhoicas/costeo-api/internal/application/usecase"
	domaincosting "github.com/jhoicas/costeo-api/internal/domain/costing"
	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/infrastructure/memory"
	"github.com/jhoicas/costeo-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/costeo-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/costeo-api/pkg/jwt"
)

func dec(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func fixtureStore() *memory.Store {
	s := memory.NewStore()
	day := time.Date(2020, 2, 1, 0, 0, 0, 0, time.UTC)
	flour := "flour"
	s.AddOutlet(&entity.Outlet{ID: "o-1", OrganizationID: testOrgID, Name: "Centro", Active: true})
	s.AddOutlet(&entity.Outlet{ID: "o-x", OrganizationID: "otra", Name: "Ajeno", Active: true})
	s.AddIngredient(&entity.CanonicalIngredient{ID: "flour", Name: "Harina", Allergens: entity.AllergenFlags{Gluten: true}, Vegan: true, Vegetarian: true})
	s.AddProduct(&entity.DistributorProduct{ID: "p-flour", OutletID: "o-1", Unit: "kg", CanonicalIngredientID: &flour})
	s.AddPrice(&entity.PriceRecord{ID: "r-1", DistributorProductID: "p-flour", OutletID: "o-1", UnitPrice: dec("2"), EffectiveAt: day, CreatedAt: day})

	s.AddRecipe(&entity.Recipe{
		ID: "bread", OutletID: "o-1", Name: "Pan", YieldQuantity: *dec("4"), YieldUnit: "portion",
		Ingredients: []entity.RecipeIngredient{{ID: "l1", Position: 1, Ref: entity.IngredientOf("flour"), Quantity: *dec("1"), Unit: "kg"}},
	})
	s.AddRecipe(&entity.Recipe{ID: "zero", OutletID: "o-1", Name: "Sin rendimiento", YieldQuantity: decimal.Zero})
	s.AddRecipe(&entity.Recipe{
		ID: "self", OutletID: "o-1", Name: "Auto", YieldQuantity: *dec("1"),
		Ingredients: []entity.RecipeIngredient{{ID: "ls", Ref: entity.SubRecipeOf("self"), Quantity: *dec("1")}},
	})
	s.AddMenu(&entity.BanquetMenu{
		ID: "m-1", OutletID: "o-1", Name: "Coctel", PricePerPerson: *dec("20"), MinGuestCount: 10, TargetFoodCostPct: *dec("30"),
		Items: []entity.MenuItem{{ID: "i-1", Name: "Canapés", PrepItems: []entity.PrepItem{{
			ID: "pi-1", Name: "Pan", Mode: entity.AmountPerPerson, AmountPerGuest: *dec("1"), Unit: "portion",
			Link: entity.PrepLink{Kind: entity.LinkRecipe, ID: "bread"},
		}}}},
	})
	return s
}

func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	s := fixtureStore()
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		CostingUC: costing.NewCostingUseCase(s, domaincosting.NewCalculator(0), xlsx.NewMenuSheetGenerator(), nil),
		PriceUC:   usecase.NewPriceUseCase(s.Prices(), s.Outlets(), 50, 500, nil),
		OutletUC:  usecase.NewOutletUseCase(s.Outlets()),
		JWTSecret: testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealth_Publico(t *testing.T) {
	resp := call(t, buildAPI(t), http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decode[dto.HealthResponse](t, resp).Status)
}

func TestOutlets_SoloDeLaOrganizacion(t *testing.T) {
	resp := call(t, buildAPI(t), http.MethodGet, "/api/outlets", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[dto.OutletListResponse](t, resp)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "o-1", out.Items[0].ID)
}

func TestRecipeCost_OK(t *testing.T) {
	resp := call(t, buildAPI(t), http.MethodGet, "/api/recipes/bread/cost", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[dto.RecipeCostResult](t, resp)
	require.NotNil(t, out.TotalCost)
	assert.True(t, decimal.NewFromInt(2).Equal(*out.TotalCost))
	assert.True(t, decimal.RequireFromString("0.5").Equal(*out.CostPerServing))
	assert.Equal(t, "o-1", out.OutletID)
}

func TestRecipeCost_SinToken401(t *testing.T) {
	resp := call(t, buildAPI(t), http.MethodGet, "/api/recipes/bread/cost", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRecipeCost_MapeoDeErrores(t *testing.T) {
	app := buildAPI(t)
	cases := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/recipes/nope/cost", http.StatusNotFound, "NOT_FOUND"},
		{"/api/recipes/zero/cost", http.StatusUnprocessableEntity, "INVALID_YIELD"},
		{"/api/recipes/self/cost", http.StatusUnprocessableEntity, "CYCLIC_RECIPE"},
		{"/api/recipes/bread/cost?outlet_id=o-x", http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp := call(t, app, http.MethodGet, tc.path, pkgjwt.RoleViewer, nil)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.code, decode[dto.ErrorResponse](t, resp).Code)
		})
	}
}

func TestRecipeCost_CicloIncluyeCadena(t *testing.T) {
	resp := call(t, buildAPI(t), http.MethodGet, "/api/recipes/self/cost", pkgjwt.RoleViewer, nil)
	out := decode[dto.ErrorResponse](t, resp)
	assert.Contains(t, out.Message, "self -> self")
}

func TestRecipeAllergens_OK(t *testing.T) {
	resp := call(t, buildAPI(t), http.MethodGet, "/api/recipes/bread/allergens", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[dto.AllergenProfileResponse](t, resp)
	assert.Equal(t, []string{"gluten"}, out.Allergens)
	assert.True(t, out.Vegan)
}

func TestCostos_SeSerializanComoNumeros(t *testing.T) {
	app := buildAPI(t)

	recipe := decode[map[string]any](t, call(t, app, http.MethodGet, "/api/recipes/bread/cost", pkgjwt.RoleViewer, nil))
	assert.IsType(t, float64(0), recipe["total_cost"])
	assert.IsType(t, float64(0), recipe["cost_per_serving"])
	lines, ok := recipe["line_items"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	assert.IsType(t, float64(0), lines[0].(map[string]any)["line_cost"])

	menu := decode[map[string]any](t, call(t, app, http.MethodGet, "/api/menus/m-1/cost?guests=40", pkgjwt.RoleViewer, nil))
	assert.IsType(t, float64(0), menu["menu_cost_per_guest"])
	assert.IsType(t, float64(0), menu["variance_pct"])
	assert.InDelta(t, 27.5, menu["variance_pct"], 1e-9)
}

func TestMenuCost_GuestsPorDefectoYExplicito(t *testing.T) {
	app := buildAPI(t)

	out := decode[dto.MenuCostResult](t, call(t, app, http.MethodGet, "/api/menus/m-1/cost", pkgjwt.RoleViewer, nil))
	assert.Equal(t, 10, out.GuestCount)
	assert.True(t, decimal.NewFromInt(5).Equal(out.TotalCost))

	out = decode[dto.MenuCostResult](t, call(t, app, http.MethodGet, "/api/menus/m-1/cost?guests=40", pkgjwt.RoleViewer, nil))
	assert.Equal(t, 40, out.GuestCount)
	assert.True(t, decimal.NewFromInt(20).Equal(out.TotalCost))
	require.NotNil(t, out.ActualFoodCostPct)
	assert.True(t, decimal.RequireFromString("2.5").Equal(*out.ActualFoodCostPct))

	resp := call(t, app, http.MethodGet, "/api/menus/m-1/cost?guests=abc", pkgjwt.RoleViewer, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/menus/m-1/cost?guests=0", pkgjwt.RoleViewer, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestExportMenuCost_XLSX(t *testing.T) {
	resp := call(t, buildAPI(t), http.MethodGet, "/api/menus/m-1/cost/export?guests=12", pkgjwt.RoleViewer, nil)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "costeo-menu-m-1-12.xlsx")
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")), "xlsx es un zip")
}

func TestPrices_RegistroRequiereRol(t *testing.T) {
	app := buildAPI(t)
	body := map[string]any{"distributor_product_id": "p-flour", "unit_price": "2.50"}

	resp := call(t, app, http.MethodPost, "/api/prices", pkgjwt.RoleViewer, body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/prices", pkgjwt.RoleChef, body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	rec := decode[dto.PriceRecordResponse](t, resp)
	assert.Equal(t, "o-1", rec.OutletID)

	hist := decode[dto.PriceHistoryResponse](t, call(t, app, http.MethodGet, "/api/products/p-flour/prices", pkgjwt.RoleViewer, nil))
	require.Len(t, hist.Records, 2)
	assert.Equal(t, rec.ID, hist.Records[0].ID)

	resp = call(t, app, http.MethodPost, "/api/prices", pkgjwt.RoleAdmin, map[string]any{"unit_price": "1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestResolvePrice(t *testing.T) {
	app := buildAPI(t)

	resp := call(t, app, http.MethodGet, "/api/ingredients/flour/price?outlet_id=o-1", pkgjwt.RoleViewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.ResolvedPriceResponse](t, resp)
	assert.Equal(t, "p-flour", out.SourceDistributorProductID)

	resp = call(t, app, http.MethodGet, "/api/ingredients/salt/price?outlet_id=o-1", pkgjwt.RoleViewer, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NO_PRICE_FOUND", decode[dto.ErrorResponse](t, resp).Code)

	resp = call(t, app, http.MethodGet, "/api/ingredients/flour/price", pkgjwt.RoleViewer, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
