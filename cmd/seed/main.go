// seed aplica el esquema y carga un catálogo de demostración (outlet, ingredientes,
// productos con precios, recetas anidadas y un menú de banquete).
//
// Uso: go run ./cmd/seed [-schema migrations/001_schema.sql] [-demo=false]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/costeo-api/internal/domain/entity"
	"github.com/jhoicas/costeo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/costeo-api/pkg/config"
	"github.com/jhoicas/costeo-api/pkg/logger"
	"github.com/shopspring/decimal"
)

const (
	demoOrg    = "org-demo"
	demoOutlet = "outlet-demo"
)

func main() {
	schemaPath := flag.String("schema", "migrations/001_schema.sql", "ruta del DDL")
	demo := flag.Bool("demo", true, "cargar catálogo de demostración")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name}).Component("seed")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	ddl, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatal().Err(err).Str("schema", *schemaPath).Msg("leer esquema")
	}
	if err := postgres.Migrate(ctx, pool, string(ddl)); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}
	log.Info().Str("schema", *schemaPath).Msg("esquema aplicado")

	if !*demo {
		return
	}
	existing, err := postgres.NewOutletRepository(pool).GetByID(ctx, demoOutlet)
	if err != nil {
		log.Fatal().Err(err).Msg("consultar outlet demo")
	}
	if existing != nil {
		log.Info().Msg("catálogo demo ya cargado, nada que hacer")
		return
	}

	runner := postgres.NewTxRunner(pool)
	if err := runner.Run(ctx, func(q postgres.Querier) error {
		return seedDemo(ctx, q, time.Now().UTC())
	}); err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo demo")
	}
	log.Info().Str("outlet_id", demoOutlet).Msg("catálogo demo cargado")
}

func seedDemo(ctx context.Context, q postgres.Querier, now time.Time) error {
	d := decimal.RequireFromString
	str := func(s string) *string { return &s }

	outlets := postgres.NewOutletRepository(q)
	if err := outlets.Insert(ctx, &entity.Outlet{
		ID: demoOutlet, OrganizationID: demoOrg, Name: "Cocina central", Active: true, CreatedAt: now, UpdatedAt: now,
	}); err != nil {
		return err
	}

	milkDensity := d("1.03")
	ingredients := []*entity.CanonicalIngredient{
		{ID: "ing-harina", OrganizationID: demoOrg, Name: "Harina de trigo", PreferredUnit: "kg",
			Allergens: entity.AllergenFlags{Gluten: true}, Vegan: true, Vegetarian: true},
		{ID: "ing-mantequilla", OrganizationID: demoOrg, Name: "Mantequilla", PreferredUnit: "kg",
			Allergens: entity.AllergenFlags{Dairy: true}, Vegetarian: true},
		{ID: "ing-leche", OrganizationID: demoOrg, Name: "Leche entera", PreferredUnit: "l", DensityGPerML: &milkDensity,
			Allergens: entity.AllergenFlags{Dairy: true}, Vegetarian: true},
		{ID: "ing-huevo", OrganizationID: demoOrg, Name: "Huevo", PreferredUnit: "each",
			Allergens: entity.AllergenFlags{Eggs: true}, Vegetarian: true},
		{ID: "ing-salmon", OrganizationID: demoOrg, Name: "Salmón", PreferredUnit: "kg",
			Allergens: entity.AllergenFlags{Fish: true}},
	}
	ingRepo := postgres.NewIngredientRepository(q)
	for _, ing := range ingredients {
		if err := ingRepo.Insert(ctx, ing); err != nil {
			return err
		}
	}

	products := []struct {
		product *entity.DistributorProduct
		price   string
	}{
		{&entity.DistributorProduct{ID: "dp-harina", OutletID: demoOutlet, Distributor: "Molinos SA", SKU: "HAR-25",
			Description: "Harina 25 kg", PackSize: d("25"), Unit: "kg", CanonicalIngredientID: str("ing-harina")}, "2.10"},
		{&entity.DistributorProduct{ID: "dp-mantequilla", OutletID: demoOutlet, Distributor: "Lácteos del Valle", SKU: "MAN-1",
			Description: "Mantequilla 1 kg", PackSize: d("1"), Unit: "kg", CanonicalIngredientID: str("ing-mantequilla")}, "9.80"},
		{&entity.DistributorProduct{ID: "dp-leche", OutletID: demoOutlet, Distributor: "Lácteos del Valle", SKU: "LEC-1",
			Description: "Leche 1 l", PackSize: d("1"), Unit: "l", CanonicalIngredientID: str("ing-leche")}, "1.20"},
		{&entity.DistributorProduct{ID: "dp-huevo", OutletID: demoOutlet, Distributor: "Granja Norte", SKU: "HUE-30",
			Description: "Huevo x30", PackSize: d("30"), Unit: "each", CanonicalIngredientID: str("ing-huevo")}, "0.25"},
		{&entity.DistributorProduct{ID: "dp-salmon", OutletID: demoOutlet, Distributor: "Pesquera Sur", SKU: "SAL-FIL",
			Description: "Filete de salmón", PackSize: d("1"), Unit: "kg", CanonicalIngredientID: str("ing-salmon")}, "24.00"},
		{&entity.DistributorProduct{ID: "dp-vino", OutletID: demoOutlet, Distributor: "Bodega Andina", SKU: "VIN-750",
			Description: "Vino blanco 750 ml", PackSize: d("1"), Unit: "each"}, "8.50"},
	}
	prices := postgres.NewPriceRepository(q)
	for _, p := range products {
		if err := prices.InsertProduct(ctx, p.product); err != nil {
			return err
		}
		price := d(p.price)
		if err := prices.Insert(ctx, &entity.PriceRecord{
			ID:                   "pr-" + p.product.ID,
			DistributorProductID: p.product.ID,
			OutletID:             demoOutlet,
			UnitPrice:            &price,
			EffectiveAt:          now.AddDate(0, 0, -1),
			CreatedAt:            now,
		}); err != nil {
			return err
		}
	}

	recipes := postgres.NewRecipeRepository(q)
	bechamel := &entity.Recipe{
		ID: "rec-bechamel", OutletID: demoOutlet, Name: "Bechamel", YieldQuantity: d("1"), YieldUnit: "l",
		Ingredients: []entity.RecipeIngredient{
			{ID: "ri-bech-1", Position: 1, Ref: entity.IngredientOf("ing-leche"), Quantity: d("1"), Unit: "l"},
			{ID: "ri-bech-2", Position: 2, Ref: entity.IngredientOf("ing-mantequilla"), Quantity: d("80"), Unit: "g"},
			{ID: "ri-bech-3", Position: 3, Ref: entity.IngredientOf("ing-harina"), Quantity: d("80"), Unit: "g"},
		},
		CreatedAt: now, UpdatedAt: now,
	}
	salmon := &entity.Recipe{
		ID: "rec-salmon", OutletID: demoOutlet, Name: "Salmón gratinado", YieldQuantity: d("10"), YieldUnit: "porciones",
		Ingredients: []entity.RecipeIngredient{
			{ID: "ri-sal-1", Position: 1, Ref: entity.IngredientOf("ing-salmon"), Quantity: d("1.8"), Unit: "kg", YieldLossPct: d("10")},
			{ID: "ri-sal-2", Position: 2, Ref: entity.SubRecipeOf("rec-bechamel"), Quantity: d("500"), Unit: "ml"},
			{ID: "ri-sal-3", Position: 3, Ref: entity.IngredientOf("ing-huevo"), Quantity: d("2"), Unit: "each"},
		},
		CreatedAt: now, UpdatedAt: now,
	}
	for _, rc := range []*entity.Recipe{bechamel, salmon} {
		if err := recipes.Insert(ctx, rc); err != nil {
			return err
		}
	}

	return postgres.NewMenuRepository(q).Insert(ctx, &entity.BanquetMenu{
		ID: "menu-gala", OutletID: demoOutlet, Name: "Cena de gala",
		PricePerPerson: d("45"), MinGuestCount: 40, UnderMinSurcharge: d("6"), TargetFoodCostPct: d("30"),
		Items: []entity.MenuItem{
			{ID: "mi-principal", Name: "Plato principal", Position: 1, PrepItems: []entity.PrepItem{
				{ID: "pi-salmon", Name: "Salmón gratinado", Position: 1, Mode: entity.AmountPerPerson,
					AmountPerGuest: d("1"), GuestsPerAmount: d("1"), Unit: "porciones",
					Link: entity.PrepLink{Kind: entity.LinkRecipe, ID: "rec-salmon"}},
				{ID: "pi-pan", Name: "Canasta de pan", Position: 2, Mode: entity.AmountFixed,
					BaseAmount: d("2"), Unit: "kg",
					Link: entity.PrepLink{Kind: entity.LinkCanonicalIngredient, ID: "ing-harina"}},
			}},
			{ID: "mi-bebidas", Name: "Bebidas", Position: 2, PrepItems: []entity.PrepItem{
				{ID: "pi-vino", Name: "Vino blanco", Position: 1, Mode: entity.AmountPerPerson,
					AmountPerGuest: d("1"), GuestsPerAmount: d("4"), Unit: "each",
					Link: entity.PrepLink{Kind: entity.LinkDistributorProduct, ID: "dp-vino"}},
				{ID: "pi-flores", Name: "Centro de mesa", Position: 2, Mode: entity.AmountAtMinimum,
					BaseAmount: d("8"), Unit: "each", Link: entity.PrepLink{Kind: entity.LinkNone}},
			}},
		},
		CreatedAt: now, UpdatedAt: now,
	})
}
