// @title        Costeo API
// @version      1.0
// @description  Costeo de recetas y menús de banquete por outlet.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "github.com/jhoicas/costeo-api/docs"
	"github.com/jhoicas/costeo-api/internal/application/costing"
	"github.com/jhoicas/costeo-api/internal/application/usecase"
	domaincosting "github.com/jhoicas/costeo-api/internal/domain/costing"
	"github.com/jhoicas/costeo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/costeo-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/costeo-api/internal/interfaces/http"
	"github.com/jhoicas/costeo-api/pkg/config"
	"github.com/jhoicas/costeo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Int("max_depth", cfg.Costing.MaxDepth).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	calculator := domaincosting.NewCalculator(cfg.Costing.MaxDepth)
	costingUC := costing.NewCostingUseCase(txRunner, calculator, xlsx.NewMenuSheetGenerator(), log)
	outletRepo := postgres.NewOutletRepository(pool)
	priceUC := usecase.NewPriceUseCase(
		postgres.NewPriceRepository(pool),
		outletRepo,
		cfg.Costing.PriceHistoryLimit,
		cfg.Costing.PriceHistoryMaxSize,
		log,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Costeo API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CostingUC: costingUC,
		PriceUC:   priceUC,
		OutletUC:  usecase.NewOutletUseCase(outletRepo),
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
