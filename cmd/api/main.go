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

	"github.com/andresvp/lubristock-api/internal/application/auth"
	"github.com/andresvp/lubristock-api/internal/application/inventory"
	"github.com/andresvp/lubristock-api/internal/application/sales"
	"github.com/andresvp/lubristock-api/internal/application/usecase"
	infrapdf "github.com/andresvp/lubristock-api/internal/infrastructure/pdf"
	"github.com/andresvp/lubristock-api/internal/infrastructure/store"
	httpRouter "github.com/andresvp/lubristock-api/internal/interfaces/http"
	"github.com/andresvp/lubristock-api/pkg/config"
	"github.com/andresvp/lubristock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.UsesDefaultSecret() && cfg.App.Env != "development" {
		log.Warn().Msg("JWT_SECRET no definido, usando secreto de desarrollo; defina uno propio en producción")
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén de datos")
	}
	defer st.Close()
	log.Info().Str("mode", st.Mode).Msg("almacén de datos listo")

	authUC := auth.NewAuthUseCase(st.Employees, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	employeeUC := usecase.NewEmployeeUseCase(st.Employees)
	productUC := usecase.NewProductUseCase(st.Products)
	inventoryUC := inventory.NewUseCase(st.Tx, st.Products, st.Movements)
	pdfGenerator := infrapdf.NewMarotoReceiptGenerator(cfg.App.Name)
	salesUC := sales.NewUseCase(st.Tx, st.Orders, st.Sales, st.Products, st.Employees, pdfGenerator)

	loginLimit, err := httpRouter.LoginRateLimit(cfg.Store.LoginRate)
	if err != nil {
		log.Fatal().Err(err).Str("rate", cfg.Store.LoginRate).Msg("configurar rate limit de login")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "LubriStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": st.Mode})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		EmployeeUC:  employeeUC,
		ProductUC:   productUC,
		InventoryUC: inventoryUC,
		SalesUC:     salesUC,
		JWTSecret:   cfg.JWT.Secret,
		LoginLimit:  loginLimit,
	})

	go func() {
		// El shell de escritorio busca esta línea en stdout para saber que
		// el servidor quedó arriba; mantener addr en el mensaje.
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg(config.ReadyLine)
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
