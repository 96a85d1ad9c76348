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
	_ "github.com/tu-usuario/voonda-api/docs"
	"github.com/tu-usuario/voonda-api/internal/application/auth"
	"github.com/tu-usuario/voonda-api/internal/application/catalog"
	appoperation "github.com/tu-usuario/voonda-api/internal/application/operation"
	"github.com/tu-usuario/voonda-api/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/voonda-api/internal/interfaces/http"
	"github.com/tu-usuario/voonda-api/pkg/config"
	"github.com/tu-usuario/voonda-api/pkg/jwt"
	"github.com/tu-usuario/voonda-api/pkg/logger"
)

// @title        Voonda API
// @version      1.0
// @description  API multi-empresa de operaciones sobre inventario.
// @securityDefinitions.apikey Bearer
// @in   header
// @name Authorization
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

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	itemStateRepo := postgres.NewItemStateRepository(pool)
	partyRepo := postgres.NewPartyRepository(pool)
	operationRepo := postgres.NewOperationRepository(pool)

	authUC := auth.NewAuthUseCase(userRepo, roleRepo, companyRepo,
		jwt.Options{
			Secret:     cfg.JWT.Secret,
			Issuer:     cfg.JWT.Issuer,
			Audience:   cfg.JWT.Audience,
			ExpMinutes: cfg.JWT.Expiration,
		},
		auth.LockoutPolicy{
			MaxFailedAttempts: cfg.Auth.MaxFailedAttempts,
			LockoutDuration:   time.Duration(cfg.Auth.LockoutMinutes) * time.Minute,
		},
	)
	operationUC := appoperation.NewUseCase(operationRepo, itemRepo, partyRepo)
	stateService := catalog.NewStateService(itemStateRepo, time.Duration(cfg.Catalog.StateTTLMinutes)*time.Minute)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.WithComponent("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Voonda API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		OperationUC: operationUC,
		States:      stateService,
		DevMode:     cfg.App.Env == "development",
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
