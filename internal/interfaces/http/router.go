package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/voonda-api/internal/application/auth"
	"github.com/tu-usuario/voonda-api/internal/application/catalog"
	appoperation "github.com/tu-usuario/voonda-api/internal/application/operation"
	"github.com/tu-usuario/voonda-api/internal/domain/entity"
)

// Recursos de la matriz de permisos referenciados por las rutas.
const (
	ResourceOperations = "operations"
	ResourceUsers      = "users"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	OperationUC *appoperation.UseCase
	States      *catalog.StateService
	DevMode     bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	errs := errorMapper{dev: deps.DevMode}
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC, errs)
	operationHandler := NewOperationHandler(deps.OperationUC, errs)
	catalogHandler := NewCatalogHandler(deps.States, errs)

	// Auth (login público; el resto exige token)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)

	authProtected := authGroup.Group("/", AuthMiddleware(deps.AuthUC, errs))
	authProtected.Get("/me", authHandler.Me)
	authProtected.Post("/register", RequirePermission(ResourceUsers, entity.ActionCreate, errs), authHandler.Register)
	authProtected.Post("/unlock", authHandler.Unlock) // solo administrador general, chequeado en el usecase

	// Rutas protegidas (Bearer + permisos + scope de empresa)
	protected := api.Group("/", AuthMiddleware(deps.AuthUC, errs))

	ops := protected.Group("/operations")
	ops.Get("/summary", RequirePermission(ResourceOperations, entity.ActionRead, errs), operationHandler.Summary)
	ops.Get("/", RequirePermission(ResourceOperations, entity.ActionRead, errs), operationHandler.List)
	ops.Post("/", RequirePermission(ResourceOperations, entity.ActionCreate, errs), operationHandler.Create)
	ops.Get("/:id", RequirePermission(ResourceOperations, entity.ActionRead, errs), operationHandler.GetByID)
	ops.Put("/:id", RequirePermission(ResourceOperations, entity.ActionUpdate, errs), operationHandler.Update)
	ops.Delete("/:id", RequirePermission(ResourceOperations, entity.ActionDelete, errs), operationHandler.Delete)

	// Catálogo (lectura autenticada)
	cat := protected.Group("/catalog")
	cat.Get("/item-states", catalogHandler.ListItemStates)
}
