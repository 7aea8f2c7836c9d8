package http

import (
	nethttp "net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/codecai/factu-core/internal/application/auth"
	"github.com/codecai/factu-core/internal/application/billing"
	"github.com/codecai/factu-core/internal/application/usecase"
	"github.com/codecai/factu-core/pkg/logger"
)

// Metrics lo que el servidor necesita de pkg/metrics.
type Metrics interface {
	HTTPObserver
	rateLimitRecorder
	Handler() nethttp.Handler
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName     string
	CORSOrigins string
	Log         *logger.Logger
	Metrics     Metrics

	Gate         *auth.Gate
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	RoleUC       *usecase.RoleUseCase
	ShopUC       *usecase.ShopUseCase
	BillUC       *billing.BillUseCase
	BillDetailUC *billing.BillDetailUseCase
	BillPDF      *billing.PDFUseCase

	RateLimitStore rateLimiterStore
	AuthRateLimit  RateLimitPolicy
}

// NewApp crea la app Fiber con el manejador de errores y los middlewares globales.
func NewApp(deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      deps.AppName,
		ErrorHandler: ErrorHandler(deps.Log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	app.Use(recover.New())
	app.Use(RequestIDMiddleware())
	var obs HTTPObserver
	if deps.Metrics != nil {
		obs = deps.Metrics
	}
	app.Use(RequestLogger(deps.Log, obs))
	if deps.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: deps.CORSOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + HeaderRequestID,
		}))
	}
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	var rec rateLimitRecorder
	if deps.Metrics != nil {
		rec = deps.Metrics
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	authMW := AuthMiddleware(deps.Gate)
	// guard: autenticación + autorización según Policy, luego el handler.
	guard := func(op Operation, h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{authMW, Require(deps.Gate, op), h}
	}

	// Auth (login/register públicos con rate limit)
	limiter := RateLimit(deps.AuthRateLimit, deps.RateLimitStore, rec, deps.Log)
	authGroup := app.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", limiter, authHandler.Login)
	authGroup.Post("/register", limiter, authHandler.Register)
	authGroup.Get("/profile", guard(OpAuthProfile, authHandler.Profile)...)
	authGroup.Post("/logout", guard(OpAuthLogout, authHandler.Logout)...)

	// Users
	users := app.Group("/users")
	userHandler := NewUserHandler(deps.UserUC)
	users.Post("/", guard(OpUserCreate, userHandler.Create)...)
	users.Get("/", guard(OpUserList, userHandler.List)...)
	users.Get("/me", guard(OpUserMe, userHandler.Me)...)
	users.Get("/:id", guard(OpUserGet, userHandler.GetByID)...)
	users.Patch("/:id", guard(OpUserUpdate, userHandler.Update)...)
	users.Delete("/:id", guard(OpUserDelete, userHandler.Delete)...)

	// Roles
	roles := app.Group("/roles")
	roleHandler := NewRoleHandler(deps.RoleUC)
	roles.Post("/", guard(OpRoleCreate, roleHandler.Create)...)
	roles.Get("/", guard(OpRoleList, roleHandler.List)...)
	roles.Get("/:id", guard(OpRoleGet, roleHandler.GetByID)...)
	roles.Patch("/:id", guard(OpRoleUpdate, roleHandler.Update)...)
	roles.Delete("/:id", guard(OpRoleDelete, roleHandler.Delete)...)

	// Shops
	shops := app.Group("/shops")
	shopHandler := NewShopHandler(deps.ShopUC)
	shops.Post("/", guard(OpShopCreate, shopHandler.Create)...)
	shops.Get("/", guard(OpShopList, shopHandler.List)...)
	shops.Get("/my-shops", guard(OpShopMine, shopHandler.Mine)...)
	shops.Get("/:id", guard(OpShopGet, shopHandler.GetByID)...)
	shops.Patch("/:id", guard(OpShopUpdate, shopHandler.Update)...)
	shops.Post("/:id/assign-users", guard(OpShopAssign, shopHandler.AssignUsers)...)
	shops.Delete("/:shopId/users/:userId", guard(OpShopRemoveUser, shopHandler.RemoveUser)...)
	shops.Delete("/:id/permanent", guard(OpShopHardDelete, shopHandler.HardDelete)...)
	shops.Delete("/:id", guard(OpShopSoftDelete, shopHandler.SoftDelete)...)

	// Bills
	bills := app.Group("/bill")
	billHandler := NewBillHandler(deps.BillUC, deps.BillPDF)
	bills.Post("/", guard(OpBillCreate, billHandler.Create)...)
	bills.Get("/", guard(OpBillList, billHandler.List)...)
	bills.Get("/user/:userId", guard(OpBillListByUser, billHandler.ListByUser)...)
	bills.Get("/bill-number/:billNumber", guard(OpBillGetByNumber, billHandler.GetByNumber)...)
	bills.Get("/:id/pdf", guard(OpBillPDF, billHandler.DownloadPDF)...)
	bills.Get("/:id", guard(OpBillGet, billHandler.GetByID)...)
	bills.Patch("/:id", guard(OpBillUpdate, billHandler.Update)...)
	bills.Delete("/:id", guard(OpBillDelete, billHandler.Delete)...)

	// Bill details
	details := app.Group("/bill-details")
	detailHandler := NewBillDetailHandler(deps.BillDetailUC)
	details.Post("/", guard(OpBillDetailCreate, detailHandler.Create)...)
	details.Get("/", guard(OpBillDetailList, detailHandler.List)...)
	details.Get("/bill/:billId", guard(OpBillDetailListByBill, detailHandler.ListByBill)...)
	details.Get("/:id", guard(OpBillDetailGet, detailHandler.GetByID)...)
	details.Patch("/:id", guard(OpBillDetailUpdate, detailHandler.Update)...)
	details.Delete("/:id", guard(OpBillDetailDelete, detailHandler.Delete)...)
}
