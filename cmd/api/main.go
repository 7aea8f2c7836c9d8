package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	"github.com/codecai/factu-core/internal/application/auth"
	"github.com/codecai/factu-core/internal/application/billing"
	"github.com/codecai/factu-core/internal/application/usecase"
	infrapdf "github.com/codecai/factu-core/internal/infrastructure/pdf"
	"github.com/codecai/factu-core/internal/infrastructure/postgres"
	httpRouter "github.com/codecai/factu-core/internal/interfaces/http"
	"github.com/codecai/factu-core/pkg/config"
	"github.com/codecai/factu-core/pkg/logger"
	"github.com/codecai/factu-core/pkg/metrics"
	"github.com/codecai/factu-core/pkg/migrate"
	"github.com/codecai/factu-core/pkg/redis"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		panic("configuración inválida: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
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

	if cfg.DB.AutoMigrate {
		db := postgres.OpenDB(pool)
		if err := migrate.Up(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		_ = db.Close()
		log.Info().Msg("migraciones aplicadas")
	}

	m := metrics.New()

	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewRoleRepository(pool)
	shopRepo := postgres.NewShopRepository(pool)
	billRepo := postgres.NewBillRepository(pool)
	detailRepo := postgres.NewBillDetailRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// PDF: representación imprimible de la factura
	pdfGenerator := infrapdf.NewMarotoPDFGenerator(infrapdf.Issuer{
		Name:    cfg.Issuer.Name,
		RUC:     cfg.Issuer.RUC,
		Address: cfg.Issuer.Address,
	})

	deps := httpRouter.RouterDeps{
		AppName:     cfg.App.Name,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Log:         log,
		Metrics:     m,
		Gate:        auth.NewGate(cfg.JWT.Secret, userRepo, roleRepo, cfg.Auth.ExpiryWarning, log),
		AuthUC: auth.NewAuthUseCase(userRepo, roleRepo, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}, cfg.Auth.DefaultRole),
		UserUC:       usecase.NewUserUseCase(userRepo, roleRepo, billRepo),
		RoleUC:       usecase.NewRoleUseCase(roleRepo),
		ShopUC:       usecase.NewShopUseCase(shopRepo, userRepo, txRunner, log),
		BillUC:       billing.NewBillUseCase(billRepo, detailRepo, userRepo, txRunner),
		BillDetailUC: billing.NewBillDetailUseCase(billRepo, detailRepo, txRunner, m),
		BillPDF:      billing.NewPDFUseCase(billRepo, detailRepo, pdfGenerator),
		AuthRateLimit: httpRouter.RateLimitPolicy{
			Name:   "auth",
			Limit:  cfg.RateLimit.LoginPerMinute,
			Window: time.Minute,
		},
	}

	// Redis es opcional: sin él no hay rate limit en /auth.
	if cfg.Redis.Enabled() {
		rdb, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, rate limit desactivado")
		} else {
			defer rdb.Close()
			deps.RateLimitStore = rdb
		}
	}

	app := httpRouter.NewApp(deps)

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Factu Core API",
		}))
	}

	httpRouter.Router(app, deps)

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
