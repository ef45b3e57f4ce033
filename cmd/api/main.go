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

	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/auth"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/cart"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/confirm"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/dto"
	appreport "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/report"
	appsale "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/sale"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/state"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/application/usecase"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/entity"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/domain/repository"
	infrapdf "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/infrastructure/pdf"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/infrastructure/postgres"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/infrastructure/rediscache"
	httpRouter "github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/internal/interfaces/http"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/pkg/config"
	"github.com/oviedoleonel/sistema-de-fcturacio-de-javi-ssj-kiosco/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	cartStore := rediscache.NewCartStore(rediscache.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB))
	if err := cartStore.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer cartStore.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Feed de snapshots: tras cada mutación se relee el estado completo del
	// usuario y se publica a sus suscriptores SSE.
	feed := state.NewFeed(func(ctx context.Context, userID string) (*state.Snapshot, error) {
		products, err := productRepo.ListByUser(userID)
		if err != nil {
			return nil, err
		}
		sales, err := saleRepo.ListByUser(userID)
		if err != nil {
			return nil, err
		}
		snap := &state.Snapshot{TakenAt: time.Now()}
		for _, p := range products {
			snap.Products = append(snap.Products, *p)
		}
		for _, s := range sales {
			snap.Sales = append(snap.Sales, *s)
		}
		return snap, nil
	})

	gate := confirm.NewGate(time.Duration(cfg.POS.ConfirmTTLSeconds) * time.Second)
	cartMgr := cart.NewManager(cartStore, productRepo)
	productUC := usecase.NewProductUseCase(productRepo, gate, feed)
	confirmUC := appsale.NewConfirmSaleUseCase(txRunner, cartMgr, saleRepo, feed)
	resetUC := appsale.NewResetSalesUseCase(saleRepo, gate, feed)
	reportUC := appreport.NewUseCase(saleRepo, productRepo, infrapdf.NewMarotoReportGenerator(), int64(cfg.POS.StockThreshold))
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Usuario inicial en dev para poder loguearse sin seed manual.
	if cfg.App.Env == "development" {
		seedAdmin(authUC, userRepo, log)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(log.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: productUC,
		CartMgr:   cartMgr,
		ConfirmUC: confirmUC,
		ResetUC:   resetUC,
		ReportUC:  reportUC,
		Feed:      feed,
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

// seedAdmin crea el usuario admin de desarrollo si no existe.
func seedAdmin(authUC *auth.AuthUseCase, userRepo repository.UserRepository, log *logger.Logger) {
	const devEmail = "admin@kiosco.local"
	existing, err := userRepo.GetByEmail(devEmail)
	if err != nil || existing != nil {
		return
	}
	_, err = authUC.RegisterUser(dto.RegisterRequest{
		Email:    devEmail,
		Password: "admin123!",
		Name:     "Admin",
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		log.Warn().Err(err).Msg("no se pudo crear el usuario admin de desarrollo")
		return
	}
	log.Info().Str("email", devEmail).Msg("usuario admin de desarrollo creado (password: admin123!)")
}
