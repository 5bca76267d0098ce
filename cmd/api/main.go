package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	httpRouter "github.com/jhoicas/libroteca-api/internal/interfaces/http"
	"github.com/jhoicas/libroteca-api/internal/ledger"
	"github.com/jhoicas/libroteca-api/internal/ledger/httpledger"
	"github.com/jhoicas/libroteca-api/internal/ledger/memledger"
	"github.com/jhoicas/libroteca-api/internal/ledger/pgledger"
	"github.com/jhoicas/libroteca-api/internal/model"
	"github.com/jhoicas/libroteca-api/internal/service"
	"github.com/jhoicas/libroteca-api/pkg/config"
	"github.com/jhoicas/libroteca-api/pkg/logger"

	_ "github.com/jhoicas/libroteca-api/docs"
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
		Str("store", cfg.Store.Backend).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var client ledger.Client
	switch cfg.Store.Backend {
	case config.BackendPostgres:
		pool, err := pgledger.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		client = pgledger.New(pool)
	case config.BackendMemory:
		client = memledger.New()
	default:
		client = httpledger.New(cfg.Ledger, log)
	}

	if err := client.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("inicializar el record store")
	}

	userModel := model.NewUserModel(client, log)
	bookModel := model.NewBookModel(client, log)
	reviewModel := model.NewReviewModel(client, log)

	if err := userModel.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Str("schema", userModel.SchemaName()).Msg("declarar schema")
	}
	if err := bookModel.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Str("schema", bookModel.SchemaName()).Msg("declarar schema")
	}
	if err := reviewModel.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Str("schema", reviewModel.SchemaName()).Msg("declarar schema")
	}

	userSvc := service.NewUserService(userModel, cfg.JWT, log)
	bookSvc := service.NewBookService(bookModel, log)
	reviewSvc := service.NewReviewService(reviewModel, bookSvc, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.Rate.Max,
		Expiration: cfg.Rate.Window,
	}))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Libroteca API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Users:     userSvc,
		Books:     bookSvc,
		Reviews:   reviewSvc,
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
