package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/database/migration"
	dbpostgres "skillswap/internal/database/postgres"
	"skillswap/internal/database/seeder"
	"skillswap/internal/delivery/http/middleware"
	"skillswap/internal/delivery/http/routes"
	"skillswap/internal/infrastructure/cache"
	"skillswap/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
	DB    database.DB
	Cache *cache.Redis
	Hub   *ws.Hub
}

func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	if logger == nil {
		logger = log.Default()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	runner := migration.Runner{Dir: cfg.App.MigrationsDir}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	if err := seeder.RunAll(ctx, db, logger); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	redisCache := cache.NewRedis(logger)

	hub := ws.NewHub(logger)
	go hub.Run()
	ws.SetDefaultHub(hub)

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	accessLog := middleware.NewAccessLogMiddleware(logger)
	f.Use(accessLog.Middleware())

	errMw := middleware.NewErrorMiddleware()
	f.Use(errMw.Middleware())

	registry := routes.NewRegistry(cfg, db, redisCache, hub, logger)
	registry.Register(f)

	a := &App{Fiber: f, DB: db, Cache: redisCache, Hub: hub}

	cleanup := func() error {
		_ = redisCache.Close()
		return db.Close()
	}
	return a, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
