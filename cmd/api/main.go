package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-student-center/internal/cache"
	"go-student-center/internal/config"
	"go-student-center/internal/handler"
	"go-student-center/internal/middleware"
	"go-student-center/internal/repository"
	"go-student-center/internal/service"
	"go-student-center/internal/ws"
	"go-student-center/pkg/database"
	"go-student-center/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}

	roleRepo := repository.NewRoleRepo(db)
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		zapLogger.Warn("Failed to seed roles", zap.Error(err))
	}

	// 3. Optional summary cache
	var summary service.SummaryStore
	redisClient, err := database.ConnectRedis(cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Warn("Redis unavailable, dashboard cache disabled", zap.Error(err))
	} else if redisClient != nil {
		defer redisClient.Close()
		summary = cache.NewSummaryCache(redisClient, cfg.Redis.SummaryTTL, zapLogger)
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub(zapLogger)
	go wsHub.Run(ctx)

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	eventRepo := repository.NewEventRepo(db)
	treasuryRepo := repository.NewTreasuryRepo(db)
	dashboardRepo := repository.NewDashboardRepo(db)
	memberRepo := repository.NewMemberRepo(db)
	periodRepo := repository.NewPeriodRepo(db)

	threshold := cfg.Business.LowStockThreshold
	saleService := service.NewSaleService(db, saleRepo, productRepo, eventRepo, treasuryRepo, wsHub, summary, zapLogger)
	productService := service.NewProductService(db, productRepo, saleRepo, eventRepo, treasuryRepo, wsHub, summary, zapLogger, threshold)
	eventService := service.NewEventService(db, eventRepo, periodRepo, saleRepo, treasuryRepo, summary, zapLogger)
	treasuryService := service.NewTreasuryService(treasuryRepo, eventRepo, wsHub, summary, zapLogger)
	dashboardService := service.NewDashboardService(dashboardRepo, summary, zapLogger, threshold)
	memberService := service.NewMemberService(memberRepo, roleRepo, zapLogger)
	periodService := service.NewPeriodService(periodRepo, memberRepo, roleRepo, summary, zapLogger)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.Server.AppName,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(zapLogger))
	app.Use(middleware.Actor())

	// 7. Routes
	app.Get("/health", handler.NewHealthHandler(db, cfg.Server.AppName).Check)
	handler.Register(app, handler.Handlers{
		Sale:      handler.NewSaleHandler(saleService),
		Product:   handler.NewProductHandler(productService),
		Event:     handler.NewEventHandler(eventService),
		Treasury:  handler.NewTreasuryHandler(treasuryService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Member:    handler.NewMemberHandler(memberService),
		Period:    handler.NewPeriodHandler(periodService),
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			zapLogger.Panic("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	stop()
	if err := app.Shutdown(); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}
