package main

import (
	"context"
	"errors"
	"log"
	"os"

	"erp-pdv-api/internal/cache"
	"erp-pdv-api/internal/config"
	"erp-pdv-api/internal/handler"
	"erp-pdv-api/internal/repository"
	"erp-pdv-api/internal/service"
	"erp-pdv-api/internal/ws"
	"erp-pdv-api/pkg/database"
	"erp-pdv-api/pkg/jwt"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.DBDriver, cfg.DBDSN, database.ParseLogLevel(cfg.DBLogLevel))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Repositories and access control seed
	productRepo := repository.NewProductRepo(db)
	moveRepo := repository.NewStockMoveRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := service.SeedAccessControl(privilegeRepo, roleRepo, userRepo, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed access control: %v", err)
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Optional summary cache
	var summaryCache service.Cache
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cache.Connect(context.Background(), cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		summaryCache = cache.New(redisClient, "erp", cfg.SummaryCacheTTL)
		log.Println("Summary cache enabled (redis)")
	}

	// 6. Dependency Injection (Wiring Layers)
	tokens := jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL)

	invService := service.NewInventoryService(db, productRepo, moveRepo, supplierRepo, auditRepo, wsHub, summaryCache)
	saleService := service.NewSaleService(db, productRepo, moveRepo, saleRepo, auditRepo, wsHub, summaryCache)
	supplierService := service.NewSupplierService(db, supplierRepo, productRepo, auditRepo)
	reportService := service.NewReportService(productRepo, moveRepo, summaryCache, service.ReportOptions{
		LowStockThreshold: cfg.LowStockThreshold,
		Location:          cfg.ReportLocation,
		RangeLimit:        cfg.StockMovesRangeLimit,
	})
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(db, userRepo, privilegeRepo, roleRepo, auditRepo)

	reconcile := service.NewReconcileJob(reportService, cfg.ReconcileCron)
	if err := reconcile.Start(); err != nil {
		log.Fatalf("Failed to schedule ledger reconciliation: %v", err)
	}

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName:      "ERP PDV API v1.0",
		ErrorHandler: handler.ErrorHandler,
	})

	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.CORSOrigins}))

	handler.RegisterRoutes(app, handler.Router{
		Tokens:    tokens,
		UserRepo:  userRepo,
		Hub:       wsHub,
		Health:    handler.NewHealthHandler(db),
		Auth:      handler.NewAuthHandler(authService),
		Inventory: handler.NewInventoryHandler(invService),
		Sales:     handler.NewSaleHandler(saleService),
		Suppliers: handler.NewSupplierHandler(supplierService),
		Reports:   handler.NewReportHandler(reportService),
		Users:     handler.NewUserHandler(userService),
		Roles:     handler.NewRoleHandler(roleRepo, privilegeRepo, auditRepo),
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()
	log.Printf("API available at http://localhost:%s/api/v1", cfg.Port)

	// 8. Graceful Shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// one operation so storage closes only after in-flight requests finish
			"erp-api": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				errs := []error{app.ShutdownWithContext(ctx)}
				wsHub.Stop()
				errs = append(errs, reconcile.Stop(ctx))
				if redisClient != nil {
					errs = append(errs, redisClient.Close())
				}
				if sqlDB, err := db.DB(); err == nil {
					errs = append(errs, sqlDB.Close())
				}
				return errors.Join(errs...)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Server exited with code: %d", exitCode)
	os.Exit(exitCode)
}
