package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stonestock-ws/internal/handler"
	"go-stonestock-ws/internal/middleware"
	"go-stonestock-ws/internal/printing"
	"go-stonestock-ws/internal/repository"
	"go-stonestock-ws/internal/service"
	"go-stonestock-ws/internal/ws"
	"go-stonestock-ws/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	db := database.ConnectDB()
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := database.SeedLocations(db); err != nil {
		log.Printf("Warning: Failed to seed locations: %v", err)
	}

	// Repositories
	itemRepo := repository.NewItemRepo(db)
	locationRepo := repository.NewLocationRepo(db)
	ledgerRepo := repository.NewLedgerRepo(db)
	snapshotRepo := repository.NewSnapshotRepo(db)
	tradeRepo := repository.NewTradeRepo(db)
	reportRepo := repository.NewReportRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// Seed privileges and roles; the first admin comes from the first-run
	// bootstrap endpoint, not from a hardcoded account.
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	wsHub := ws.NewHub()
	go wsHub.Run()

	pdfRenderer := printing.NewPDFRenderer()
	defer pdfRenderer.Close()

	// Services
	itemService := service.NewItemService(itemRepo, wsHub)
	locationService := service.NewLocationService(locationRepo)
	stockService := service.NewStockService(db, itemRepo, locationRepo, ledgerRepo, snapshotRepo, wsHub)
	tradeService := service.NewTradeService(db, itemRepo, locationRepo, ledgerRepo, snapshotRepo, tradeRepo, wsHub)
	adjustmentService := service.NewAdjustmentService(db, itemRepo, locationRepo, ledgerRepo, snapshotRepo, wsHub)
	reportService := service.NewReportService(reportRepo, ledgerRepo)
	exportService := service.NewExportService(reportRepo, locationRepo, tradeRepo, pdfRenderer)
	importService := service.NewImportService(db, itemRepo, wsHub)
	authService := service.NewAuthService(userRepo, roleRepo, wsHub)
	userService := service.NewUserService(userRepo, roleRepo, privilegeRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	itemHandler := handler.NewItemHandler(itemService)
	locationHandler := handler.NewLocationHandler(locationService)
	stockHandler := handler.NewStockHandler(stockService)
	tradeHandler := handler.NewTradeHandler(tradeService, exportService)
	adjustmentHandler := handler.NewAdjustmentHandler(adjustmentService)
	reportHandler := handler.NewReportHandler(reportService, exportService)
	importHandler := handler.NewImportHandler(importService)
	userHandler := handler.NewUserHandler(userService)

	app := fiber.New(fiber.Config{
		AppName:   "StoneStock v1.0",
		BodyLimit: 20 * 1024 * 1024, // import uploads
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Get("/first-run", authHandler.FirstRunStatus)
	auth.Post("/bootstrap", authHandler.Bootstrap)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/heartbeat", authHandler.Heartbeat)

	// Items
	protected.Get("/items", itemHandler.List)
	protected.Get("/items/sku/:sku", itemHandler.GetBySKU)
	protected.Get("/items/:id", itemHandler.Get)
	protected.Post("/items", middleware.RequirePrivilege("item:create"), itemHandler.Create)
	protected.Put("/items/:id", middleware.RequirePrivilege("item:update"), itemHandler.Update)
	protected.Delete("/items/:id", middleware.RequirePrivilege("item:delete"), itemHandler.Delete)

	// Locations
	protected.Get("/locations", locationHandler.List)
	protected.Post("/locations", middleware.RequirePrivilege("location:manage"), locationHandler.Create)
	protected.Delete("/locations/:id", middleware.RequirePrivilege("location:manage"), locationHandler.Deactivate)

	// Stock views
	protected.Get("/stock/ledger", middleware.RequirePrivilege("transaction:view"), stockHandler.Ledger)
	protected.Get("/stock/balance/:item_id", middleware.RequirePrivilege("transaction:view"), stockHandler.Balance)
	protected.Get("/stock/slabs", middleware.RequirePrivilege("transaction:view"), stockHandler.Slabs)
	protected.Get("/stock/tiles", middleware.RequirePrivilege("transaction:view"), stockHandler.Tiles)
	protected.Get("/stock/blocks", middleware.RequirePrivilege("transaction:view"), stockHandler.Blocks)
	protected.Get("/stock/tables", middleware.RequirePrivilege("transaction:view"), stockHandler.Tables)
	protected.Delete("/stock/:category/:id", middleware.RequirePrivilege("transaction:cancel"), stockHandler.HideSnapshot)

	// Purchases
	protected.Get("/purchases", middleware.RequirePrivilege("transaction:view"), tradeHandler.ListPurchases)
	protected.Get("/purchases/:id", middleware.RequirePrivilege("transaction:view"), tradeHandler.GetPurchase)
	protected.Get("/purchases/:id/invoice", middleware.RequirePrivilege("export:run"), tradeHandler.PurchaseInvoicePDF)
	protected.Post("/purchases", middleware.RequirePrivilege("transaction:create"), tradeHandler.CreatePurchase)
	protected.Post("/purchases/:id/cancel", middleware.RequirePrivilege("transaction:cancel"), tradeHandler.CancelPurchase)

	// Sales
	protected.Get("/sales", middleware.RequirePrivilege("transaction:view"), tradeHandler.ListSales)
	protected.Get("/sales/:id", middleware.RequirePrivilege("transaction:view"), tradeHandler.GetSale)
	protected.Get("/sales/:id/invoice", middleware.RequirePrivilege("export:run"), tradeHandler.SaleInvoicePDF)
	protected.Post("/sales", middleware.RequirePrivilege("transaction:create"), tradeHandler.CreateSale)
	protected.Post("/sales/:id/cancel", middleware.RequirePrivilege("transaction:cancel"), tradeHandler.CancelSale)

	// Returns
	protected.Get("/sale-returns", middleware.RequirePrivilege("transaction:view"), tradeHandler.ListSaleReturns)
	protected.Post("/sale-returns", middleware.RequirePrivilege("transaction:create"), tradeHandler.CreateSaleReturn)
	protected.Post("/sale-returns/:id/cancel", middleware.RequirePrivilege("transaction:cancel"), tradeHandler.CancelSaleReturn)
	protected.Get("/purchase-returns", middleware.RequirePrivilege("transaction:view"), tradeHandler.ListPurchaseReturns)
	protected.Post("/purchase-returns", middleware.RequirePrivilege("transaction:create"), tradeHandler.CreatePurchaseReturn)
	protected.Post("/purchase-returns/:id/cancel", middleware.RequirePrivilege("transaction:cancel"), tradeHandler.CancelPurchaseReturn)

	// Adjustments
	protected.Get("/adjustments", middleware.RequireAnyPrivilege("transaction:view", "adjustment:create"), adjustmentHandler.List)
	protected.Post("/adjustments", middleware.RequirePrivilege("adjustment:create"), adjustmentHandler.Create)
	protected.Post("/adjustments/batch", middleware.RequirePrivilege("adjustment:create"), adjustmentHandler.CreateBatch)

	// Reports & exports
	protected.Get("/reports/dashboard", middleware.RequirePrivilege("report:view"), reportHandler.Dashboard)
	protected.Get("/reports/low-stock", middleware.RequirePrivilege("report:view"), reportHandler.LowStock)
	protected.Get("/reports/locations", middleware.RequirePrivilege("report:view"), reportHandler.LocationSummary)
	protected.Get("/reports/stock", middleware.RequirePrivilege("report:view"), reportHandler.LocationStock)
	protected.Get("/reports/stock/export", middleware.RequirePrivilege("export:run"), reportHandler.ExportStock)

	// Bulk import
	protected.Post("/imports", middleware.RequirePrivilege("import:run"), importHandler.Upload)
	protected.Get("/imports/status", middleware.RequirePrivilege("import:run"), importHandler.Status)
	protected.Post("/imports/stop", middleware.RequirePrivilege("import:run"), importHandler.Stop)

	// User management
	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.List)
	protected.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.Get)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.Create)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.Update)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.Delete)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.SetPrivileges)
	protected.Get("/roles", middleware.RequirePrivilege("user:view"), userHandler.ListRoles)
	protected.Get("/privileges", middleware.RequirePrivilege("user:view"), userHandler.ListPrivileges)

	// WebSocket
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
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}
	log.Println("Server exited")
}
