package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/handler"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/middleware"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/model"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/repository"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/service"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/internal/ws"
	"github.com/Antriksh1305/kunal-telecom-shop-backend/pkg/database"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Role{}, &model.Permission{}, &model.User{},
		&model.ProductCategory{}, &model.AccessoryCategory{},
		&model.Product{}, &model.Accessory{},
		&model.Buyer{},
		&model.Transaction{}, &model.TransactionProduct{}, &model.TransactionAccessory{},
	)

	// 3. Seed default permissions, roles, and admin user
	seedRolesPermissionsAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	accessoryRepo := repository.NewAccessoryRepo(db)
	productCategoryRepo := repository.NewProductCategoryRepo(db)
	accessoryCategoryRepo := repository.NewAccessoryCategoryRepo(db)
	buyerRepo := repository.NewBuyerRepo(db)
	transactionRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	permissionRepo := repository.NewPermissionRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	ledgerService := service.NewLedgerService(productRepo, accessoryRepo, buyerRepo, transactionRepo, db, wsHub)
	catalogService := service.NewCatalogService(productRepo, accessoryRepo, productCategoryRepo, accessoryCategoryRepo, db, wsHub)
	buyerService := service.NewBuyerService(buyerRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, roleRepo, permissionRepo)
	reconciler := service.NewReconciler(db)

	transactionHandler := handler.NewTransactionHandler(ledgerService)
	productHandler := handler.NewProductHandler(catalogService)
	accessoryHandler := handler.NewAccessoryHandler(catalogService)
	categoryHandler := handler.NewCategoryHandler(catalogService)
	buyerHandler := handler.NewBuyerHandler(buyerService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	adminHandler := handler.NewAdminHandler(transactionRepo, reconciler)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Kunal Telecom Shop Backend v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/signup", userHandler.Signup)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Product routes
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", middleware.RequirePermission("manage_product"), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePermission("manage_product"), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePermission("manage_product"), productHandler.DeleteProduct)

	// Accessory routes
	protected.Get("/accessories", accessoryHandler.GetAccessories)
	protected.Get("/accessories/:id", accessoryHandler.GetAccessory)
	protected.Post("/accessories", middleware.RequirePermission("manage_accessory"), accessoryHandler.CreateAccessory)
	protected.Put("/accessories/:id", middleware.RequirePermission("manage_accessory"), accessoryHandler.UpdateAccessory)
	protected.Delete("/accessories/:id", middleware.RequirePermission("manage_accessory"), accessoryHandler.DeleteAccessory)

	// Category routes
	protected.Get("/product-categories", categoryHandler.GetProductCategories)
	protected.Post("/product-categories", middleware.RequirePermission("manage_product_categories"), categoryHandler.CreateProductCategory)
	protected.Delete("/product-categories/:id", middleware.RequirePermission("manage_product_categories"), categoryHandler.DeleteProductCategory)
	protected.Get("/accessory-categories", categoryHandler.GetAccessoryCategories)
	protected.Post("/accessory-categories", middleware.RequirePermission("manage_accessory_categories"), categoryHandler.CreateAccessoryCategory)
	protected.Delete("/accessory-categories/:id", middleware.RequirePermission("manage_accessory_categories"), categoryHandler.DeleteAccessoryCategory)

	// Buyer routes
	protected.Get("/buyers", buyerHandler.GetAllBuyers)
	protected.Get("/buyers/active", buyerHandler.GetActiveBuyers)
	protected.Get("/buyers/inactive", buyerHandler.GetInactiveBuyers)
	protected.Get("/buyers/:buyerId", buyerHandler.GetBuyer)
	protected.Post("/buyers", middleware.RequirePermission("manage_buyers"), buyerHandler.CreateBuyer)
	protected.Put("/buyers/:buyerId", middleware.RequirePermission("manage_buyers"), buyerHandler.UpdateBuyer)
	protected.Put("/buyers/:buyerId/soft-delete", middleware.RequirePermission("manage_buyers"), buyerHandler.ToggleActive)

	// Transaction routes (the ledger surface)
	protected.Get("/transactions", transactionHandler.GetTransactions)
	protected.Get("/transactions/buyer/:buyerId", transactionHandler.GetTransactionsForBuyer)
	protected.Get("/transactions/:transactionId", transactionHandler.GetTransactionItems)
	protected.Post("/transactions", middleware.RequirePermission("manage_transactions"), transactionHandler.CreateTransaction)
	protected.Post("/transactions/pay-udhar", middleware.RequirePermission("manage_transactions"), transactionHandler.PayUdhar)
	protected.Delete("/transactions/:transactionId", middleware.RequirePermission("manage_transactions"), transactionHandler.DeleteTransaction)
	protected.Put("/transactions/:transactionId/paid-amount", middleware.RequirePermission("manage_transactions"), transactionHandler.UpdatePaidAmount)
	protected.Put("/transactions/product-lines/:lineId", middleware.RequirePermission("manage_transactions"), transactionHandler.UpdateProductLine)
	protected.Put("/transactions/accessory-lines/:lineId", middleware.RequirePermission("manage_transactions"), transactionHandler.UpdateAccessoryLine)

	// User management routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Put("/users/:id/approve", middleware.RequirePermission("disable_employee_account"), userHandler.ApproveUser)
	protected.Put("/users/:id/active", middleware.RequirePermission("disable_employee_account"), userHandler.SetActive)
	protected.Delete("/users/:id", middleware.RequirePermission("delete_employee_account"), userHandler.DeleteUser)
	protected.Put("/users/:id/permissions", middleware.RequirePermission("disable_employee_account"), userHandler.UpdatePermissions)

	// Permissions route (list all available permissions)
	protected.Get("/permissions", func(c *fiber.Ctx) error {
		permissions, err := permissionRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch permissions"})
		}
		return c.JSON(permissions)
	})

	// Admin routes
	adminOnly := middleware.RequireAnyPermission("disable_employee_account", "delete_employee_account")
	protected.Get("/admin/stats", adminOnly, adminHandler.GetShopStats)
	protected.Get("/admin/sales-summary", adminOnly, adminHandler.GetSalesSummary)
	protected.Get("/admin/reconcile", adminOnly, adminHandler.Reconcile)

	// WebSocket route
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

// seedRolesPermissionsAndAdmin creates default permissions, roles, and the
// admin user if they don't exist
func seedRolesPermissionsAndAdmin(db *gorm.DB) {
	permissionRepo := repository.NewPermissionRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := permissionRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed permissions: %v", err)
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	allPermissions, err := permissionRepo.FindAll()
	if err != nil {
		log.Printf("Warning: Failed to load permissions, skipping role assignment: %v", err)
		return
	}

	// ADMIN gets everything
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Permissions) == 0 {
		db.Model(adminRole).Association("Permissions").Replace(allPermissions)
		log.Println("ADMIN role assigned all permissions")
	}

	// EMPLOYEE gets day-to-day permissions, no staff management
	employeeRole, err := roleRepo.FindByCode(model.RoleEmployee)
	if err == nil && len(employeeRole.Permissions) == 0 {
		employeePermissions := []model.Permission{}
		for _, p := range allPermissions {
			if p.Code != "disable_employee_account" && p.Code != "delete_employee_account" {
				employeePermissions = append(employeePermissions, p)
			}
		}
		db.Model(employeeRole).Association("Permissions").Replace(employeePermissions)
		log.Println("EMPLOYEE role assigned limited permissions")
	}

	// Default admin account
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		adminRole, _ := roleRepo.FindByCode(model.RoleAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FirstName:   "Shop",
			LastName:    "Administrator",
			RoleID:      &adminRole.ID,
			IsApproved:  true,
			IsActive:    true,
			Permissions: adminRole.Permissions,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (ADMIN)")
		}
	}
}
