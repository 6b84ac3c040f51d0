package main

import (
	"context"
	"log"
	"os"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Mortuary Management API
// @version         1.0
// @description     Admin backend for mortuary operations: deceased records, embalming cases, invoicing, payroll, fleet, and inventory.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := getenv("DB_HOST", "localhost")
	dbPort := getenv("DB_PORT", "5432")
	dbUser := getenv("DB_USER", "postgres")
	dbPassword := getenv("DB_PASSWORD", "postgres")
	dbName := getenv("DB_NAME", "postgres")
	dbSslMode := getenv("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	taxRate, err := decimal.NewFromString(getenv("TAX_RATE", "0.1"))
	if err != nil {
		log.Fatalf("Invalid TAX_RATE: %v", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	deceasedRepo := repository.NewDeceasedRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	payslipRepo := repository.NewPayslipRepository(db)
	tripRepo := repository.NewTripRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	contactRepo := repository.NewContactRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	userService := service.NewUserService(userRepo)
	roleService := service.NewRoleService(roleRepo, txManager)
	deceasedService := service.NewDeceasedService(deceasedRepo, auditRepo, txManager)
	caseService := service.NewCaseService(caseRepo, deceasedRepo, employeeRepo, auditRepo, txManager)
	catalogService := service.NewCatalogService(catalogRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, catalogRepo, deceasedRepo, auditRepo, txManager, taxRate)
	staffService := service.NewStaffService(employeeRepo, txManager)
	payrollService := service.NewPayrollService(payslipRepo, employeeRepo, auditRepo, txManager)
	fleetService := service.NewFleetService(tripRepo, vehicleRepo, employeeRepo, deceasedRepo, auditRepo, txManager, wsHub)
	inventoryService := service.NewInventoryService(inventoryRepo, auditRepo, txManager, wsHub)
	contactService := service.NewContactService(contactRepo, deceasedRepo, auditRepo, txManager)
	auditService := service.NewAuditService(auditRepo)
	statisticsService := service.NewStatisticsService(deceasedRepo, caseRepo, tripRepo, inventoryRepo, invoiceRepo)

	// Initialize Handlers
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	deceasedHandler := handler.NewDeceasedHandler(deceasedService)
	caseHandler := handler.NewCaseHandler(caseService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	staffHandler := handler.NewStaffHandler(staffService)
	payrollHandler := handler.NewPayrollHandler(payrollService)
	fleetHandler := handler.NewFleetHandler(fleetService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	contactHandler := handler.NewContactHandler(contactService)
	auditHandler := handler.NewAuditHandler(auditService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Permission middleware needs DB access for role lookups
	middleware.InitPermissionMiddleware(db)

	if err := roleService.SeedDefaultRolesAndPermissions(context.Background()); err != nil {
		log.Fatalf("Failed to seed roles and permissions: %v", err)
	}

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// API Routing
	root := router.Group("")
	userHandler.RegisterRoutes(root)
	roleHandler.RegisterRoutes(root)
	deceasedHandler.RegisterRoutes(root)
	caseHandler.RegisterRoutes(root)
	catalogHandler.RegisterRoutes(root)
	invoiceHandler.RegisterRoutes(root)
	staffHandler.RegisterRoutes(root)
	payrollHandler.RegisterRoutes(root)
	fleetHandler.RegisterRoutes(root)
	inventoryHandler.RegisterRoutes(root)
	contactHandler.RegisterRoutes(root)
	auditHandler.RegisterRoutes(root)
	statisticsHandler.RegisterRoutes(root)

	port := getenv("PORT", "8080")
	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
