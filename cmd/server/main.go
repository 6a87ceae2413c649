package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"bizbook/internal/config"
	"bizbook/internal/handler"
	"bizbook/internal/middleware"
	"bizbook/internal/model"
	"bizbook/internal/repository"
	"bizbook/internal/service"
	"bizbook/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("Failed to load DB config: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		log.Fatalf("JWT_SECRET_KEY not set in environment")
	}
	jwtExpHoursStr := os.Getenv("JWT_EXPIRATION_HOURS")
	jwtExpHours, err := strconv.ParseInt(jwtExpHoursStr, 10, 64)
	if err != nil {
		log.Printf("Invalid JWT_EXPIRATION_HOURS, defaulting to 24: %v", err)
		jwtExpHours = 24
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080" // Default port
	}

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(dbPool); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(jwtSecret, jwtExpHours)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	customerRepo := repository.NewCustomerRepository(dbPool)
	supplierRepo := repository.NewSupplierRepository(dbPool)
	itemRepo := repository.NewItemRepository(dbPool)
	estimateRepo := repository.NewEstimateRepository(dbPool)
	purchaseRepo := repository.NewPurchaseRepository(dbPool)
	ledgerRepo := repository.NewLedgerRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil)
	userService := service.NewUserService(userRepo)
	itemService := service.NewItemService(itemRepo)
	estimateService := service.NewEstimateService(estimateRepo, itemRepo)
	purchaseService := service.NewPurchaseService(purchaseRepo, itemRepo)
	partyService := service.NewPartyService(customerRepo, supplierRepo, estimateRepo, purchaseRepo)
	reportService := service.NewReportService(ledgerRepo, itemRepo)
	adminService := service.NewAdminService(userRepo)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	itemHandler := handler.NewItemHandler(itemService)
	estimateHandler := handler.NewEstimateHandler(estimateService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	partyHandler := handler.NewPartyHandler(partyService)
	reportHandler := handler.NewReportHandler(reportService)
	adminHandler := handler.NewAdminHandler(adminService)

	// --- Setup Gin Router ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default()
	router.Use(middleware.RequestLogger())

	// Simple CORS middleware (allow all for development)
	// For production, configure specific origins, methods, headers
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	adminRoleMW := middleware.AdminMiddleware()
	ownerRoleMW := middleware.OwnerMiddleware()

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1") // Base path for API
	authHandler.RegisterAuthRoutes(apiGroup)
	userHandler.RegisterUserRoutes(apiGroup, jwtAuthMW, ownerRoleMW)
	itemHandler.RegisterItemRoutes(apiGroup, jwtAuthMW, middleware.RequirePermission(model.PermInventory))
	estimateHandler.RegisterEstimateRoutes(apiGroup, jwtAuthMW, middleware.RequirePermission(model.PermEstimates))
	purchaseHandler.RegisterPurchaseRoutes(apiGroup, jwtAuthMW, middleware.RequirePermission(model.PermPurchases))
	partyHandler.RegisterPartyRoutes(apiGroup, jwtAuthMW, middleware.RequirePermission(model.PermParties))
	reportHandler.RegisterReportRoutes(apiGroup, jwtAuthMW, middleware.RequirePermission(model.PermReports))
	adminHandler.RegisterAdminRoutes(apiGroup, jwtAuthMW, adminRoleMW)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		// Check DB connection
		if err := dbPool.Ping(context.Background()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + serverPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
