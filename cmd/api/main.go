package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"chitieu/internal/config"
	"chitieu/internal/database"
	"chitieu/internal/handlers"
	"chitieu/internal/logger"
	"chitieu/internal/middleware"
	"chitieu/internal/realtime"
	"chitieu/internal/scan"
	"chitieu/internal/services"
	"chitieu/internal/validator"

	_ "chitieu/internal/docs" // Import swagger docs
)

// @title           Chi Tieu API
// @version         1.0
// @description     Chi Tieu is a personal expense tracker: record transactions, organize them into categories, set monthly budgets, and follow spending through reports and receipt scanning.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Create database manager
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Start the realtime hub
	hub := realtime.NewHub()
	go hub.Run()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, hub)
	budgetService := services.NewBudgetService(db)
	reportService := services.NewReportService(db)

	var recognizer scan.Recognizer
	if appConfig.MindeeAPIKey != "" {
		recognizer = scan.NewClient(appConfig.MindeeAPIKey, appConfig.MindeeModelID)
	} else {
		log.Warn("MINDEE_API_KEY not set, receipt scanning disabled")
	}
	scanService := services.NewScanService(db, recognizer, transactionService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	reportHandler := handlers.NewReportHandler(reportService)
	scanHandler := handlers.NewScanHandler(scanService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// WebSocket endpoint for realtime refresh events
	router.GET("/ws", realtime.ServeWS(hub))

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/user/limit", userHandler.SetMonthlyLimit)
	protected.PUT("/user/currency", userHandler.SetDefaultCurrency)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.SetBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Report routes
	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetSummary)
	reports.GET("/by-category", reportHandler.GetReportByCategory)
	reports.GET("/budget-progress", reportHandler.GetBudgetProgress)
	reports.GET("/export", reportHandler.ExportTransactions)

	// Receipt scanning
	protected.POST("/scan", scanHandler.ScanReceipt)

	log.Infof("Starting Chi Tieu backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
