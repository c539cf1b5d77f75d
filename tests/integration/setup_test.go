package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"chitieu/internal/handlers"
	"chitieu/internal/logger"
	"chitieu/internal/middleware"
	"chitieu/internal/models"
	"chitieu/internal/realtime"
	"chitieu/internal/services"
	"chitieu/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Hub    *realtime.Hub
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Transaction{},
		&models.Budget{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	hub := realtime.NewHub()
	go hub.Run()

	// Services
	userService := services.NewUserService(db)
	categoryService := services.NewCategoryService(db)
	transactionService := services.NewTransactionService(db, hub)
	budgetService := services.NewBudgetService(db)
	reportService := services.NewReportService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/user/limit", userHandler.SetMonthlyLimit)
	protected.PUT("/user/currency", userHandler.SetDefaultCurrency)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.SetBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetSummary)
	reports.GET("/by-category", reportHandler.GetReportByCategory)
	reports.GET("/budget-progress", reportHandler.GetBudgetProgress)
	reports.GET("/export", reportHandler.ExportTransactions)

	return &testApp{DB: db, Hub: hub, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerAndLogin registers a user and returns the token and user ID.
func (app *testApp) registerAndLogin(t *testing.T, username string) (token string, userID float64) {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"email":"%s@test.com","password":"password123"}`, username, username)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}

	body = fmt.Sprintf(`{"username":%q,"password":"password123"}`, username)
	rec = app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// createCategory creates a category via the API and returns its ID.
func (app *testApp) createCategory(t *testing.T, token, name, kind string) float64 {
	t.Helper()

	body := fmt.Sprintf(`{"name":%q,"kind":%q}`, name, kind)
	rec := app.request("POST", "/api/v1/categories", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["category"].(map[string]interface{})["id"].(float64)
}

// createTransaction creates a transaction via the API and returns its ID.
func (app *testApp) createTransaction(t *testing.T, token, body string) float64 {
	t.Helper()

	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	return result["transaction"].(map[string]interface{})["id"].(float64)
}
