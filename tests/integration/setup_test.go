package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"nestegg/internal/handlers"
	"nestegg/internal/logger"
	"nestegg/internal/middleware"
	"nestegg/internal/models"
	"nestegg/internal/store"
	"nestegg/internal/validator"
)

const testJWTSecret = "integration-test-secret"

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
	os.Setenv("JWT_SECRET", testJWTSecret)
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
		&models.Category{},
		&models.Asset{},
		&models.HistoryEntry{},
		&models.PortfolioStats{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates the cloud-backed application stack over an isolated
// in-memory SQLite database.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	provider := store.NewCloudProvider(db)

	portfolioHandler := handlers.NewPortfolioHandler(provider)
	assetHandler := handlers.NewAssetHandler(provider)
	categoryHandler := handlers.NewCategoryHandler(provider)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")
	v1.Use(middleware.IdentityMiddleware())

	v1.GET("/portfolio", portfolioHandler.GetOverview)
	v1.GET("/history", portfolioHandler.GetHistory)
	v1.GET("/forecast", portfolioHandler.GetForecast)
	v1.GET("/contributions/reminders", portfolioHandler.GetReminders)

	assets := v1.Group("/assets")
	assets.GET("", portfolioHandler.ListAssets)
	assets.POST("", assetHandler.CreateAsset)
	assets.PATCH("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.POST("/:id/contributions", assetHandler.AddContribution)

	categories := v1.Group("/categories")
	categories.GET("", categoryHandler.ListCategories)
	categories.POST("", categoryHandler.CreateCategory)
	categories.PATCH("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	return &testApp{DB: db, Router: router}
}

// mintToken creates a signed identity token for the given user, the way the
// external authentication collaborator would.
func mintToken(t *testing.T, userID string) string {
	t.Helper()

	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
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

// mustCreateAsset creates an asset and fails the test on any error.
func (app *testApp) mustCreateAsset(t *testing.T, token, body string) map[string]interface{} {
	t.Helper()
	rec := app.request("POST", "/api/v1/assets", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("asset creation failed: %d %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}
