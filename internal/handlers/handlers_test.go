package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"nestegg/internal/blob"
	"nestegg/internal/models"
	"nestegg/internal/store"
	"nestegg/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

// newTestRouter wires all handlers over a fresh blob-backed portfolio, which
// comes pre-seeded with the default categories.
func newTestRouter(t *testing.T) (*gin.Engine, store.Portfolio) {
	t.Helper()

	localStore, err := store.NewLocalStore(blob.NewMemStore())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	provider := store.NewLocalProvider(localStore)

	portfolioHandler := NewPortfolioHandler(provider)
	assetHandler := NewAssetHandler(provider)
	categoryHandler := NewCategoryHandler(provider)

	r := gin.New()
	auth := r.Group("", injectUserID("test-user"))
	auth.GET("/portfolio", portfolioHandler.GetOverview)
	auth.GET("/history", portfolioHandler.GetHistory)
	auth.GET("/forecast", portfolioHandler.GetForecast)
	auth.GET("/contributions/reminders", portfolioHandler.GetReminders)
	auth.GET("/assets", portfolioHandler.ListAssets)
	auth.POST("/assets", assetHandler.CreateAsset)
	auth.PATCH("/assets/:id", assetHandler.UpdateAsset)
	auth.DELETE("/assets/:id", assetHandler.DeleteAsset)
	auth.POST("/assets/:id/contributions", assetHandler.AddContribution)
	auth.GET("/categories", categoryHandler.ListCategories)
	auth.POST("/categories", categoryHandler.CreateCategory)
	auth.PATCH("/categories/:id", categoryHandler.UpdateCategory)
	auth.DELETE("/categories/:id", categoryHandler.DeleteCategory)
	return r, localStore
}

func injectUserID(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", uid)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func createAsset(t *testing.T, r *gin.Engine, body string) map[string]interface{} {
	t.Helper()
	rec := doRequest(r, "POST", "/assets", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

func TestAssetHandler_CreateAsset(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		r, _ := newTestRouter(t)

		result := createAsset(t, r, `{"name":"World ETF","amount":2500,"category_id":"stocks"}`)
		if result["name"] != "World ETF" {
			t.Errorf("expected World ETF, got %v", result["name"])
		}
		if result["amount"].(float64) != 2500 {
			t.Errorf("expected amount 2500, got %v", result["amount"])
		}
		if result["origin"] != string(models.AssetOriginManual) {
			t.Errorf("expected manual origin by default, got %v", result["origin"])
		}
		if result["id"] == "" {
			t.Error("expected a generated id")
		}
	})

	t.Run("returns 400 on missing name", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doRequest(r, "POST", "/assets", `{"amount":2500,"category_id":"stocks"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on unknown origin", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doRequest(r, "POST", "/assets",
			`{"name":"ETF","amount":100,"category_id":"stocks","origin":"imported"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on contribution day out of range", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doRequest(r, "POST", "/assets",
			`{"name":"ETF","amount":100,"category_id":"stocks","monthly_contribution":50,"contribution_day":31}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 404 on unknown category", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doRequest(r, "POST", "/assets", `{"name":"ETF","amount":100,"category_id":"missing"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		errObj := result["error"].(map[string]interface{})
		if errObj["code"] != "CATEGORY_NOT_FOUND" {
			t.Errorf("expected CATEGORY_NOT_FOUND, got %v", errObj["code"])
		}
	})
}

func TestAssetHandler_UpdateAsset(t *testing.T) {
	t.Run("returns 200 with patched fields", func(t *testing.T) {
		r, _ := newTestRouter(t)
		created := createAsset(t, r, `{"name":"ETF","amount":1000,"category_id":"stocks"}`)

		rec := doRequest(r, "PATCH", fmt.Sprintf("/assets/%v", created["id"]), `{"amount":1500}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["amount"].(float64) != 1500 {
			t.Errorf("expected amount 1500, got %v", result["amount"])
		}
		if result["name"] != "ETF" {
			t.Errorf("unpatched name changed: %v", result["name"])
		}
	})

	t.Run("returns 404 on unknown asset", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doRequest(r, "PATCH", "/assets/missing", `{"amount":1500}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestAssetHandler_DeleteAsset(t *testing.T) {
	r, p := newTestRouter(t)
	created := createAsset(t, r, `{"name":"ETF","amount":1000,"category_id":"stocks"}`)

	rec := doRequest(r, "DELETE", fmt.Sprintf("/assets/%v", created["id"]), "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if len(p.Assets()) != 0 {
		t.Error("expected asset to be removed")
	}

	rec = doRequest(r, "DELETE", fmt.Sprintf("/assets/%v", created["id"]), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on repeat delete, got %d", rec.Code)
	}
}

func TestAssetHandler_AddContribution(t *testing.T) {
	r, _ := newTestRouter(t)
	created := createAsset(t, r,
		`{"name":"Savings plan","amount":500,"category_id":"savings","monthly_contribution":50,"contribution_day":1}`)

	rec := doRequest(r, "POST", fmt.Sprintf("/assets/%v/contributions", created["id"]), `{"amount":50}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["amount"].(float64) != 550 {
		t.Errorf("expected amount 550, got %v", result["amount"])
	}

	rec = doRequest(r, "POST", fmt.Sprintf("/assets/%v/contributions", created["id"]), `{"amount":-5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on negative contribution, got %d", rec.Code)
	}
}

func TestCategoryHandler_CreateCategory(t *testing.T) {
	t.Run("defaults the interest rate", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doRequest(r, "POST", "/categories", `{"name":"Real estate","icon":"Home","color":"amber"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["interest_rate"].(float64) != models.DefaultInterestRate {
			t.Errorf("expected default rate, got %v", result["interest_rate"])
		}
		if result["is_default"].(bool) {
			t.Error("user categories must not be default")
		}
	})

	t.Run("returns 400 on unknown color key", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doRequest(r, "POST", "/categories", `{"name":"Real estate","color":"#ff0000"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryHandler_ListCategories(t *testing.T) {
	r, _ := newTestRouter(t)
	createAsset(t, r, `{"name":"ETF","amount":1000,"category_id":"stocks","monthly_contribution":100,"contribution_day":5}`)

	rec := doRequest(r, "GET", "/categories", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var categories []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &categories); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(categories) != len(models.DefaultCategories()) {
		t.Fatalf("expected %d categories, got %d", len(models.DefaultCategories()), len(categories))
	}

	for _, c := range categories {
		if c["id"] != "stocks" {
			continue
		}
		if c["total"].(float64) != 1000 {
			t.Errorf("expected stocks total 1000, got %v", c["total"])
		}
		if c["monthly_contribution"].(float64) != 100 {
			t.Errorf("expected stocks contribution 100, got %v", c["monthly_contribution"])
		}
		if c["asset_count"].(float64) != 1 {
			t.Errorf("expected one stocks asset, got %v", c["asset_count"])
		}
	}
}

func TestCategoryHandler_DeleteCategory(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doRequest(r, "DELETE", "/categories/stocks", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for default category, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "DEFAULT_CATEGORY" {
		t.Errorf("expected DEFAULT_CATEGORY, got %v", errObj["code"])
	}
}

func TestPortfolioHandler_GetOverview(t *testing.T) {
	r, _ := newTestRouter(t)
	createAsset(t, r, `{"name":"ETF","amount":1000,"category_id":"stocks"}`)
	createAsset(t, r, `{"name":"Bond fund","amount":1000,"category_id":"bonds"}`)

	rec := doRequest(r, "GET", "/portfolio", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)

	if result["total_value"].(float64) != 2000 {
		t.Errorf("expected total 2000, got %v", result["total_value"])
	}
	if result["weighted_average_rate"].(float64) != 7 {
		t.Errorf("expected weighted rate 7, got %v", result["weighted_average_rate"])
	}
	if result["asset_count"].(float64) != 2 {
		t.Errorf("expected 2 assets, got %v", result["asset_count"])
	}
	if result["largest_profit"].(map[string]interface{})["category_id"] != "stocks" {
		t.Errorf("expected stocks as largest profit, got %v", result["largest_profit"])
	}
	if result["syncing"].(bool) || result["loading"].(bool) {
		t.Error("local backend never reports loading or syncing")
	}
}

func TestPortfolioHandler_GetHistory(t *testing.T) {
	r, _ := newTestRouter(t)
	createAsset(t, r, `{"name":"ETF","amount":1000,"category_id":"stocks"}`)

	rec := doRequest(r, "GET", "/history?page=1&page_size=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	result := parseJSON(t, rec)
	if result["total_items"].(float64) != 1 {
		t.Errorf("expected one history entry, got %v", result["total_items"])
	}

	rec = doRequest(r, "GET", "/history?page=0", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for page 0, got %d", rec.Code)
	}
}

func TestPortfolioHandler_GetForecast(t *testing.T) {
	t.Run("empty portfolio yields an empty result", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doRequest(r, "GET", "/forecast", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		if result["empty"] != true {
			t.Errorf("expected empty forecast, got %v", result["empty"])
		}
	})

	t.Run("projects the requested horizon", func(t *testing.T) {
		r, _ := newTestRouter(t)
		createAsset(t, r, `{"name":"ETF","amount":1000,"category_id":"stocks"}`)

		rec := doRequest(r, "GET", "/forecast?horizon=5y", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["horizon"] != "5y" {
			t.Errorf("expected 5y horizon, got %v", result["horizon"])
		}
		if result["projected_value"].(float64) <= 1000 {
			t.Errorf("expected growth over 5y at 8%%, got %v", result["projected_value"])
		}
	})

	t.Run("returns 400 on unknown horizon", func(t *testing.T) {
		r, _ := newTestRouter(t)

		rec := doRequest(r, "GET", "/forecast?horizon=2y", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestPortfolioHandler_GetReminders(t *testing.T) {
	r, _ := newTestRouter(t)
	// Day 1 is always within a month, so the reminder is either upcoming at
	// the start of a month or overdue for the rest of it.
	createAsset(t, r,
		`{"name":"Savings plan","amount":500,"category_id":"savings","monthly_contribution":50,"contribution_day":1}`)

	rec := doRequest(r, "GET", "/contributions/reminders", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var reminders []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &reminders); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if len(reminders) != 1 {
		t.Fatalf("expected one reminder, got %d", len(reminders))
	}
	if reminders[0]["amount"].(float64) != 50 {
		t.Errorf("expected reminder amount 50, got %v", reminders[0]["amount"])
	}
}

func TestHandlersRequireIdentity(t *testing.T) {
	localStore, err := store.NewLocalStore(blob.NewMemStore())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	handler := NewPortfolioHandler(store.NewLocalProvider(localStore))

	r := gin.New()
	r.GET("/portfolio", handler.GetOverview)

	rec := doRequest(r, "GET", "/portfolio", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}
}
