package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/voyago/travel_commerce/database"
	"github.com/voyago/travel_commerce/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestApp(t *testing.T) *fiber.App {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Bundle{},
		&models.RoomAmenity{},
		&models.RoomType{},
	))
	database.DB = db

	app := fiber.New()
	app.Get("/api/v1/bundles", ListBundles)
	app.Get("/api/v1/bundles/:bundleId", GetBundle)
	app.Post("/api/v1/bundles", CreateBundle)
	app.Put("/api/v1/bundles/:bundleId", UpdateBundle)
	app.Delete("/api/v1/bundles/:bundleId", DeleteBundle)
	app.Post("/api/v1/bundles/:bundleId/toggle-status", ToggleBundleStatus)
	app.Get("/api/v1/bundles-client", ListPublicBundles)
	app.Get("/api/v1/bundles-client/:bundleId", GetPublicBundle)
	return app
}

func seedProducts(t *testing.T, count int) {
	for i := 1; i <= count; i++ {
		product := models.Product{
			Name:  fmt.Sprintf("Product %d", i),
			Type:  "hotel",
			Price: float64(100 * i),
		}
		require.NoError(t, database.DB.Create(&product).Error)
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, responseBody
}

func membershipRowCount(t *testing.T, bundleID uint) int64 {
	var count int64
	require.NoError(t, database.DB.Table("bundle_product").
		Where("bundle_id = ?", bundleID).Count(&count).Error)
	return count
}

func validBundleBody(productIDs []uint) map[string]any {
	return map[string]any{
		"name":        "City Escape",
		"type":        "Gold",
		"description": "Weekend getaway package",
		"price":       299.99,
		"active":      true,
		"product_ids": productIDs,
	}
}

func TestCreateBundle(t *testing.T) {
	t.Run("creates bundle with membership and returns products", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 3)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1, 3}))
		assert.Equal(t, http.StatusCreated, status)

		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))
		assert.Equal(t, "City Escape", created.Name)
		assert.Equal(t, "Gold", created.Type)
		assert.True(t, created.Active)
		assert.ElementsMatch(t, []uint{1, 3}, created.ProductIDs)
		assert.Len(t, created.Products, 2)

		assert.EqualValues(t, 2, membershipRowCount(t, created.ID))
	})

	t.Run("stores an explicitly inactive bundle as inactive", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 2)

		inactive := validBundleBody([]uint{1})
		inactive["active"] = false
		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", inactive)
		require.Equal(t, http.StatusCreated, status)

		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))
		assert.False(t, created.Active)

		// read the row back: the stored value must match, not just the response
		var stored models.Bundle
		require.NoError(t, database.DB.First(&stored, "id = ?", created.ID).Error)
		assert.False(t, stored.Active, "bundle created with active:false must be stored inactive")
	})

	t.Run("round-trips the product set through get", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 5)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{2, 4, 5}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))

		status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/bundles/%d", created.ID), nil)
		assert.Equal(t, http.StatusOK, status)
		var fetched models.Bundle
		require.NoError(t, json.Unmarshal(body, &fetched))
		assert.ElementsMatch(t, []uint{2, 4, 5}, fetched.ProductIDs)
	})

	t.Run("deduplicates repeated ids in the request", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 2)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1, 1, 2, 2}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))
		assert.ElementsMatch(t, []uint{1, 2}, created.ProductIDs)
		assert.EqualValues(t, 2, membershipRowCount(t, created.ID))
	})

	t.Run("rejects unknown product ids before writing anything", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 2)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1, 99, 100}))
		assert.Equal(t, http.StatusUnprocessableEntity, status)

		var response struct {
			InvalidProductIDs []uint `json:"invalid_product_ids"`
		}
		require.NoError(t, json.Unmarshal(body, &response))
		assert.ElementsMatch(t, []uint{99, 100}, response.InvalidProductIDs)

		var bundleCount int64
		database.DB.Model(&models.Bundle{}).Count(&bundleCount)
		assert.Zero(t, bundleCount)
	})

	t.Run("rejects empty product set on create", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 1)

		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{}))
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("rejects invalid tier and short fields", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 1)

		body := validBundleBody([]uint{1})
		body["type"] = "Bronze"
		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/bundles", body)
		assert.Equal(t, http.StatusBadRequest, status)

		body = validBundleBody([]uint{1})
		body["description"] = "too short"
		status, _ = doJSON(t, app, http.MethodPost, "/api/v1/bundles", body)
		assert.Equal(t, http.StatusBadRequest, status)

		body = validBundleBody([]uint{1})
		body["price"] = -5
		status, _ = doJSON(t, app, http.MethodPost, "/api/v1/bundles", body)
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestUpdateBundle(t *testing.T) {
	t.Run("replaces membership with exactly the requested set", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 5)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1, 3}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))

		status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/bundles/%d", created.ID),
			map[string]any{"product_ids": []uint{3, 5}})
		assert.Equal(t, http.StatusOK, status)

		var updated models.Bundle
		require.NoError(t, json.Unmarshal(body, &updated))
		assert.ElementsMatch(t, []uint{3, 5}, updated.ProductIDs)
		assert.EqualValues(t, 2, membershipRowCount(t, created.ID))

		// product 1 must no longer be associated
		var count int64
		database.DB.Table("bundle_product").
			Where("bundle_id = ? AND product_id = ?", created.ID, 1).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("leaves membership untouched when product_ids is absent", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 3)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1, 2}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))

		status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/bundles/%d", created.ID),
			map[string]any{"name": "Harbor Lights"})
		assert.Equal(t, http.StatusOK, status)

		var updated models.Bundle
		require.NoError(t, json.Unmarshal(body, &updated))
		assert.Equal(t, "Harbor Lights", updated.Name)
		assert.ElementsMatch(t, []uint{1, 2}, updated.ProductIDs)
	})

	t.Run("allows clearing membership with an explicit empty set", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 2)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1, 2}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))

		status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/bundles/%d", created.ID),
			map[string]any{"product_ids": []uint{}})
		assert.Equal(t, http.StatusOK, status)

		var updated models.Bundle
		require.NoError(t, json.Unmarshal(body, &updated))
		assert.Empty(t, updated.ProductIDs)
		assert.Zero(t, membershipRowCount(t, created.ID))
	})

	t.Run("accepts the is_active alias", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 1)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))
		require.True(t, created.Active)

		status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/bundles/%d", created.ID),
			map[string]any{"is_active": 0})
		assert.Equal(t, http.StatusOK, status)

		var updated models.Bundle
		require.NoError(t, json.Unmarshal(body, &updated))
		assert.False(t, updated.Active)
	})

	t.Run("last write wins on concurrent-style membership updates", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 5)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))

		// two writers race from the same snapshot; no merge happens
		doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/bundles/%d", created.ID),
			map[string]any{"product_ids": []uint{2, 3}})
		status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/bundles/%d", created.ID),
			map[string]any{"product_ids": []uint{4, 5}})
		require.Equal(t, http.StatusOK, status)

		var final models.Bundle
		require.NoError(t, json.Unmarshal(body, &final))
		assert.ElementsMatch(t, []uint{4, 5}, final.ProductIDs)
	})

	t.Run("404 for unknown bundle", func(t *testing.T) {
		app := setupTestApp(t)

		status, _ := doJSON(t, app, http.MethodPut, "/api/v1/bundles/999",
			map[string]any{"name": "Anything Here"})
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestDeleteBundle(t *testing.T) {
	t.Run("removes membership rows and the bundle", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 3)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1, 2, 3}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))
		require.EqualValues(t, 3, membershipRowCount(t, created.ID))

		status, body = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/bundles/%d", created.ID), nil)
		assert.Equal(t, http.StatusOK, status)

		var response struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "Bundle deleted successfully", response.Message)

		assert.Zero(t, membershipRowCount(t, created.ID))

		status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/bundles/%d", created.ID), nil)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("404 for unknown bundle", func(t *testing.T) {
		app := setupTestApp(t)

		status, _ := doJSON(t, app, http.MethodDelete, "/api/v1/bundles/42", nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestToggleBundleStatus(t *testing.T) {
	t.Run("sets the flag to the requested value and is idempotent", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 1)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))

		for i := 0; i < 2; i++ {
			status, body = doJSON(t, app, http.MethodPost,
				fmt.Sprintf("/api/v1/bundles/%d/toggle-status", created.ID),
				map[string]any{"active": false})
			assert.Equal(t, http.StatusOK, status)

			var toggled models.Bundle
			require.NoError(t, json.Unmarshal(body, &toggled))
			assert.False(t, toggled.Active)
		}
	})

	t.Run("accepts is_active as 0/1 integers", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 1)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))

		status, body = doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/v1/bundles/%d/toggle-status", created.ID),
			map[string]any{"is_active": 0})
		assert.Equal(t, http.StatusOK, status)
		var toggled models.Bundle
		require.NoError(t, json.Unmarshal(body, &toggled))
		assert.False(t, toggled.Active)

		status, body = doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/v1/bundles/%d/toggle-status", created.ID),
			map[string]any{"is_active": 1})
		assert.Equal(t, http.StatusOK, status)
		require.NoError(t, json.Unmarshal(body, &toggled))
		assert.True(t, toggled.Active)
	})

	t.Run("rejects a body with no flag", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 1)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))

		status, _ = doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/v1/bundles/%d/toggle-status", created.ID), map[string]any{})
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestListBundles(t *testing.T) {
	t.Run("public view only shows active bundles", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 2)

		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1}))
		require.Equal(t, http.StatusCreated, status)

		inactive := validBundleBody([]uint{2})
		inactive["name"] = "Hidden Bundle"
		inactive["active"] = false
		status, _ = doJSON(t, app, http.MethodPost, "/api/v1/bundles", inactive)
		require.Equal(t, http.StatusCreated, status)

		status, body := doJSON(t, app, http.MethodGet, "/api/v1/bundles?public=true", nil)
		assert.Equal(t, http.StatusOK, status)
		var bundles []models.Bundle
		require.NoError(t, json.Unmarshal(body, &bundles))
		require.Len(t, bundles, 1)
		assert.Equal(t, "City Escape", bundles[0].Name)

		status, body = doJSON(t, app, http.MethodGet, "/api/v1/bundles", nil)
		assert.Equal(t, http.StatusOK, status)
		require.NoError(t, json.Unmarshal(body, &bundles))
		assert.Len(t, bundles, 2)
	})

	t.Run("filters by active flag and search term", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 2)

		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1}))
		require.Equal(t, http.StatusCreated, status)

		other := validBundleBody([]uint{2})
		other["name"] = "Mountain Retreat"
		other["active"] = false
		status, _ = doJSON(t, app, http.MethodPost, "/api/v1/bundles", other)
		require.Equal(t, http.StatusCreated, status)

		status, body := doJSON(t, app, http.MethodGet, "/api/v1/bundles?active=false", nil)
		assert.Equal(t, http.StatusOK, status)
		var bundles []models.Bundle
		require.NoError(t, json.Unmarshal(body, &bundles))
		require.Len(t, bundles, 1)
		assert.Equal(t, "Mountain Retreat", bundles[0].Name)

		status, body = doJSON(t, app, http.MethodGet, "/api/v1/bundles?search=mountain", nil)
		assert.Equal(t, http.StatusOK, status)
		require.NoError(t, json.Unmarshal(body, &bundles))
		require.Len(t, bundles, 1)
		assert.Equal(t, "Mountain Retreat", bundles[0].Name)
	})

	t.Run("list rows carry product ids without embedded products", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 2)

		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1, 2}))
		require.Equal(t, http.StatusCreated, status)

		status, body := doJSON(t, app, http.MethodGet, "/api/v1/bundles", nil)
		assert.Equal(t, http.StatusOK, status)

		var raw []map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(body, &raw))
		require.Len(t, raw, 1)
		assert.Contains(t, raw[0], "product_ids")
		assert.NotContains(t, raw[0], "products")
	})
}

func TestPublicBundleRoutes(t *testing.T) {
	t.Run("bundles-client hides inactive bundles", func(t *testing.T) {
		app := setupTestApp(t)
		seedProducts(t, 2)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1}))
		require.Equal(t, http.StatusCreated, status)
		var created models.Bundle
		require.NoError(t, json.Unmarshal(body, &created))

		inactive := validBundleBody([]uint{2})
		inactive["active"] = false
		status, body = doJSON(t, app, http.MethodPost, "/api/v1/bundles", inactive)
		require.Equal(t, http.StatusCreated, status)
		var hidden models.Bundle
		require.NoError(t, json.Unmarshal(body, &hidden))

		status, body = doJSON(t, app, http.MethodGet, "/api/v1/bundles-client", nil)
		assert.Equal(t, http.StatusOK, status)
		var bundles []models.Bundle
		require.NoError(t, json.Unmarshal(body, &bundles))
		assert.Len(t, bundles, 1)

		status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/bundles-client/%d", created.ID), nil)
		assert.Equal(t, http.StatusOK, status)

		status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/bundles-client/%d", hidden.ID), nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

// end-to-end scenario: create City Escape with products 1 and 3, then move
// membership to {3,5}
func TestBundleLifecycle(t *testing.T) {
	app := setupTestApp(t)
	seedProducts(t, 5)

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/bundles", validBundleBody([]uint{1, 3}))
	require.Equal(t, http.StatusCreated, status)

	var created models.Bundle
	require.NoError(t, json.Unmarshal(body, &created))
	require.Len(t, created.Products, 2)
	assert.ElementsMatch(t, []uint{1, 3}, created.ProductIDs)

	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/bundles/%d", created.ID),
		map[string]any{"product_ids": []uint{3, 5}})
	require.Equal(t, http.StatusOK, status)

	var updated models.Bundle
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.ElementsMatch(t, []uint{3, 5}, updated.ProductIDs)

	var count int64
	database.DB.Table("bundle_product").
		Where("bundle_id = ? AND product_id = ?", created.ID, 1).Count(&count)
	assert.Zero(t, count)
}
