package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthApp(t *testing.T) *fiber.App {
	setupTestApp(t)

	app := fiber.New()
	app.Post("/api/v1/auth/register", RegisterUser)
	app.Post("/api/v1/auth/login", LoginUser)
	return app
}

func TestRegisterUser(t *testing.T) {
	registration := map[string]any{
		"full_name": "Amina Okafor",
		"email":     "amina@example.com",
		"password":  "supersecret",
	}

	t.Run("creates a user", func(t *testing.T) {
		app := setupAuthApp(t)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", registration)
		assert.Equal(t, http.StatusCreated, status)

		var created UserResponse
		require.NoError(t, json.Unmarshal(body, &created))
		assert.Equal(t, "amina@example.com", created.Email)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("rejects a duplicate email with 409", func(t *testing.T) {
		app := setupAuthApp(t)

		status, _ := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", registration)
		require.Equal(t, http.StatusCreated, status)

		status, body := doJSON(t, app, http.MethodPost, "/api/v1/auth/register", registration)
		assert.Equal(t, http.StatusConflict, status)

		var response struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(body, &response))
		assert.Equal(t, "Email already exists", response.Error)
	})
}
