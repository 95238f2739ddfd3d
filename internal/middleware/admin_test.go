package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todoflow/todoflow-backend/internal/config"
	"github.com/todoflow/todoflow-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAdminTest(t *testing.T, cfg *config.Config) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	app := fiber.New()
	app.Get("/admin", JWTProtected(cfg), AdminRequired(db, cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app, db
}

func signToken(t *testing.T, cfg *config.Config, userID uuid.UUID, email string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return signed
}

func requestWithToken(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func TestAdminRequired(t *testing.T) {
	cfg := &config.Config{
		JWTSecret:   "test-secret",
		AdminEmails: "root@example.com, ops@example.com",
	}

	t.Run("missing token is unauthorized", func(t *testing.T) {
		app, _ := setupAdminTest(t, cfg)
		resp := requestWithToken(t, app, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("allow-listed email passes without a DB row", func(t *testing.T) {
		app, _ := setupAdminTest(t, cfg)
		resp := requestWithToken(t, app, signToken(t, cfg, uuid.New(), "ops@example.com"))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("role column grants admin", func(t *testing.T) {
		app, db := setupAdminTest(t, cfg)
		admin := models.User{ID: uuid.New(), Email: "admin@example.com", Password: "x", Role: "admin"}
		require.NoError(t, db.Create(&admin).Error)

		resp := requestWithToken(t, app, signToken(t, cfg, admin.ID, admin.Email))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		app, db := setupAdminTest(t, cfg)
		user := models.User{ID: uuid.New(), Email: "alice@example.com", Password: "x", Role: "user"}
		require.NoError(t, db.Create(&user).Error)

		resp := requestWithToken(t, app, signToken(t, cfg, user.ID, user.Email))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("wrong signing key is unauthorized", func(t *testing.T) {
		app, _ := setupAdminTest(t, cfg)
		other := &config.Config{JWTSecret: "other-secret"}
		resp := requestWithToken(t, app, signToken(t, other, uuid.New(), "root@example.com"))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
