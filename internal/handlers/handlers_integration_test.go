package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"sanitasi/internal/config"
	"sanitasi/internal/database"
	"sanitasi/internal/handlers"
	"sanitasi/internal/middleware"
	"sanitasi/internal/models"
	"sanitasi/internal/repositories"
	"sanitasi/internal/services"
	"sanitasi/internal/validation"
	"sanitasi/web"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test_jwt_secret"

var today = time.Date(2026, time.October, 18, 8, 0, 0, 0, time.UTC)

// setupApp sets up a Fiber app for testing with in-memory SQLite and all handlers/services.
func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	cfg := config.Config{
		DatabaseDriver: "sqlite",
		DatabaseDSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		JWTSecret:      testJWTSecret,
		BcryptCost:     bcrypt.MinCost,
	}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	userRepo := repositories.NewGORMUserRepository(db)
	validate := validation.New(func() time.Time { return today })

	registrationService := services.NewRegistrationService(userRepo, validate, nil, cfg.BcryptCost)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)

	app := fiber.New(fiber.Config{Views: web.NewEngine()})

	handlers.NewRegistrationHandler(registrationService).RegisterRoutes(app)

	apiV1 := app.Group("/api/v1")
	handlers.NewAuthHandler(authService).RegisterRoutes(apiV1)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	handlers.NewUserHandler(registrationService).RegisterRoutes(protectedRoutes)

	return app, db
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func validForm() url.Values {
	return url.Values{
		"username":         {"budi_santoso"},
		"nama":             {"Budi.Santoso"},
		"email":            {"budi@example.com"},
		"password":         {"Abc12345!"},
		"confirm_password": {"Abc12345!"},
		"tanggal_lahir":    {"2000-05-17"},
		"nomor_hp":         {"+6281234567890"},
		"url_blog":         {"budi.blog.id"},
		"deskripsi_diri":   {"Saya suka menulis."},
		"id_transaksi":     {"T-1234567890"},
		"rating_ulasan":    {"4.50"},
	}
}

func postForm(t *testing.T, app *fiber.App, form url.Values) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/sanitasi/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return do(t, app, req)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func countUsers(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.User{}).Count(&n).Error)
	return n
}

func TestRegisterPage_Get(t *testing.T) {
	app, _ := setupApp(t)

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/sanitasi/register", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	for _, name := range []string{"username", "nama", "email", "password", "confirm_password", "tanggal_lahir",
		"nomor_hp", "url_blog", "deskripsi_diri", "id_transaksi", "rating_ulasan"} {
		assert.Contains(t, body, fmt.Sprintf(`name="%s"`, name))
	}
	assert.Contains(t, body, `action="/sanitasi/register"`)
	assert.NotContains(t, body, "errorlist")
}

func TestRegisterPage_EmptyPostRendersUnboundForm(t *testing.T) {
	app, db := setupApp(t)

	resp, body := postForm(t, app, url.Values{})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `name="username"`)
	assert.NotContains(t, body, "errorlist")
	assert.Equal(t, int64(0), countUsers(t, db))
}

func TestRegisterPage_ValidPost(t *testing.T) {
	app, db := setupApp(t)

	resp, body := postForm(t, app, validForm())

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.True(t, strings.HasPrefix(body, "Berhasil Menambahkan User:\n\n"))
	assert.Contains(t, body, "username: budi_santoso")
	assert.Contains(t, body, "tanggal_lahir: 2000-05-17")
	assert.Contains(t, body, "rating_ulasan: 4.5")
	assert.NotContains(t, body, "Abc12345!")
	assert.NotContains(t, body, "password")

	var stored models.User
	require.NoError(t, db.Where("username = ?", "budi_santoso").First(&stored).Error)
	assert.NotEqual(t, "Abc12345!", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Abc12345!")))
}

func TestRegisterPage_InvalidPostRerendersWithErrors(t *testing.T) {
	app, db := setupApp(t)

	form := validForm()
	form.Set("username", "budi santoso")
	form.Set("nomor_hp", "081234567890")
	form.Set("password", "secret")
	form.Set("confirm_password", "secret")

	resp, body := postForm(t, app, form)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, "errorlist")
	assert.Contains(t, body, `id="id_username_error"`)
	assert.Contains(t, body, `id="id_nomor_hp_error"`)
	assert.Contains(t, body, `id="id_password_error"`)
	// Submitted values are echoed back, passwords are not.
	assert.Contains(t, body, `value="budi@example.com"`)
	assert.NotContains(t, body, `value="secret"`)
	assert.Equal(t, int64(0), countUsers(t, db))
}

func TestRegisterPage_PasswordMismatch(t *testing.T) {
	app, db := setupApp(t)

	form := validForm()
	form.Set("confirm_password", "Abc12345?")

	resp, body := postForm(t, app, form)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="id_confirm_password_error"`)
	assert.Equal(t, int64(0), countUsers(t, db))
}

func TestRegisterPage_DuplicateEmail(t *testing.T) {
	app, db := setupApp(t)

	resp, _ := postForm(t, app, validForm())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	form := validForm()
	form.Set("username", "budi_lain")
	form.Set("id_transaksi", "T-0987654321")
	resp, body := postForm(t, app, form)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="id_email_error"`)
	assert.NotContains(t, body, `id="id_username_error"`)
	assert.Equal(t, int64(1), countUsers(t, db))
}

func login(t *testing.T, app *fiber.App, username, password string) (*http.Response, map[string]interface{}) {
	t.Helper()
	jsonBody, _ := json.Marshal(map[string]string{"username": username, "password": password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp, body := do(t, app, req)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return resp, out
}

func TestAuthLoginAndProfile(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := postForm(t, app, validForm())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, loginResp := login(t, app, "budi_santoso", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Authentication failed", loginResp["message"])

	resp, loginResp = login(t, app, "budi_santoso", "Abc12345!")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, ok := loginResp["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, body := do(t, app, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var me map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &me))
	assert.Equal(t, "budi_santoso", me["username"])
	assert.Equal(t, "budi@example.com", me["email"])
	assert.Equal(t, 4.5, me["rating_ulasan"])
	assert.NotContains(t, me, "password")
}

func TestAuthLogin_MissingFields(t *testing.T) {
	app, _ := setupApp(t)

	resp, out := login(t, app, "", "")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", out["message"])
}

func TestUpdateProfile(t *testing.T) {
	app, db := setupApp(t)

	resp, _ := postForm(t, app, validForm())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, loginResp := login(t, app, "budi_santoso", "Abc12345!")
	token := loginResp["token"].(string)

	update := map[string]string{}
	for k, v := range validForm() {
		update[k] = v[0]
	}
	update["nama"] = "Budi-Baru"
	update["rating_ulasan"] = "3.7"

	put := func(data map[string]string) (*http.Response, string) {
		jsonBody, _ := json.Marshal(data)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/users/me", bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		return do(t, app, req)
	}

	resp, body := put(update)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var stored models.User
	require.NoError(t, db.Where("username = ?", "budi_santoso").First(&stored).Error)
	assert.Equal(t, "Budi-Baru", stored.Nama)
	assert.Equal(t, 3.7, stored.RatingUlasan)

	update["email"] = "bukan-email"
	resp, body = put(update)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "Validation failed", out["message"])
	errs, ok := out["errors"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, errs, "email")
}

func TestProfile_Unauthorized(t *testing.T) {
	app, _ := setupApp(t)

	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, _ = do(t, app, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
