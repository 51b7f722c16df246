package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"skyhub/internal/config"
	"skyhub/internal/database"
	"skyhub/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T, rdb *redis.Client, flags string) (*Server, *fiber.App) {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWTSecret:      "test_secret_with_enough_length",
		JWTTTLHours:    1,
		ImageUploadDir: t.TempDir(),
		FeatureFlags:   flags,
	}
	s, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	s.authService = s.authService.WithHashCost(bcrypt.MinCost)
	s.userService = s.userService.WithHashCost(bcrypt.MinCost)

	app := NewApp()
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return s, app
}

// call sends a JSON request and returns the status and the raw body.
func call(t *testing.T, app *fiber.App, method, path string, body any, token string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func signup(t *testing.T, app *fiber.App, username string) authResponse {
	t.Helper()
	status, body := call(t, app, http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Passw0rd!",
	}, "")
	require.Equal(t, http.StatusCreated, status, string(body))
	return decode[authResponse](t, body)
}

func TestMapServiceError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.NewValidationError("bad"), http.StatusBadRequest},
		{models.NewDuplicateEmailError(), http.StatusConflict},
		{models.NewDuplicateUsernameError(), http.StatusConflict},
		{models.NewUnauthenticatedError("no"), http.StatusUnauthorized},
		{models.NewInvalidCredentialsError(), http.StatusUnauthorized},
		{models.NewForbiddenError("no"), http.StatusForbidden},
		{models.NewNotFoundError("Drone", 1), http.StatusNotFound},
		{models.NewInternalError(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapServiceError(tt.err), "%v", tt.err)
	}
}

func TestHumanizeParam(t *testing.T) {
	assert.Equal(t, "drone ID", humanizeParam("droneId"))
	assert.Equal(t, "ID", humanizeParam("id"))
}

func TestParseIDRejectsGarbage(t *testing.T) {
	_, app := newTestServer(t, nil, "")

	for _, path := range []string{"/api/users/abc", "/api/users/0", "/api/drones/-3"} {
		status, body := call(t, app, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusBadRequest, status, path)
		resp := decode[models.ErrorResponse](t, body)
		assert.Equal(t, models.CodeValidation, resp.Code)
	}
}
