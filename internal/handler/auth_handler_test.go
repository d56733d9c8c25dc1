package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/peereval/peereval-api/internal/dto"
	"github.com/peereval/peereval-api/internal/models"
)

func TestAuthRegisterLoginAndMe(t *testing.T) {
	app := setupAuthApp(t)

	registerBody, err := json.Marshal(dto.RegisterRequest{
		Email:    "dana.auth@example.com",
		Password: "correct-horse",
		Name:     "Dana",
		Role:     models.RoleInstructor,
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(registerBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var registered envelope[dto.UserResponse]
	decodeResponse(t, resp, &registered)
	require.True(t, registered.Success)
	require.Equal(t, models.RoleInstructor, registered.Data.Role)

	loginBody, err := json.Marshal(dto.LoginRequest{
		Email:    "dana.auth@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var login envelope[dto.AuthResponse]
	decodeResponse(t, resp, &login)
	require.True(t, login.Success)
	require.NotEmpty(t, login.Data.AccessToken)
	require.Equal(t, "bearer", login.Data.TokenType)

	req = httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Data.AccessToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var me envelope[dto.UserResponse]
	decodeResponse(t, resp, &me)
	require.Equal(t, registered.Data.ID, me.Data.ID)
	require.Equal(t, "Dana", me.Data.Name)

	req = httptest.NewRequest("POST", "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+login.Data.AccessToken)
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthLogoutRequiresToken(t *testing.T) {
	app := setupAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("POST", "/api/v1/auth/logout", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthLoginRejectsWrongPassword(t *testing.T) {
	app := setupAuthApp(t)

	registerBody, err := json.Marshal(dto.RegisterRequest{
		Email:    "eve.auth@example.com",
		Password: "super-secret",
		Name:     "Eve",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(registerBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	loginBody, err := json.Marshal(dto.LoginRequest{
		Email:    "eve.auth@example.com",
		Password: "wrong-password",
	})
	require.NoError(t, err)

	req = httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRegisterRejectsDuplicateEmail(t *testing.T) {
	app := setupAuthApp(t)

	body, err := json.Marshal(dto.RegisterRequest{
		Email:    "frank.auth@example.com",
		Password: "first-password",
		Name:     "Frank",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestAuthLoginRateLimited(t *testing.T) {
	app := setupAuthApp(t)

	body, err := json.Marshal(dto.LoginRequest{
		Email:    "nobody.auth@example.com",
		Password: "whatever-goes",
	})
	require.NoError(t, err)

	// The auth group allows 20 requests per window from one client.
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}

	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestAuthMeRequiresToken(t *testing.T) {
	app := setupAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/auth/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
