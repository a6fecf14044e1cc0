package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
)

type recordedViews struct {
	views []string
}

func (r *recordedViews) Invalidate(_ context.Context, viewName string) {
	r.views = append(r.views, viewName)
}

func passthroughAuth(userID string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func TestRegisterHandler(t *testing.T) {
	mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "alice@example.com", "Alice Doe", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectExec(`INSERT INTO refresh_tokens`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", mock), passthroughAuth("user-1"), nil)

	body := `{"first_name":"Alice","last_name":"Doe","email":"alice@example.com","password":"hunter22"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %v", err)
	}
}

func TestLoginHandlerMissingFields(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", nil), passthroughAuth("user-1"), nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestProfileHandler(t *testing.T) {
	mock := newMock(t)
	views := &recordedViews{}

	mock.ExpectExec(`UPDATE users SET name`).
		WithArgs("user-1", "Alice D.").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", mock), passthroughAuth("user-1"), views)

	req := httptest.NewRequest(http.MethodPut, "/auth/profile", strings.NewReader(`{"name":"Alice D."}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status: %v", err)
	}

	var payload map[string]string
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &payload)
	if payload["success"] != "Profile updated!" {
		t.Fatalf("unexpected payload: %s", raw)
	}
	if len(views.views) != 1 || views.views[0] != "profile" {
		t.Fatalf("expected profile invalidation, got %v", views.views)
	}
}

func TestProfileHandlerEmptyName(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", nil), passthroughAuth("user-1"), nil)

	req := httptest.NewRequest(http.MethodPut, "/auth/profile", strings.NewReader(`{"name":""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestJWTVerifyHandler(t *testing.T) {
	svc := NewService("secret", nil)
	token, _ := svc.signToken("user-1", "alice@example.com", accessTokenTTL)

	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), svc, passthroughAuth("user-1"), nil)

	req := httptest.NewRequest(http.MethodGet, "/auth/jwt/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status: %v", err)
	}

	var payload map[string]string
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &payload)
	if payload["email"] != "alice@example.com" {
		t.Fatalf("expected email in verify payload, got %s", raw)
	}
}
