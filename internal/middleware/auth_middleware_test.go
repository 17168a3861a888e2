//go:build !integration

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dreamKeys/domain"
	"dreamKeys/internal/repository/memory"
	"dreamKeys/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "middleware-test-secret"

func newServer(users *memory.UserRepository) *echo.Echo {
	e := echo.New()
	tokens := utils.NewJWTManager(testSecret)

	ok := func(c echo.Context) error {
		actor, _ := ActorFrom(c)
		return c.JSON(http.StatusOK, map[string]interface{}{"email": actor.Email, "role": actor.Role})
	}

	e.GET("/me", ok, AuthMiddleware(tokens), ResolveActor(users))
	e.PATCH("/admin", ok, AuthMiddleware(tokens), ResolveActor(users), AdminOnly())
	return e
}

func bearer(t *testing.T, email string) string {
	t.Helper()

	token, err := utils.NewJWTManager(testSecret).GenerateJWT(email, "", "")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func do(e *echo.Echo, method, path, auth string) int {
	req := httptest.NewRequest(method, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestAuthMiddlewareRejectsUniformly(t *testing.T) {
	e := newServer(memory.NewUserRepository())

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, utils.Claims{
		Email: "buyer@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign expired token: %v", err)
	}

	forged, err := utils.NewJWTManager("other-secret").GenerateJWT("buyer@example.com", "", "")
	if err != nil {
		t.Fatalf("sign forged token: %v", err)
	}

	tests := []struct {
		name string
		auth string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"empty token", "Bearer "},
		{"malformed token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong secret", "Bearer " + forged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := do(e, http.MethodGet, "/me", tt.auth); code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", code)
			}
		})
	}
}

func TestUnregisteredCallerIsAuthenticated(t *testing.T) {
	e := newServer(memory.NewUserRepository())

	if code := do(e, http.MethodGet, "/me", bearer(t, "new@example.com")); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if code := do(e, http.MethodPatch, "/admin", bearer(t, "new@example.com")); code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestAdminOnly(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	for _, u := range []domain.User{
		{Email: "admin@example.com", Role: domain.RoleAdmin},
		{Email: "agent@example.com", Role: domain.RoleAgent},
		{Email: "buyer@example.com", Role: domain.RoleUser},
	} {
		u := u
		if err := users.Create(ctx, &u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	e := newServer(users)

	if code := do(e, http.MethodPatch, "/admin", ""); code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated: expected 401, got %d", code)
	}
	if code := do(e, http.MethodPatch, "/admin", bearer(t, "agent@example.com")); code != http.StatusForbidden {
		t.Fatalf("agent: expected 403, got %d", code)
	}
	if code := do(e, http.MethodPatch, "/admin", bearer(t, "buyer@example.com")); code != http.StatusForbidden {
		t.Fatalf("buyer: expected 403, got %d", code)
	}
	if code := do(e, http.MethodPatch, "/admin", bearer(t, "admin@example.com")); code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d", code)
	}
}

func TestDemotionTakesEffectOnNextRequest(t *testing.T) {
	ctx := context.Background()
	users := memory.NewUserRepository()
	admin := domain.User{Email: "admin@example.com", Role: domain.RoleAdmin}
	if err := users.Create(ctx, &admin); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	e := newServer(users)
	auth := bearer(t, admin.Email)

	if code := do(e, http.MethodPatch, "/admin", auth); code != http.StatusOK {
		t.Fatalf("expected 200 before demotion, got %d", code)
	}

	if _, err := users.UpdateRole(ctx, admin.ID, domain.RoleUser); err != nil {
		t.Fatalf("demote: %v", err)
	}

	if code := do(e, http.MethodPatch, "/admin", auth); code != http.StatusForbidden {
		t.Fatalf("expected 403 after demotion with the same token, got %d", code)
	}
}
