package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mealbridge/domain"
	"mealbridge/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(jwtService jwt.JWTService, roles ...string) *fiber.App {
	m := NewMiddleware()
	app := fiber.New()
	app.Get("/whoami", m.AuthMiddleware(jwtService), m.RoleMiddleware(roles...), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id"), "role": c.Locals("role")})
	})
	return app
}

func request(t *testing.T, app *fiber.App, authHeader string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func TestAuthAndRoleMiddleware(t *testing.T) {
	jwtService := jwt.NewJWTService("middleware-secret")
	app := newProtectedApp(jwtService, domain.RoleReceiver)

	receiverToken, err := jwtService.GenerateTokenUser("3c1d5d4e-1111-4a6b-9c0d-2e3f4a5b6c7d", domain.RoleReceiver)
	require.NoError(t, err)
	donorToken, err := jwtService.GenerateTokenUser("7a9b1c2d-2222-4e5f-8a9b-0c1d2e3f4a5b", domain.RoleDonor)
	require.NoError(t, err)
	foreignToken, err := jwt.NewJWTService("other-secret").GenerateTokenUser("x", domain.RoleReceiver)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", "Bearer abc.def.ghi", fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreignToken, fiber.StatusUnauthorized},
		{"wrong role", "Bearer " + donorToken, fiber.StatusForbidden},
		{"allowed", "Bearer " + receiverToken, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, request(t, app, tt.header))
		})
	}
}
