package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

func cookieNamed(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestCookieSession_SetReemplazaOBorraElPerfil(t *testing.T) {
	app := fiber.New()
	app.Get("/con-perfil", func(c *fiber.Ctx) error {
		s := NewCookieSession(c, false)
		s.Set("a.b.c", &entity.UserProfile{Email: "ana@acme.co", Role: entity.RoleAdmin})
		if p, ok := s.Profile(); assert.True(t, ok) {
			assert.Equal(t, "ana@acme.co", p.Email)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/sin-perfil", func(c *fiber.Ctx) error {
		s := NewCookieSession(c, false)
		s.Set("d.e.f", nil)
		_, ok := s.Profile()
		assert.False(t, ok, "dentro de la misma petición ya no hay perfil")
		return c.SendStatus(fiber.StatusNoContent)
	})
	previous := &http.Cookie{Name: "user", Value: url.QueryEscape(`{"email":"otra@cuenta.co","role":"User"}`)}

	req := httptest.NewRequest(http.MethodGet, "/con-perfil", nil)
	req.AddCookie(previous)
	resp, err := app.Test(req)
	require.NoError(t, err)
	user := cookieNamed(resp, "user")
	require.NotNil(t, user)
	raw, _ := url.QueryUnescape(user.Value)
	assert.JSONEq(t, `{"email":"ana@acme.co","role":"Admin"}`, raw)

	req = httptest.NewRequest(http.MethodGet, "/sin-perfil", nil)
	req.AddCookie(previous)
	resp, err = app.Test(req)
	require.NoError(t, err)
	user = cookieNamed(resp, "user")
	require.NotNil(t, user, "la cookie del perfil anterior se borra")
	assert.Empty(t, user.Value)
	tok := cookieNamed(resp, "token")
	require.NotNil(t, tok)
	assert.Equal(t, "d.e.f", tok.Value)
}
