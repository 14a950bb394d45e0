package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/distribo-web/internal/application/forms"
	"github.com/jhoicas/distribo-web/internal/application/gate"
	"github.com/jhoicas/distribo-web/internal/domain"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
	"github.com/jhoicas/distribo-web/internal/infrastructure/api"
)

// Mensajes de login.html.
const (
	MsgLoginSuccess = "Login successful! Redirecting to products..."
	MsgLoginFailed  = "Authentication failed. Please check your credentials."
	MsgLoginNoToken = "Authentication successful but no token was returned. Please contact support."
	MsgLoginNetwork = "An error occurred during login. Please try again later."
)

// loginRedirectDelay pausa antes de ir al catálogo.
const loginRedirectDelay = 1500 * time.Millisecond

// LoginPage GET /login.html.
func (h *Handler) LoginPage(c *fiber.Ctx) error {
	return h.views.Render(c, fiber.StatusOK, pageLogin, View{Title: "Login", Data: LoginView{}})
}

// Login POST /login.html: guarda token y perfil y muestra el aviso antes de redirigir.
func (h *Handler) Login(c *fiber.Ctx) error {
	var in forms.Login
	if err := c.BodyParser(&in); err != nil {
		return h.views.Render(c, fiber.StatusBadRequest, pageLogin, View{Title: "Login", Error: MsgLoginFailed, Data: LoginView{}})
	}
	render := func(status int, msg string) error {
		return h.views.Render(c, status, pageLogin, View{Title: "Login", Error: msg, Data: LoginView{Email: in.Email}})
	}

	req, err := in.Parse()
	if err != nil {
		msg, _ := domain.ValidationMessage(err)
		return render(fiber.StatusUnprocessableEntity, msg)
	}

	sess := h.session(c)
	res, err := h.api.Gateway(api.NoToken).Login(c.UserContext(), req)
	if err != nil {
		h.logAPIError(c, "login", err)
		var ae *api.ApplicationError
		switch {
		case errors.Is(err, api.ErrNoToken):
			return render(fiber.StatusBadGateway, MsgLoginNoToken)
		case errors.As(err, &ae):
			msg := ae.Message
			if msg == "" {
				msg = MsgLoginFailed
			}
			return render(ae.Status, msg)
		default:
			return render(fiber.StatusBadGateway, MsgLoginNetwork)
		}
	}

	profile := res.Profile
	if profile == nil {
		// data era el token desnudo: instantánea mínima con el email enviado
		// y el rol del propio token.
		role, err := gate.LocalRole(res.Token)
		if err != nil {
			role = entity.RoleUser
		}
		profile = &entity.UserProfile{Email: req.Email, Role: role}
	}
	sess.Set(res.Token, profile)
	h.log.Info().Str("email", req.Email).Msg("login correcto")
	return h.views.Render(c, fiber.StatusOK, pageLogin, View{
		Title:   "Login",
		Success: MsgLoginSuccess,
		Refresh: NewRefresh(gate.PageProducts, loginRedirectDelay),
		Data:    LoginView{Email: req.Email},
	})
}

// Logout POST /logout: borra token y perfil.
func (h *Handler) Logout(c *fiber.Ctx) error {
	h.session(c).Clear()
	return h.redirect(c, gate.PageLogin)
}
