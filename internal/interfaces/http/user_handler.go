package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/distribo-web/internal/application/classify"
	"github.com/jhoicas/distribo-web/internal/application/forms"
	"github.com/jhoicas/distribo-web/internal/application/gate"
)

// MsgUserRegistered alta correcta en register-user.html.
const MsgUserRegistered = "User registered successfully! An email confirmation link has been sent to the user."

func (h *Handler) renderRegisterUser(c *fiber.Ctx, sess navSession, d gate.Decision, status int, v View, in forms.RegisterUser) error {
	v.Title = "Register User"
	v.Nav = h.nav(sess, d)
	v.Data = RegisterUserView{
		Email: in.Email,
		Role:  in.Role,
		Roles: d.Role.RegistrableRoles(),
		Actor: d.Role,
	}
	return h.views.Render(c, status, pageRegisterUser, v)
}

// RegisterUserPage GET /register-user.html (Admin, o RootUser con empresa).
func (h *Handler) RegisterUserPage(c *fiber.Ctx) error {
	sess := h.session(c)
	d := h.evaluate(c, gate.RegisterUserPolicy, sess)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	return h.renderRegisterUser(c, sess, d, fiber.StatusOK, View{}, forms.RegisterUser{})
}

// RegisterUser POST /register-user.html.
func (h *Handler) RegisterUser(c *fiber.Ctx) error {
	sess := h.session(c)
	d := h.evaluate(c, gate.RegisterUserPolicy, sess)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	var in forms.RegisterUser
	if err := c.BodyParser(&in); err != nil {
		return h.renderRegisterUser(c, sess, d, fiber.StatusBadRequest, View{Error: classify.MsgBadRequest}, sticky(in))
	}
	req, err := in.Parse(d.Role)
	if err != nil {
		out := classify.ClassifyError(err)
		return h.renderRegisterUser(c, sess, d, statusFor(err), View{Error: out.Message}, sticky(in))
	}
	if err := h.gateway(sess).RegisterUser(c.UserContext(), req); err != nil {
		h.logAPIError(c, "register_user", err)
		out := classify.ClassifyError(err)
		refresh := h.apply(sess, out)
		if out.Effect.Purge {
			return h.message(c, statusFor(err), View{Title: "Register User", Error: out.Message, Refresh: refresh})
		}
		return h.renderRegisterUser(c, sess, d, statusFor(err),
			View{Error: "Failed to register user: " + out.Message, Refresh: refresh}, sticky(in))
	}
	h.log.Info().Str("role", req.Role).Msg("usuario registrado")
	return h.renderRegisterUser(c, sess, d, fiber.StatusOK, View{Success: MsgUserRegistered}, forms.RegisterUser{})
}

// sticky conserva email y rol; las contraseñas nunca vuelven al navegador.
func sticky(in forms.RegisterUser) forms.RegisterUser {
	return forms.RegisterUser{Email: in.Email, Role: in.Role}
}
