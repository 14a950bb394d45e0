package http

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/distribo-web/internal/application/classify"
	"github.com/jhoicas/distribo-web/internal/application/gate"
	"github.com/jhoicas/distribo-web/internal/application/session"
	"github.com/jhoicas/distribo-web/internal/domain"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
	"github.com/jhoicas/distribo-web/internal/infrastructure/api"
)

// Handler controladores de página. Solo hablan con el gate, el gateway de la API y el
// clasificador; nunca deciden autorización por su cuenta.
type Handler struct {
	api    *api.Client
	gate   *gate.Gate
	views  *Renderer
	log    zerolog.Logger
	secure bool
	now    func() time.Time
}

// HandlerDeps dependencias de los controladores.
type HandlerDeps struct {
	API           *api.Client
	Gate          *gate.Gate
	Views         *Renderer
	Logger        zerolog.Logger
	SecureCookies bool
	Now           func() time.Time
}

// NewHandler construye los controladores.
func NewHandler(d HandlerDeps) *Handler {
	h := &Handler{
		api:    d.API,
		gate:   d.Gate,
		views:  d.Views,
		log:    d.Logger,
		secure: d.SecureCookies,
		now:    d.Now,
	}
	if h.gate == nil {
		h.gate = gate.New(gate.WithLogger(d.Logger))
	}
	if h.views == nil {
		h.views = MustRenderer()
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

func (h *Handler) session(c *fiber.Ctx) *CookieSession {
	return NewCookieSession(c, h.secure)
}

func (h *Handler) gateway(s session.Store) *api.Gateway {
	return h.api.Gateway(session.Token(s))
}

// evaluate pasa la compuerta de la página.
func (h *Handler) evaluate(c *fiber.Ctx, p gate.Policy, sess session.Session) gate.Decision {
	return h.gate.Evaluate(c.UserContext(), p, sess, h.gateway(sess))
}

// navSession lo que la barra lateral lee de la sesión.
type navSession interface {
	session.Preferences
	Profile() (*entity.UserProfile, bool)
}

// nav estado de la barra. Si /users/me no trae email se usa la instantánea del login.
func (h *Handler) nav(sess navSession, d gate.Decision) Nav {
	email := d.Profile.Email
	if email == "" {
		if p, ok := sess.Profile(); ok {
			email = p.Email
		}
	}
	return Nav{Show: true, Expanded: sess.NavbarExpanded(), Email: email, Role: d.Role}
}

// redirect navegación inmediata a una página.
func (h *Handler) redirect(c *fiber.Ctx, target string) error {
	return c.Redirect("/"+target, fiber.StatusFound)
}

// apply ejecuta el efecto de un outcome: purga la sesión y devuelve la redirección diferida.
func (h *Handler) apply(sess session.Store, out classify.Outcome) *Refresh {
	if out.Effect.Purge {
		sess.Clear()
	}
	if r := out.Effect.Redirect; r != nil {
		return NewRefresh(r.Target, r.Delay)
	}
	return nil
}

// message página mínima con un aviso y, opcionalmente, redirección diferida.
func (h *Handler) message(c *fiber.Ctx, status int, v View) error {
	return h.views.Render(c, status, pageMessage, v)
}

// statusFor status de la página re-renderizada tras un error.
func statusFor(err error) int {
	if err == nil {
		return fiber.StatusOK
	}
	if errors.Is(err, domain.ErrValidation) {
		return fiber.StatusUnprocessableEntity
	}
	var ae *api.ApplicationError
	if errors.As(err, &ae) {
		return ae.Status
	}
	if errors.Is(err, domain.ErrNotFound) {
		return fiber.StatusNotFound
	}
	return fiber.StatusBadGateway
}

// logAPIError deja rastro de fallos que no son de validación.
func (h *Handler) logAPIError(c *fiber.Ctx, op string, err error) {
	if err == nil || errors.Is(err, domain.ErrValidation) {
		return
	}
	ev := h.log.Warn()
	var ae *api.ApplicationError
	if errors.As(err, &ae) && ae.Status >= http.StatusInternalServerError {
		ev = h.log.Error()
	}
	ev.Err(err).Str("op", op).Str("path", c.Path()).Msg("operación fallida")
}

// Health comprobación de vida.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Index envía al catálogo; el gate se encarga de mandar al login si no hay sesión.
func (h *Handler) Index(c *fiber.Ctx) error {
	return h.redirect(c, gate.PageProducts)
}

// ToggleNavbar POST /preferences/navbar.
func (h *Handler) ToggleNavbar(c *fiber.Ctx) error {
	sess := h.session(c)
	switch c.FormValue("expanded") {
	case "true":
		sess.SetNavbarExpanded(true)
	case "false":
		sess.SetNavbarExpanded(false)
	default:
		sess.SetNavbarExpanded(!sess.NavbarExpanded())
	}
	return c.Redirect(backTo(c.Get(fiber.HeaderReferer)), fiber.StatusSeeOther)
}

// backTo vuelve a la página de origen, solo dentro del propio sitio.
func backTo(referer string) string {
	u, err := url.Parse(referer)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/" + gate.PageProducts
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}
