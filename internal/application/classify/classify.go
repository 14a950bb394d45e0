// Package classify traduce una respuesta de la API (o un error) al estado que ve el
// usuario: un mensaje y, a veces, un efecto sobre la sesión o la navegación.
package classify

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jhoicas/distribo-web/internal/domain"
)

// Destinos y retardo de las redirecciones automáticas.
const (
	PageLogin     = "login.html"
	PageProfile   = "profile.html"
	RedirectDelay = 1500 * time.Millisecond
)

// Mensajes por defecto.
const (
	MsgBadRequest   = "Invalid input. Please check your data and try again."
	MsgUnauthorized = "Your session has expired. Please log in again."
	MsgForbidden    = "You do not have permission to perform this action."
	MsgNotFound     = "The requested resource was not found."
	MsgConflict     = "This information conflicts with existing data."
	MsgServerError  = "A server error occurred. Please try again later."
	MsgUnexpected   = "An unexpected error occurred. Please try again later."
)

// Mensajes por código de negocio.
var codeMessages = map[int]map[string]string{
	http.StatusBadRequest: {
		"StockMismatch":              "Not enough items in stock to fulfill this order. Please try a smaller quantity or check back later.",
		"HasApprovedOrders":          "Cannot delete location because it has approved orders",
		"CompanyMustHaveOneLocation": "Cannot delete the last location. Companies must have at least one location",
	},
	http.StatusConflict: {
		"UserAlreadyHasCompany": "You already have a company associated with your account.",
		"NameIsTaken":           "A company with this name already exists. Please choose a different name.",
		"EmailIsTaken":          "A company with this email already exists. Please use a different email.",
		"PhoneNumberIsTaken":    "A company with this phone number already exists. Please use a different phone number.",
	},
}

// Redirect navegación diferida.
type Redirect struct {
	Target string
	Delay  time.Duration
}

// Effect efecto asociado al mensaje.
type Effect struct {
	Purge    bool
	Redirect *Redirect
}

// Outcome estado de interfaz resultante.
type Outcome struct {
	Message string
	Effect  Effect
}

// Problem lo cumple todo error que lleve una respuesta HTTP de la API.
type Problem interface {
	Problem() (status int, code, message string)
}

type config struct {
	badRequest     string
	forbidden      string
	notFound       string
	notFoundTarget string
	conflict       string
	conflictDflt   string
	fallback       string
	network        string
}

// Option ajusta mensajes por operación.
type Option func(*config)

// WithBadRequest mensaje para 400 sin código conocido cuando la API no envía uno.
func WithBadRequest(msg string) Option { return func(c *config) { c.badRequest = msg } }

// WithForbidden mensaje para 403.
func WithForbidden(msg string) Option { return func(c *config) { c.forbidden = msg } }

// WithNotFound mensaje fijo para 404 y, si target no está vacío, redirección diferida.
func WithNotFound(msg, target string) Option {
	return func(c *config) { c.notFound, c.notFoundTarget = msg, target }
}

// WithConflict mensaje fijo para cualquier 409, con o sin código.
func WithConflict(msg string) Option { return func(c *config) { c.conflict = msg } }

// WithConflictDefault mensaje para 409 cuando la API no envía uno.
func WithConflictDefault(msg string) Option { return func(c *config) { c.conflictDflt = msg } }

// WithFallback mensaje para status no contemplados cuando la API no envía uno.
func WithFallback(msg string) Option { return func(c *config) { c.fallback = msg } }

// WithNetworkError mensaje cuando no hubo respuesta.
func WithNetworkError(msg string) Option { return func(c *config) { c.network = msg } }

func newConfig(opts []Option) config {
	c := config{
		badRequest: MsgBadRequest,
		forbidden:  MsgForbidden,
		notFound:   MsgNotFound,
		fallback:   MsgUnexpected,
		network:    MsgUnexpected,
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}

type problemBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Classify interpreta status y cuerpo. Un cuerpo que no es JSON se trata como vacío.
func Classify(status int, body []byte, opts ...Option) Outcome {
	var p problemBody
	_ = json.Unmarshal(body, &p)
	return classify(status, p.Code, p.Message, newConfig(opts))
}

// ClassifyError interpreta un error de la capa de API o de validación.
func ClassifyError(err error, opts ...Option) Outcome {
	cfg := newConfig(opts)
	if err == nil {
		return Outcome{}
	}
	if msg, ok := domain.ValidationMessage(err); ok {
		return Outcome{Message: msg}
	}
	var pr Problem
	if errors.As(err, &pr) {
		status, code, msg := pr.Problem()
		return classify(status, code, msg, cfg)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return classify(http.StatusNotFound, "", "", cfg)
	}
	return Outcome{Message: cfg.network}
}

func classify(status int, code, apiMsg string, cfg config) Outcome {
	switch status {
	case http.StatusBadRequest:
		if msg, ok := codeMessages[status][code]; ok {
			return Outcome{Message: msg}
		}
		return Outcome{Message: firstNonEmpty(apiMsg, cfg.badRequest)}
	case http.StatusUnauthorized:
		return Outcome{
			Message: MsgUnauthorized,
			Effect:  Effect{Purge: true, Redirect: &Redirect{Target: PageLogin, Delay: RedirectDelay}},
		}
	case http.StatusForbidden:
		return Outcome{
			Message: cfg.forbidden,
			Effect:  Effect{Redirect: &Redirect{Target: PageProfile, Delay: RedirectDelay}},
		}
	case http.StatusNotFound:
		out := Outcome{Message: cfg.notFound}
		if cfg.notFoundTarget != "" {
			out.Effect.Redirect = &Redirect{Target: cfg.notFoundTarget, Delay: RedirectDelay}
		}
		return out
	case http.StatusConflict:
		if cfg.conflict != "" {
			return Outcome{Message: cfg.conflict}
		}
		if msg, ok := codeMessages[status][code]; ok {
			return Outcome{Message: msg}
		}
		return Outcome{Message: firstNonEmpty(apiMsg, cfg.conflictDflt, MsgConflict)}
	case http.StatusInternalServerError:
		return Outcome{Message: MsgServerError}
	default:
		if status >= 200 && status < 300 {
			return Outcome{}
		}
		return Outcome{Message: firstNonEmpty(apiMsg, cfg.fallback)}
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
