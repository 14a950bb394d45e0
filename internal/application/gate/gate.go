// Package gate decide, por carga de página, si el usuario puede verla.
//
// Máquina de estados: Init → LocalCheck → AuthoritativeCheck → Allowed | Denied.
// La verificación local del token es solo de UX; la autoritativa es GET /users/me.
package gate

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/distribo-web/internal/application/session"
	"github.com/jhoicas/distribo-web/internal/domain"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
	"github.com/jhoicas/distribo-web/pkg/jwt"
)

// State estado de la evaluación.
type State int

const (
	StateInit State = iota
	StateLocalCheck
	StateAuthoritativeCheck
	StateAllowed
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateLocalCheck:
		return "local_check"
	case StateAuthoritativeCheck:
		return "authoritative_check"
	case StateAllowed:
		return "allowed"
	case StateDenied:
		return "denied"
	default:
		return "unknown"
	}
}

// PageLogin destino de toda sesión inválida.
const PageLogin = "login.html"

// Directory consulta autoritativa del usuario y su empresa (api.Gateway la cumple).
type Directory interface {
	Me(ctx context.Context) (entity.UserProfile, error)
	MyCompany(ctx context.Context) (entity.Company, error)
}

// Recorder cuenta decisiones.
type Recorder interface {
	ObserveDecision(page, outcome string)
}

// Decision resultado terminal de Evaluate.
type Decision struct {
	State State
	// Denied
	Target   string
	Purge    bool
	FlashKey string
	Message  string
	// Allowed
	Profile    entity.UserProfile
	Role       entity.Role
	Company    *entity.Company
	HasCompany bool
}

// Allowed indica si la página puede renderizarse.
func (d Decision) Allowed() bool { return d.State == StateAllowed }

// Gate evalúa políticas contra el almacén de sesión.
type Gate struct {
	log     zerolog.Logger
	metrics Recorder
}

// Option configura el Gate.
type Option func(*Gate)

// WithLogger inyecta el logger.
func WithLogger(l zerolog.Logger) Option { return func(g *Gate) { g.log = l } }

// WithRecorder inyecta el contador de decisiones.
func WithRecorder(r Recorder) Option {
	return func(g *Gate) {
		if r != nil {
			g.metrics = r
		}
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveDecision(string, string) {}

// New crea un Gate.
func New(opts ...Option) *Gate {
	g := &Gate{log: zerolog.Nop(), metrics: nopRecorder{}}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Evaluate recorre la máquina de estados para p. Los efectos de una denegación
// (purga de sesión, mensaje de un solo uso) se aplican sobre sess antes de volver.
// Sin token no hay llamada de red.
func (g *Gate) Evaluate(ctx context.Context, p Policy, sess session.Session, dir Directory) Decision {
	d := g.evaluate(ctx, p, sess, dir)
	if d.State == StateDenied {
		if d.Purge {
			sess.Clear()
		}
		if d.FlashKey != "" && d.Message != "" {
			sess.Put(d.FlashKey, d.Message)
		}
	}
	g.metrics.ObserveDecision(p.Page, d.State.String())
	g.log.Debug().
		Str("page", p.Page).
		Str("state", d.State.String()).
		Str("role", string(d.Role)).
		Str("target", d.Target).
		Msg("gate")
	return d
}

// LocalRole rol leído del token sin verificar firma. Solo orienta la interfaz;
// un token ilegible devuelve un error que cumple errors.Is con domain.ErrMalformedToken.
func LocalRole(token string) (entity.Role, error) {
	claims, err := jwt.Decode(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrMalformedToken, err)
	}
	return entity.ParseRole(claims.Role), nil
}

func (g *Gate) evaluate(ctx context.Context, p Policy, sess session.Session, dir Directory) Decision {
	// Init
	tok, ok := sess.Get()
	if !ok {
		return Decision{State: StateDenied, Target: PageLogin}
	}

	// LocalCheck
	if p.LocalCheck {
		role, err := LocalRole(tok)
		if err != nil {
			g.log.Warn().Err(err).Str("page", p.Page).Msg("token local ilegible")
			return Decision{State: StateDenied, Target: PageLogin, Purge: true}
		}
		if !p.admits(role) {
			return p.RoleDenied.decision(role)
		}
	}

	// AuthoritativeCheck
	profile, err := dir.Me(ctx)
	if err != nil {
		g.log.Info().Err(err).Str("page", p.Page).Msg("verificación de sesión fallida")
		return Decision{State: StateDenied, Target: PageLogin, Purge: true}
	}
	role := profile.Role
	if !p.admits(role) {
		return p.RoleDenied.decision(role)
	}

	d := Decision{State: StateAllowed, Profile: profile, Role: role}

	switch {
	case role.In(p.CompanyRequired...):
		c, err := dir.MyCompany(ctx)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				g.log.Warn().Err(err).Str("page", p.Page).Msg("empresa no disponible")
			}
			return p.CompanyMissing.decision(role)
		}
		d.Company, d.HasCompany = &c, true
	case role.In(p.CompanyOptional...):
		c, err := dir.MyCompany(ctx)
		switch {
		case err == nil:
			d.Company, d.HasCompany = &c, true
		case errors.Is(err, domain.ErrNotFound):
		default:
			g.log.Warn().Err(err).Str("page", p.Page).Msg("empresa no disponible")
		}
	}
	return d
}
