package http

import (
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/distribo-web/internal/application/session"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// persistentTTL vida de token, perfil y preferencias (equivalente a almacenamiento local).
const persistentTTL = 30 * 24 * time.Hour

// CookieSession implementa session.Session sobre las cookies de una petición.
// Los valores viajan con escape de URL. Lo escrito durante la petición se lee de vuelta desde la caché, no desde la
// cabecera Cookie original. Un mutex permite usarla desde las goroutines de un
// mismo handler.
type CookieSession struct {
	c      *fiber.Ctx
	secure bool

	mu      sync.Mutex
	written map[string]*string // nil = borrada
}

var _ session.Session = (*CookieSession)(nil)

// NewCookieSession crea la sesión de la petición c.
func NewCookieSession(c *fiber.Ctx, secure bool) *CookieSession {
	return &CookieSession{c: c, secure: secure, written: make(map[string]*string)}
}

func (s *CookieSession) read(key string) string {
	if v, ok := s.written[key]; ok {
		if v == nil {
			return ""
		}
		return *v
	}
	v, err := url.QueryUnescape(s.c.Cookies(key))
	if err != nil {
		return ""
	}
	return v
}

func (s *CookieSession) write(key, value string, ttl time.Duration) {
	s.written[key] = &value
	ck := &fiber.Cookie{
		Name:     key,
		Value:    url.QueryEscape(value),
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
	if ttl > 0 {
		ck.Expires = time.Now().Add(ttl)
	} else {
		ck.SessionOnly = true
	}
	s.c.Cookie(ck)
}

func (s *CookieSession) remove(key string) {
	s.written[key] = nil
	s.c.Cookie(&fiber.Cookie{
		Name:     key,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		Secure:   s.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Unix(1, 0),
	})
}

func (s *CookieSession) Set(token string, profile *entity.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(session.KeyToken, token, persistentTTL)
	if profile == nil {
		s.remove(session.KeyUser)
		return
	}
	b, err := json.Marshal(profile)
	if err != nil {
		s.remove(session.KeyUser)
		return
	}
	s.write(session.KeyUser, string(b), persistentTTL)
}

func (s *CookieSession) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tok := s.read(session.KeyToken)
	return tok, tok != ""
}

func (s *CookieSession) Profile() (*entity.UserProfile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw := s.read(session.KeyUser)
	if raw == "" {
		return nil, false
	}
	var p entity.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (s *CookieSession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(session.KeyToken)
	s.remove(session.KeyUser)
}

func (s *CookieSession) Put(key, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.write(key, message, 0)
}

func (s *CookieSession) Take(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.read(key)
	if msg == "" {
		return "", false
	}
	s.remove(key)
	return msg, true
}

func (s *CookieSession) NavbarExpanded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(session.KeyNavbarExpanded) == "true"
}

func (s *CookieSession) SetNavbarExpanded(expanded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := "false"
	if expanded {
		v = "true"
	}
	s.write(session.KeyNavbarExpanded, v, persistentTTL)
}
