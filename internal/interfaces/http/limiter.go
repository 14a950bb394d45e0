package http

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ThrottleRecorder cuenta intentos rechazados.
type ThrottleRecorder interface {
	ObserveLoginThrottled()
}

type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// LoginLimiter token bucket por IP para los envíos del formulario de login.
type LoginLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu       sync.Mutex
	limiters map[string]*ipLimiter
	now      func() time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewLoginLimiter perMinute intentos sostenidos por IP con ráfaga burst.
// Arranca la limpieza de entradas inactivas; Stop la detiene.
func NewLoginLimiter(perMinute, burst int) *LoginLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 1
	}
	l := &LoginLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		ttl:      10 * time.Minute,
		limiters: make(map[string]*ipLimiter),
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
	go l.cleanupLoop(time.Minute)
	return l
}

// Stop detiene la limpieza en segundo plano.
func (l *LoginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// Allow consume un token del bucket de ip.
func (l *LoginLimiter) Allow(ip string) bool {
	if ip == "" {
		ip = "unknown"
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.limiters[ip]
	if !ok {
		e = &ipLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = e
	}
	e.lastAccess = l.now()
	return e.limiter.AllowN(e.lastAccess, 1)
}

// Len entradas vivas (tests).
func (l *LoginLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

func (l *LoginLimiter) cleanupLoop(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

func (l *LoginLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-l.ttl)
	for ip, e := range l.limiters {
		if e.lastAccess.Before(cutoff) {
			delete(l.limiters, ip)
		}
	}
}

// LoginThrottle middleware para POST /login.html. Al superar el límite vuelve a
// renderizar el login con un aviso en lugar de llamar a la API.
func LoginThrottle(l *LoginLimiter, views *Renderer, rec ThrottleRecorder, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l.Allow(c.IP()) {
			return c.Next()
		}
		if rec != nil {
			rec.ObserveLoginThrottled()
		}
		log.Warn().Str("ip", c.IP()).Msg("login limitado")
		v := View{Title: "Login", Error: MsgTooManyAttempts}
		v.Data = LoginView{Email: c.FormValue("email")}
		return views.Render(c, fiber.StatusTooManyRequests, pageLogin, v)
	}
}

// MsgTooManyAttempts aviso de login limitado.
const MsgTooManyAttempts = "Too many login attempts. Please wait a minute and try again."
