package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// AppConfig opciones del servidor de páginas.
type AppConfig struct {
	Name string
	// CookieKey clave base64 de 32 bytes; vacía desactiva el cifrado (solo tests).
	CookieKey string
	Views     *Renderer
	Logger    zerolog.Logger
}

// NewApp crea la aplicación Fiber con recover, log de peticiones y cookies cifradas.
func NewApp(cfg AppConfig) *fiber.App {
	views := cfg.Views
	if views == nil {
		views = MustRenderer()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    BodyLimit,
		ReadTimeout:  time.Second * 60,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(views, cfg.Logger),
	})
	app.Use(recover.New())
	app.Use(RequestLogger(cfg.Logger))
	if cfg.CookieKey != "" {
		app.Use(encryptcookie.New(encryptcookie.Config{Key: cfg.CookieKey}))
	}
	return app
}
