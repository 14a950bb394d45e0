package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/distribo-web/internal/application/gate"
	"github.com/jhoicas/distribo-web/internal/infrastructure/api"
	"github.com/jhoicas/distribo-web/internal/infrastructure/metrics"
	httpRouter "github.com/jhoicas/distribo-web/internal/interfaces/http"
	"github.com/jhoicas/distribo-web/pkg/config"
	"github.com/jhoicas/distribo-web/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Msg("iniciando aplicación")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	// Timeout cero: el cliente no impone límite propio.
	apiClient := api.NewClient(cfg.API.BaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		api.WithLogger(log.Component("api")),
		api.WithRecorder(collector),
	)
	pageGate := gate.New(
		gate.WithLogger(log.Component("gate")),
		gate.WithRecorder(collector),
	)

	views, err := httpRouter.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas")
	}

	cookieKey := cfg.Cookie.Key
	if cookieKey == "" {
		cookieKey = encryptcookie.GenerateKey()
		log.Warn().Msg("COOKIE_KEY vacío: clave efímera, las sesiones no sobreviven reinicios")
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:      cfg.App.Name,
		CookieKey: cookieKey,
		Views:     views,
		Logger:    log.Zerolog(),
	})

	limiter := httpRouter.NewLoginLimiter(cfg.Login.RatePerMinute, cfg.Login.Burst)
	defer limiter.Stop()

	handler := httpRouter.NewHandler(httpRouter.HandlerDeps{
		API:           apiClient,
		Gate:          pageGate,
		Views:         views,
		Logger:        log.Component("http"),
		SecureCookies: cfg.Cookie.Secure,
	})
	httpRouter.Router(app, httpRouter.RouterDeps{
		Handler:       handler,
		LoginThrottle: httpRouter.LoginThrottle(limiter, views, collector, log.Component("login")),
		Metrics:       adaptor.HTTPHandler(metrics.Handler(reg)),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
