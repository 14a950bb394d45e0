// Package metrics expone las métricas Prometheus del front web.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implementa los registradores de la API, del gate y del limitador de login.
type Collector struct {
	apiRequests   *prometheus.CounterVec
	apiLatency    *prometheus.HistogramVec
	apiFailures   *prometheus.CounterVec
	gateDecisions *prometheus.CounterVec
	loginThrottle prometheus.Counter
}

// NewCollector crea el Collector y registra sus métricas en reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "distribo_api_requests_total",
			Help: "Respuestas recibidas de la API remota por método, ruta y status",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "distribo_api_request_duration_seconds",
			Help:    "Latencia de las llamadas a la API remota (segundos)",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "distribo_api_network_failures_total",
			Help: "Llamadas a la API sin respuesta",
		}, []string{"method", "route"}),
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "distribo_gate_decisions_total",
			Help: "Decisiones del gate de autorización por página y resultado",
		}, []string{"page", "outcome"}),
		loginThrottle: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "distribo_login_throttled_total",
			Help: "Intentos de login rechazados por el limitador",
		}),
	}

	reg.MustRegister(
		c.apiRequests,
		c.apiLatency,
		c.apiFailures,
		c.gateDecisions,
		c.loginThrottle,
	)
	return c
}

// ObserveAPICall registra una respuesta de la API.
func (c *Collector) ObserveAPICall(method, route string, status int, elapsed time.Duration) {
	c.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.apiLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveAPIFailure registra una llamada sin respuesta.
func (c *Collector) ObserveAPIFailure(method, route string) {
	c.apiFailures.WithLabelValues(method, route).Inc()
}

// ObserveDecision registra una decisión del gate.
func (c *Collector) ObserveDecision(page, outcome string) {
	c.gateDecisions.WithLabelValues(page, outcome).Inc()
}

// ObserveLoginThrottled registra un login rechazado por exceso de intentos.
func (c *Collector) ObserveLoginThrottled() {
	c.loginThrottle.Inc()
}

// Handler handler de scrape para gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
