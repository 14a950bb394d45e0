// Package api implementa el cliente HTTP de la API remota de pedidos.
//
// Contrato: un fallo de transporte (no hubo respuesta) es un *NetworkError; cualquier
// respuesta recibida, incluidas 4xx/5xx, vuelve como *Response sin error y el llamador
// decide según Status. El cliente nunca reintenta.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-ID"
	contentTypeJSON     = "application/json"

	// maxResponseBytes límite de lectura del cuerpo de respuesta.
	maxResponseBytes = 8 << 20
)

// TokenSource devuelve el token de sesión actual, si lo hay.
type TokenSource func() (string, bool)

// NoToken fuente sin token (login).
func NoToken() (string, bool) { return "", false }

// Recorder registra métricas de cada llamada.
type Recorder interface {
	ObserveAPICall(method, route string, status int, elapsed time.Duration)
	ObserveAPIFailure(method, route string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAPICall(string, string, int, time.Duration) {}
func (nopRecorder) ObserveAPIFailure(string, string)                  {}

// Request petición hacia la API.
type Request struct {
	Method string
	Path   string     // relativo a la base, p. ej. "/users/me"
	Route  string     // etiqueta para métricas; por defecto Path
	Query  url.Values // opcional
	Body   any        // nil, *Multipart o cualquier valor serializable a JSON
	Auth   bool       // adjuntar Bearer si hay token
}

// Client cliente de la API remota.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
	metrics    Recorder
}

// Option configura el Client.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client (tests, timeouts de red).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger inyecta el logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithRecorder inyecta el colector de métricas.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.metrics = r
		}
	}
}

// NewClient construye el cliente. baseURL incluye el prefijo de versión (…/v1).
// Sin WithHTTPClient no hay timeout local.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        zerolog.Nop(),
		metrics:    nopRecorder{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Do ejecuta la petición. Ver el contrato del paquete.
func (c *Client) Do(ctx context.Context, tokens TokenSource, r Request) (*Response, error) {
	route := r.Route
	if route == "" {
		route = r.Path
	}

	body, contentType, err := encodeBody(r.Body)
	if err != nil {
		return nil, fmt.Errorf("api: serializar %s %s: %w", r.Method, route, err)
	}

	target := c.baseURL + r.Path
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("api: crear request %s %s: %w", r.Method, route, err)
	}
	req.Header.Set(headerContentType, contentType)
	req.Header.Set("Accept", contentTypeJSON)
	reqID := newRequestID()
	req.Header.Set(headerRequestID, reqID)
	if r.Auth && tokens != nil {
		if tok, ok := tokens(); ok {
			req.Header.Set(headerAuthorization, "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveAPIFailure(r.Method, route)
		c.log.Warn().Err(err).
			Str("method", r.Method).
			Str("route", route).
			Str("request_id", reqID).
			Msg("API sin respuesta")
		return nil, &NetworkError{Method: r.Method, Path: route, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.metrics.ObserveAPIFailure(r.Method, route)
		return nil, &NetworkError{Method: r.Method, Path: route, Err: fmt.Errorf("leer respuesta: %w", err)}
	}
	elapsed := time.Since(start)
	c.metrics.ObserveAPICall(r.Method, route, resp.StatusCode, elapsed)
	c.log.Debug().
		Str("method", r.Method).
		Str("route", route).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Str("request_id", reqID).
		Msg("llamada a la API")

	return &Response{Status: resp.StatusCode, Body: raw, Header: resp.Header}, nil
}

// encodeBody devuelve el cuerpo y su Content-Type. Multipart usa el tipo con boundary
// del writer; todo lo demás viaja como JSON.
func encodeBody(v any) (io.Reader, string, error) {
	switch b := v.(type) {
	case nil:
		return nil, contentTypeJSON, nil
	case *Multipart:
		return b.encode()
	case json.RawMessage:
		return bytes.NewReader(b), contentTypeJSON, nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), contentTypeJSON, nil
	}
}
