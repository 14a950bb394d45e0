package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jhoicas/distribo-web/internal/application/dto"
	"github.com/jhoicas/distribo-web/internal/domain"
)

// Response respuesta recibida de la API (cualquier status).
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// OK indica status 2xx.
func (r *Response) OK() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// ErrEmptyData la respuesta de éxito no trae data.
var ErrEmptyData = errors.New("api: respuesta sin data")

// Decode extrae el campo data del sobre de éxito en v.
func (r *Response) Decode(v any) error {
	var env dto.Envelope
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return fmt.Errorf("api: sobre inválido: %w", err)
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return ErrEmptyData
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("api: data inválida: %w", err)
	}
	return nil
}

// Problem interpreta el sobre de error. ok=false si el cuerpo no es JSON.
func (r *Response) Problem() (dto.ErrorResponse, bool) {
	var e dto.ErrorResponse
	if r == nil || len(r.Body) == 0 {
		return e, false
	}
	if err := json.Unmarshal(r.Body, &e); err != nil {
		return dto.ErrorResponse{}, false
	}
	return e, true
}

// Err devuelve un *ApplicationError para status >= 400, nil en otro caso.
func (r *Response) Err() error {
	if r == nil || r.Status < 400 {
		return nil
	}
	p, _ := r.Problem()
	return &ApplicationError{Status: r.Status, Code: p.Code, Message: p.Message}
}

// NetworkError no se recibió respuesta (conectividad, DNS, cancelación).
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("api: %s %s sin respuesta: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, domain.ErrNetwork).
func (e *NetworkError) Is(target error) bool { return target == domain.ErrNetwork }

// ApplicationError respuesta válida con status >= 400.
type ApplicationError struct {
	Status  int
	Code    string
	Message string
}

func (e *ApplicationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api: HTTP %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
}

// Is traduce el status a los errores de dominio.
func (e *ApplicationError) Is(target error) bool {
	switch target {
	case domain.ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case domain.ErrForbidden:
		return e.Status == http.StatusForbidden
	case domain.ErrNotFound:
		return e.Status == http.StatusNotFound
	case domain.ErrConflict:
		return e.Status == http.StatusConflict
	}
	return false
}

// Problem expone status, código y mensaje para el clasificador.
func (e *ApplicationError) Problem() (int, string, string) {
	return e.Status, e.Code, e.Message
}
