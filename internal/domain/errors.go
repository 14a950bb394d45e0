package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNetwork        = errors.New("sin respuesta de la API")
	ErrMalformedToken = errors.New("token de sesión malformado")
	ErrValidation     = errors.New("entrada inválida")
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrConflict       = errors.New("conflicto con el estado actual")
	ErrLastLocation   = errors.New("la empresa debe conservar al menos una ubicación")
)

// ValidationError restricción de formulario violada antes de enviar la petición.
// Nunca llega a la capa de red.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is permite errors.Is(err, ErrValidation).
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Invalid construye un ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ValidationMessage devuelve el mensaje para el usuario si err es un ValidationError.
func ValidationMessage(err error) (string, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message, true
	}
	return "", false
}
