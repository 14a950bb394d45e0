package dto

import (
	"bytes"
	"encoding/json"
)

// Envelope cuerpo de éxito de la API: { "data": <payload> }.
type Envelope struct {
	Data json.RawMessage `json:"data"`
}

// ErrorResponse cuerpo de error de la API: { "message": "...", "code": "..." }.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// FlexString acepta string o número en JSON (IDs y unidades no son homogéneos en la API).
type FlexString string

// UnmarshalJSON implementa json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// String devuelve el valor como string.
func (f FlexString) String() string { return string(f) }
