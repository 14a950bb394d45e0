package dto

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// LoginRequest entrada para POST /users/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUserRequest entrada para POST /users/register.
type RegisterUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// RoleRef el rol llega como objeto { "name": "Admin" }; se tolera también un string plano.
type RoleRef struct {
	Name string `json:"name"`
}

// UnmarshalJSON implementa json.Unmarshaler.
func (r *RoleRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &r.Name)
	}
	type plain RoleRef
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = RoleRef(p)
	return nil
}

// UserResponse salida de GET /users/me.
type UserResponse struct {
	Email string   `json:"email"`
	Role  *RoleRef `json:"role"`
}

// ToProfile convierte a entidad. Rol ausente se trata como User.
func (u UserResponse) ToProfile() entity.UserProfile {
	name := ""
	if u.Role != nil {
		name = u.Role.Name
	}
	return entity.UserProfile{Email: u.Email, Role: entity.ParseRole(name)}
}

// loginBody formas aceptadas de la respuesta de login.
type loginBody struct {
	Data  json.RawMessage `json:"data"`
	Token string          `json:"token"`
}

// ExtractLoginToken obtiene el token de la respuesta de login: data (string), token o data.token.
// profile es el objeto data cuando la API lo envía como objeto.
func ExtractLoginToken(body []byte) (token string, profile json.RawMessage, ok bool) {
	var lb loginBody
	if err := json.Unmarshal(body, &lb); err != nil {
		return "", nil, false
	}
	data := bytes.TrimSpace(lb.Data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err == nil && strings.TrimSpace(s) != "" {
			return s, nil, true
		}
	}
	if len(data) > 0 && data[0] == '{' {
		profile = json.RawMessage(data)
	}
	if lb.Token != "" {
		return lb.Token, profile, true
	}
	if profile != nil {
		var inner struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(profile, &inner); err == nil && inner.Token != "" {
			return inner.Token, profile, true
		}
	}
	return "", profile, false
}
