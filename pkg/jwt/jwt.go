package jwt

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed el token no tiene la forma header.payload.signature o su payload no es JSON.
var ErrMalformed = errors.New("jwt: token malformado")

// RoleClaim nombre del claim que lleva el rol en el payload.
const RoleClaim = "role"

// Claims datos extraídos del payload sin verificar firma.
// Solo sirven para decisiones de interfaz (redirección temprana); la API es la autoridad.
type Claims struct {
	Role    string
	Subject string
	Raw     jwt.MapClaims
}

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// Decode separa el token en sus tres segmentos, decodifica el payload en base64
// y extrae el claim role. No valida firma ni expiración.
func Decode(token string) (Claims, error) {
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return Claims{}, fmt.Errorf("%w: %d segmentos", ErrMalformed, len(parts))
	}
	payload, err := decodeSegment(parts[1])
	if err != nil {
		return Claims{}, fmt.Errorf("%w: payload no es base64: %v", ErrMalformed, err)
	}
	raw := jwt.MapClaims{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		return Claims{}, fmt.Errorf("%w: payload no es JSON: %v", ErrMalformed, err)
	}
	claims := Claims{Raw: raw}
	if role, ok := raw[RoleClaim].(string); ok {
		claims.Role = role
	}
	if sub, err := raw.GetSubject(); err == nil {
		claims.Subject = sub
	}
	return claims, nil
}

// decodeSegment acepta base64url (lo habitual en JWT) y, como respaldo, base64 estándar.
func decodeSegment(seg string) ([]byte, error) {
	b, err := segmentParser.DecodeSegment(seg)
	if err == nil {
		return b, nil
	}
	if b, stdErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(seg, "=")); stdErr == nil {
		return b, nil
	}
	return nil, err
}

// Generate firma un token HS256 con subject, email y role. Lo usan fixtures y tests;
// en producción los tokens los emite la API.
func Generate(secret, subject, email, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iss":   issuer,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(expMinutes) * time.Minute).Unix(),
	}
	if role != "" {
		claims[RoleClaim] = role
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
