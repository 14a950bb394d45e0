// Package forms valida los formularios antes de llamar a la API. Un fallo devuelve
// *domain.ValidationError y nunca llega a la red.
package forms

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict  = bluemonday.StrictPolicy()
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// Clean elimina marcado HTML y espacios en los extremos de un campo de texto libre.
func Clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// ValidEmail formato mínimo local@dominio.tld.
func ValidEmail(s string) bool {
	return emailRe.MatchString(s)
}
