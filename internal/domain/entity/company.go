package entity

import (
	"regexp"
	"strings"
)

// Company organización de un RootUser/User. El cliente solo la lee, crea o borra.
type Company struct {
	ID        string
	Name      string
	Address   string
	City      string
	State     string
	ZipCode   string
	Country   string
	Phone     string
	Email     string
	Website   string
	Locations []Location
}

// Location punto de entrega de una empresa.
type Location struct {
	ID        string
	Name      string
	Latitude  float64
	Longitude float64
}

// FullAddress une los campos de dirección presentes, separados por coma.
func (c Company) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{c.Address, c.City, c.State, c.ZipCode, c.Country} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

var schemeRe = regexp.MustCompile(`^https?://`)

// WebsiteURL devuelve el sitio con prefijo http(s).
func (c Company) WebsiteURL() string {
	if c.Website == "" {
		return ""
	}
	if schemeRe.MatchString(c.Website) {
		return c.Website
	}
	return "http://" + c.Website
}

// CanDeleteLocation indica si borrar una ubicación dejaría a la empresa sin ninguna.
// La API es quien lo hace cumplir; esto solo evita la llamada.
func (c Company) CanDeleteLocation() bool {
	return len(c.Locations) > 1
}

// FindLocation busca una ubicación por ID.
func (c Company) FindLocation(id string) (Location, bool) {
	for _, l := range c.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return Location{}, false
}
