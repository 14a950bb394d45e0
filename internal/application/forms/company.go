package forms

import (
	"strconv"
	"strings"

	"github.com/jhoicas/distribo-web/internal/application/dto"
	"github.com/jhoicas/distribo-web/internal/domain"
)

// Location formulario de nueva ubicación (modal de profile.html).
type Location struct {
	Name      string `form:"name"`
	Latitude  string `form:"latitude"`
	Longitude string `form:"longitude"`
}

// Parse valida nombre y coordenadas.
func (l Location) Parse() (dto.LocationRequest, error) {
	name := Clean(l.Name)
	if name == "" {
		return dto.LocationRequest{}, domain.Invalid("name", "Please enter a location name")
	}
	lat, lng, err := Coordinates(l.Latitude, l.Longitude)
	if err != nil {
		return dto.LocationRequest{}, err
	}
	return dto.LocationRequest{Latitude: lat, Longitude: lng, Name: name}, nil
}

// Coordinates interpreta un punto elegido en el mapa.
func Coordinates(latitude, longitude string) (float64, float64, error) {
	missing := domain.Invalid("coordinates", "Please select a location on the map")
	lat, err := strconv.ParseFloat(strings.TrimSpace(latitude), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, missing
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(longitude), 64)
	if err != nil || lng < -180 || lng > 180 {
		return 0, 0, missing
	}
	return lat, lng, nil
}

// Company formulario de create-company.html: empresa y su primera ubicación.
type Company struct {
	Name         string `form:"companyName"`
	Address      string `form:"address"`
	Phone        string `form:"phone"`
	Email        string `form:"email"`
	LocationName string `form:"locationName"`
	Latitude     string `form:"latitude"`
	Longitude    string `form:"longitude"`
}

// Parse valida y arma la petición con exactamente una ubicación.
func (c Company) Parse() (dto.CreateCompanyRequest, error) {
	name := Clean(c.Name)
	if name == "" {
		return dto.CreateCompanyRequest{}, domain.Invalid("companyName", "Company name is required.")
	}
	phone := strings.TrimSpace(c.Phone)
	if phone == "" {
		return dto.CreateCompanyRequest{}, domain.Invalid("phone", "Phone number is required.")
	}
	email := strings.TrimSpace(c.Email)
	if !ValidEmail(email) {
		return dto.CreateCompanyRequest{}, domain.Invalid("email", "Please enter a valid email address.")
	}
	loc, err := Location{Name: c.LocationName, Latitude: c.Latitude, Longitude: c.Longitude}.Parse()
	if err != nil {
		return dto.CreateCompanyRequest{}, err
	}
	return dto.CreateCompanyRequest{
		Name:      name,
		Address:   Clean(c.Address),
		Phone:     phone,
		Email:     email,
		Locations: []dto.LocationRequest{loc},
	}, nil
}
