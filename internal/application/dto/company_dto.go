package dto

import "github.com/jhoicas/distribo-web/internal/domain/entity"

// CreateCompanyRequest entrada para POST /companies (empresa + primera ubicación).
type CreateCompanyRequest struct {
	Name      string            `json:"name"`
	Address   string            `json:"address"`
	Phone     string            `json:"phone"`
	Email     string            `json:"email"`
	Locations []LocationRequest `json:"locations"`
}

// LocationRequest entrada para POST /locations y para la primera ubicación de una empresa.
type LocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name"`
}

// CompanyResponse salida de GET /companies/me.
type CompanyResponse struct {
	ID        FlexString         `json:"id"`
	Name      string             `json:"name"`
	Address   string             `json:"address"`
	City      string             `json:"city"`
	State     string             `json:"state"`
	ZipCode   string             `json:"zipCode"`
	Country   string             `json:"country"`
	Phone     string             `json:"phone"`
	Email     string             `json:"email"`
	Website   string             `json:"website"`
	Locations []LocationResponse `json:"locations"`
}

// LocationResponse ubicación dentro de CompanyResponse.
type LocationResponse struct {
	ID        FlexString `json:"id"`
	Name      string     `json:"name"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
}

// Empty indica que la API devolvió data vacía (se trata como "sin empresa").
func (c CompanyResponse) Empty() bool {
	return c.ID == "" && c.Name == "" && len(c.Locations) == 0
}

// ToEntity convierte a entidad.
func (c CompanyResponse) ToEntity() entity.Company {
	locs := make([]entity.Location, 0, len(c.Locations))
	for _, l := range c.Locations {
		locs = append(locs, entity.Location{
			ID:        l.ID.String(),
			Name:      l.Name,
			Latitude:  l.Latitude,
			Longitude: l.Longitude,
		})
	}
	return entity.Company{
		ID:        c.ID.String(),
		Name:      c.Name,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		ZipCode:   c.ZipCode,
		Country:   c.Country,
		Phone:     c.Phone,
		Email:     c.Email,
		Website:   c.Website,
		Locations: locs,
	}
}
