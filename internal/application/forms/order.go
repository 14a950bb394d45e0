package forms

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/distribo-web/internal/domain"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// DateLayout formato de deliveryDate.
const DateLayout = "2006-01-02"

// Order formulario de pedido de product-detail.html.
type Order struct {
	Quantity       string `form:"quantity"`
	DeliveryDate   string `form:"deliveryDate"`
	LocationID     string `form:"locationId"`
	CustomLocation bool   `form:"customLocation"`
	Latitude       string `form:"latitude"`
	Longitude      string `form:"longitude"`
}

// CustomLocationName nombre para un punto elegido libremente en el mapa.
func CustomLocationName() string {
	return "Custom_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Parse valida contra el producto, las ubicaciones de la empresa y la fecha de hoy.
// company puede ser nil si solo se admite un punto libre.
func (o Order) Parse(p entity.Product, company *entity.Company, today time.Time) (entity.Order, error) {
	raw := strings.TrimSpace(o.Quantity)
	if raw == "" {
		return entity.Order{}, domain.Invalid("quantity", "Please enter a quantity")
	}
	qty, err := strconv.Atoi(raw)
	if err != nil || qty <= 0 {
		return entity.Order{}, domain.Invalid("quantity", "Please enter a positive quantity")
	}
	if p.Stock != nil && decimal.NewFromInt(int64(qty)).GreaterThan(p.Stock.Value) {
		return entity.Order{}, domain.Invalid("quantity",
			fmt.Sprintf("Quantity cannot exceed available stock (%s KG)", p.Stock.Value.String()))
	}

	date := strings.TrimSpace(o.DeliveryDate)
	if date == "" {
		return entity.Order{}, domain.Invalid("deliveryDate", "Please select a delivery date")
	}
	d, err := time.ParseInLocation(DateLayout, date, today.Location())
	if err != nil {
		return entity.Order{}, domain.Invalid("deliveryDate", "Please select a valid delivery date")
	}
	y, m, day := today.Date()
	if !d.After(time.Date(y, m, day, 0, 0, 0, 0, today.Location())) {
		return entity.Order{}, domain.Invalid("deliveryDate", "Delivery date must be in the future")
	}

	var dest entity.DeliveryLocation
	if o.CustomLocation {
		lat, lng, err := Coordinates(o.Latitude, o.Longitude)
		if err != nil {
			return entity.Order{}, err
		}
		dest = entity.DeliveryLocation{Latitude: lat, Longitude: lng, Name: CustomLocationName()}
	} else {
		if strings.TrimSpace(o.LocationID) == "" {
			return entity.Order{}, domain.Invalid("locationId", "Please select a delivery location")
		}
		var (
			loc entity.Location
			ok  bool
		)
		if company != nil {
			loc, ok = company.FindLocation(o.LocationID)
		}
		if !ok {
			return entity.Order{}, domain.Invalid("locationId", "Error: Selected location not found")
		}
		dest = entity.DeliveryLocation{Latitude: loc.Latitude, Longitude: loc.Longitude, Name: loc.Name}
	}

	return entity.Order{
		DeliveryDate:     d.Format(DateLayout),
		Items:            []entity.OrderItem{{ProductID: p.ID, Quantity: qty}},
		DeliveryLocation: dest,
	}, nil
}
