package http

import (
	"github.com/jhoicas/distribo-web/internal/application/forms"
	"github.com/jhoicas/distribo-web/internal/application/gate"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// LoginView formulario de login.
type LoginView struct {
	Email string
}

// ProfileView variantes de profile.html según rol y empresa.
type ProfileView struct {
	Email    string
	Role     entity.Role
	Company  *entity.Company
	Location forms.Location

	ShowCompany       bool
	ShowRegisterUser  bool
	ShowCreateProduct bool
	ShowCreateCompany bool
	ShowDeleteCompany bool
	ShowAddLocation   bool
	ManageLocations   bool
}

func newProfileView(d gate.Decision) ProfileView {
	v := ProfileView{Email: d.Profile.Email, Role: d.Role, Company: d.Company}
	switch d.Role {
	case entity.RoleAdmin:
		v.ShowRegisterUser = true
		v.ShowCreateProduct = true
	case entity.RoleRootUser:
		if d.HasCompany {
			v.ShowCompany = true
			v.ShowDeleteCompany = true
			v.ShowRegisterUser = true
			v.ShowAddLocation = true
			v.ManageLocations = true
		} else {
			v.ShowCreateCompany = true
		}
	case entity.RoleUser:
		v.ShowCompany = d.HasCompany
	}
	return v
}

// ProductsView catálogo.
type ProductsView struct {
	Products []entity.Product
	IsAdmin  bool
}

// Mensajes de la sección de pedido.
const (
	MsgOrderNeedsCompany = "You need to create a company before you can place orders."
	MsgOrderUnavailable  = "Ordering is not available for your account."
)

// ProductDetailView ficha de producto con la variante de pedido del rol.
type ProductDetailView struct {
	Product      *entity.Product
	AdminOptions bool
	OrderForm    bool
	OrderBlocked string
	Locations    []entity.Location
	MinDate      string
	Order        forms.Order
}

func newProductDetailView(d gate.Decision, p *entity.Product, minDate string) ProductDetailView {
	v := ProductDetailView{Product: p, MinDate: minDate}
	switch d.Role {
	case entity.RoleAdmin:
		v.AdminOptions = true
		v.OrderBlocked = MsgOrderUnavailable
	case entity.RoleRootUser:
		if d.HasCompany {
			v.OrderForm = true
		} else {
			v.OrderBlocked = MsgOrderNeedsCompany
		}
	case entity.RoleUser:
		v.OrderForm = true
	default:
		v.OrderBlocked = MsgOrderUnavailable
	}
	if v.OrderForm && d.Company != nil {
		v.Locations = d.Company.Locations
	}
	return v
}

// ProductFormView alta y edición de producto.
type ProductFormView struct {
	ID          string
	Name        string
	Description string
	Price       string
	StockValue  string
	StockUnit   string
	Images      []entity.Image
	Keep        map[string]bool
	MaxImages   int
}

func productFormFromEntity(p entity.Product) ProductFormView {
	v := ProductFormView{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Images:      p.Images,
		Keep:        make(map[string]bool, len(p.Images)),
		MaxImages:   entity.MaxProductImages,
	}
	if p.Stock != nil {
		v.StockValue = p.Stock.Value.String()
		v.StockUnit = p.Stock.Unit
	}
	for _, img := range p.Images {
		v.Keep[img.ID] = true
	}
	return v
}

// CompanyFormView alta de empresa.
type CompanyFormView struct {
	Form forms.Company
}

// RegisterUserView alta de usuario con los roles que el actor puede asignar.
type RegisterUserView struct {
	Email    string
	Role     string
	Roles    []entity.Role
	Actor    entity.Role
	Disabled bool
}
