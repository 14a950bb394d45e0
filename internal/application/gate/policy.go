package gate

import (
	"github.com/jhoicas/distribo-web/internal/application/session"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// Páginas con política propia.
const (
	PageProfile       = "profile.html"
	PageProducts      = "products.html"
	PageProductDetail = "product-detail.html"
	PageRegisterUser  = "register-user.html"
	PageCreateProduct = "create-product.html"
	PageUpdateProduct = "update-product.html"
	PageCreateCompany = "create-company.html"
)

// Denial destino y efectos de una denegación.
type Denial struct {
	Target   string
	Purge    bool
	FlashKey string
	Message  string
}

func (d Denial) decision(role entity.Role) Decision {
	target := d.Target
	if target == "" {
		target = PageLogin
	}
	return Decision{
		State:    StateDenied,
		Target:   target,
		Purge:    d.Purge,
		FlashKey: d.FlashKey,
		Message:  d.Message,
		Role:     role,
	}
}

// Policy requisitos de acceso de una página.
type Policy struct {
	Page string
	// Roles admitidos; vacío admite cualquiera.
	Roles []entity.Role
	// LocalCheck decodifica el token antes de ir a la red.
	LocalCheck bool
	// RoleDenied se aplica si el rol (local o autoritativo) no está en Roles.
	RoleDenied Denial
	// CompanyRequired roles que necesitan empresa; sin ella se aplica CompanyMissing.
	CompanyRequired []entity.Role
	CompanyMissing  Denial
	// CompanyOptional roles cuya empresa se carga si existe.
	CompanyOptional []entity.Role
}

func (p Policy) admits(r entity.Role) bool {
	return len(p.Roles) == 0 || r.In(p.Roles...)
}

// Mensajes de un solo uso que muestran profile.html.
const (
	MsgCompanyBeforeRegister = "You need to create a company before registering users."
	MsgCreateProductDenied   = "You do not have permission to create products. Only Admin users can access this page."
	MsgCreateCompanyDenied   = "Only Root Users can create companies."
)

var (
	ProfilePolicy = Policy{
		Page:            PageProfile,
		CompanyOptional: []entity.Role{entity.RoleRootUser, entity.RoleUser},
	}

	ProductsPolicy = Policy{Page: PageProducts}

	ProductDetailPolicy = Policy{
		Page:            PageProductDetail,
		CompanyOptional: []entity.Role{entity.RoleRootUser, entity.RoleUser},
	}

	RegisterUserPolicy = Policy{
		Page:            PageRegisterUser,
		Roles:           []entity.Role{entity.RoleAdmin, entity.RoleRootUser},
		RoleDenied:      Denial{Target: PageLogin, Purge: true},
		CompanyRequired: []entity.Role{entity.RoleRootUser},
		CompanyMissing: Denial{
			Target:   PageProfile,
			FlashKey: session.FlashRegistrationError,
			Message:  MsgCompanyBeforeRegister,
		},
	}

	CreateProductPolicy = Policy{
		Page:  PageCreateProduct,
		Roles: []entity.Role{entity.RoleAdmin},
		RoleDenied: Denial{
			Target:   PageProfile,
			FlashKey: session.FlashAccessError,
			Message:  MsgCreateProductDenied,
		},
	}

	UpdateProductPolicy = Policy{
		Page:       PageUpdateProduct,
		Roles:      []entity.Role{entity.RoleAdmin},
		RoleDenied: Denial{Target: PageLogin, Purge: true},
	}

	CreateCompanyPolicy = Policy{
		Page:       PageCreateCompany,
		Roles:      []entity.Role{entity.RoleRootUser},
		LocalCheck: true,
		RoleDenied: Denial{
			Target:   PageProfile,
			FlashKey: session.FlashAccessError,
			Message:  MsgCreateCompanyDenied,
		},
	}
)
