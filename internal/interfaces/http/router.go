package http

import (
	"github.com/gofiber/fiber/v2"
)

// Route una entrada de la tabla de rutas.
type Route struct {
	Method     string
	Path       string
	Handler    fiber.Handler
	Middleware []fiber.Handler
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Handler       *Handler
	LoginThrottle fiber.Handler
	Metrics       fiber.Handler
}

// Routes tabla declarativa de páginas y acciones.
func Routes(deps RouterDeps) []Route {
	h := deps.Handler
	var throttle []fiber.Handler
	if deps.LoginThrottle != nil {
		throttle = []fiber.Handler{deps.LoginThrottle}
	}
	routes := []Route{
		{Method: fiber.MethodGet, Path: "/", Handler: h.Index},
		{Method: fiber.MethodGet, Path: "/health", Handler: h.Health},

		// Sesión
		{Method: fiber.MethodGet, Path: "/login.html", Handler: h.LoginPage},
		{Method: fiber.MethodPost, Path: "/login.html", Handler: h.Login, Middleware: throttle},
		{Method: fiber.MethodPost, Path: "/logout", Handler: h.Logout},
		{Method: fiber.MethodPost, Path: "/preferences/navbar", Handler: h.ToggleNavbar},

		// Perfil y empresa
		{Method: fiber.MethodGet, Path: "/profile.html", Handler: h.Profile},
		{Method: fiber.MethodPost, Path: "/profile/company/delete", Handler: h.DeleteCompany},
		{Method: fiber.MethodPost, Path: "/profile/locations", Handler: h.AddLocation},
		{Method: fiber.MethodPost, Path: "/profile/locations/delete", Handler: h.DeleteLocation},
		{Method: fiber.MethodGet, Path: "/create-company.html", Handler: h.CreateCompanyPage},
		{Method: fiber.MethodPost, Path: "/create-company.html", Handler: h.CreateCompany},
		{Method: fiber.MethodGet, Path: "/register-user.html", Handler: h.RegisterUserPage},
		{Method: fiber.MethodPost, Path: "/register-user.html", Handler: h.RegisterUser},

		// Catálogo
		{Method: fiber.MethodGet, Path: "/products.html", Handler: h.Products},
		{Method: fiber.MethodGet, Path: "/product-detail.html", Handler: h.ProductDetail},
		{Method: fiber.MethodPost, Path: "/product-detail/order", Handler: h.CreateOrder},
		{Method: fiber.MethodPost, Path: "/product-detail/delete", Handler: h.DeleteProduct},
		{Method: fiber.MethodGet, Path: "/create-product.html", Handler: h.CreateProductPage},
		{Method: fiber.MethodPost, Path: "/create-product.html", Handler: h.CreateProduct},
		{Method: fiber.MethodGet, Path: "/update-product.html", Handler: h.UpdateProductPage},
		{Method: fiber.MethodPost, Path: "/update-product.html", Handler: h.UpdateProduct},
	}
	if deps.Metrics != nil {
		routes = append(routes, Route{Method: fiber.MethodGet, Path: "/metrics", Handler: deps.Metrics})
	}
	return routes
}

// Register monta la tabla sobre app.
func Register(app fiber.Router, routes []Route) {
	for _, r := range routes {
		handlers := append(append([]fiber.Handler{}, r.Middleware...), r.Handler)
		app.Add(r.Method, r.Path, handlers...)
	}
}

// Router registra todas las rutas de la aplicación.
func Router(app *fiber.App, deps RouterDeps) {
	Register(app, Routes(deps))
}
