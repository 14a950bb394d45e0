package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Nombres de plantilla (archivo sin extensión).
const (
	pageLogin         = "login"
	pageProfile       = "profile"
	pageProducts      = "products"
	pageProductDetail = "product_detail"
	pageCreateProduct = "create_product"
	pageUpdateProduct = "update_product"
	pageCreateCompany = "create_company"
	pageRegisterUser  = "register_user"
	pageMessage       = "message"
)

var pageNames = []string{
	pageLogin, pageProfile, pageProducts, pageProductDetail, pageCreateProduct,
	pageUpdateProduct, pageCreateCompany, pageRegisterUser, pageMessage,
}

// Nav estado de la barra lateral.
type Nav struct {
	Show     bool
	Expanded bool
	Email    string
	Role     entity.Role
}

// Refresh redirección diferida vía <meta http-equiv="refresh">.
type Refresh struct {
	Target  string
	Content string
}

// NewRefresh navega a "/"+target tras delay.
func NewRefresh(target string, delay time.Duration) *Refresh {
	secs := strconv.FormatFloat(delay.Seconds(), 'f', -1, 64)
	return &Refresh{Target: target, Content: secs + ";url=/" + target}
}

// View datos comunes a toda página.
type View struct {
	Title   string
	Nav     Nav
	Error   string
	Success string
	Refresh *Refresh
	Data    any
}

// Renderer plantillas embebidas: cada página se compone con layout.html.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"price":    formatPrice,
	"stock":    formatStock,
	"initials": initials,
	"isRole": func(r entity.Role, names ...string) bool {
		for _, n := range names {
			if string(r) == n {
				return true
			}
		}
		return false
	},
}

// NewRenderer parsea todas las plantillas; un error aquí es de compilación del binario.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pageNames))}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("plantilla %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// MustRenderer como NewRenderer pero entra en pánico.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render escribe la página con el status dado.
func (r *Renderer) Render(c *fiber.Ctx, status int, page string, v View) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("plantilla desconocida: %s", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Status(status).Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func initials(email string) string {
	local, _, _ := strings.Cut(email, "@")
	if local == "" {
		return "?"
	}
	rs := []rune(local)
	if len(rs) > 2 {
		rs = rs[:2]
	}
	return strings.ToUpper(string(rs))
}
