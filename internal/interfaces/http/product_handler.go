package http

import (
	"fmt"
	"net/url"
	"runtime/debug"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/distribo-web/internal/application/classify"
	"github.com/jhoicas/distribo-web/internal/application/dto"
	"github.com/jhoicas/distribo-web/internal/application/forms"
	"github.com/jhoicas/distribo-web/internal/application/gate"
	"github.com/jhoicas/distribo-web/internal/application/session"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// Mensajes de products.html y product-detail.html.
const (
	MsgOrderCreated    = "Order created successfully! Your order has been submitted."
	MsgOrderInvalid    = "Invalid order details. Please check your input and try again."
	MsgOrderFailed     = "An error occurred while creating your order. Please try again later."
	MsgOrderNetwork    = "Failed to create order. Please check your connection and try again."
	MsgProductGone     = "Product not found. It may have been deleted already."
	MsgProductNotFound = "Product not found."
)

// detailPage ficha de un producto.
func detailPage(id string) string {
	return gate.PageProductDetail + "?id=" + url.QueryEscape(id)
}

// Products GET /products.html.
func (h *Handler) Products(c *fiber.Ctx) error {
	sess := h.session(c)
	d := h.evaluate(c, gate.ProductsPolicy, sess)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	v := View{Title: "Products", Nav: h.nav(sess, d)}
	status := fiber.StatusOK
	list, err := h.gateway(sess).ListProducts(c.UserContext())
	if err != nil {
		h.logAPIError(c, "list_products", err)
		out := classify.ClassifyError(err)
		v.Error = "Failed to load products: " + out.Message
		v.Refresh = h.apply(sess, out)
		status = statusFor(err)
	}
	v.Data = ProductsView{Products: list, IsAdmin: d.Role == entity.RoleAdmin}
	return h.views.Render(c, status, pageProducts, v)
}

// gateWithProduct pasa el gate y descarga el producto en paralelo. Sin token no
// sale ninguna petición: el gate deniega sin red.
func (h *Handler) gateWithProduct(c *fiber.Ctx, p gate.Policy, sess session.Session, id string) (gate.Decision, entity.Product, error) {
	if _, ok := sess.Get(); !ok {
		return h.evaluate(c, p, sess), entity.Product{}, nil
	}
	var (
		d       gate.Decision
		product entity.Product
		perr    error
		g       errgroup.Group
		ctx     = c.UserContext()
		gw      = h.gateway(sess)
	)
	g.Go(func() (err error) {
		defer recovered(&err)
		d = h.gate.Evaluate(ctx, p, sess, gw)
		return nil
	})
	g.Go(func() (err error) {
		defer recovered(&err)
		product, perr = gw.GetProduct(ctx, id)
		return nil
	})
	if err := g.Wait(); err != nil {
		// se relanza en la goroutine de la petición para que lo atrape recover
		panic(err)
	}
	return d, product, perr
}

// recovered convierte un pánico de la goroutine en error.
func recovered(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("pánico en goroutine: %v\n%s", r, debug.Stack())
	}
}

func (h *Handler) minDeliveryDate() string {
	return h.now().AddDate(0, 0, 1).Format(forms.DateLayout)
}

// productLoadFailure aviso de carga fallida de la ficha.
func (h *Handler) productLoadFailure(sess session.Store, err error) (string, *Refresh) {
	out := classify.ClassifyError(err, classify.WithNotFound(MsgProductNotFound, ""))
	return "Failed to load product details: " + out.Message, h.apply(sess, out)
}

func (h *Handler) renderProductDetail(c *fiber.Ctx, sess navSession, d gate.Decision, p *entity.Product, status int, v View, order forms.Order) error {
	pv := newProductDetailView(d, p, h.minDeliveryDate())
	pv.Order = order
	v.Title = "Product Detail"
	v.Nav = h.nav(sess, d)
	v.Data = pv
	return h.views.Render(c, status, pageProductDetail, v)
}

// ProductDetail GET /product-detail.html?id=.
func (h *Handler) ProductDetail(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		return h.redirect(c, gate.PageProducts)
	}
	sess := h.session(c)
	d, product, err := h.gateWithProduct(c, gate.ProductDetailPolicy, sess, id)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	if err != nil {
		h.logAPIError(c, "get_product", err)
		msg, refresh := h.productLoadFailure(sess, err)
		return h.renderProductDetail(c, sess, d, nil, statusFor(err), View{Error: msg, Refresh: refresh}, forms.Order{})
	}
	return h.renderProductDetail(c, sess, d, &product, fiber.StatusOK, View{}, forms.Order{})
}

// CreateOrder POST /product-detail/order?id=.
func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		return h.redirect(c, gate.PageProducts)
	}
	sess := h.session(c)
	d, product, err := h.gateWithProduct(c, gate.ProductDetailPolicy, sess, id)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	if err != nil {
		h.logAPIError(c, "get_product", err)
		msg, refresh := h.productLoadFailure(sess, err)
		return h.renderProductDetail(c, sess, d, nil, statusFor(err), View{Error: msg, Refresh: refresh}, forms.Order{})
	}
	if pv := newProductDetailView(d, &product, ""); !pv.OrderForm {
		return h.renderProductDetail(c, sess, d, &product, fiber.StatusForbidden, View{Error: pv.OrderBlocked}, forms.Order{})
	}

	var in forms.Order
	if err := c.BodyParser(&in); err != nil {
		return h.renderProductDetail(c, sess, d, &product, fiber.StatusBadRequest, View{Error: MsgOrderInvalid}, forms.Order{})
	}
	order, err := in.Parse(product, d.Company, h.now())
	if err != nil {
		out := classify.ClassifyError(err)
		return h.renderProductDetail(c, sess, d, &product, statusFor(err), View{Error: out.Message}, in)
	}
	if err := h.gateway(sess).CreateOrder(c.UserContext(), dto.NewCreateOrderRequest(order)); err != nil {
		h.logAPIError(c, "create_order", err)
		out := classify.ClassifyError(err,
			classify.WithBadRequest(MsgOrderInvalid),
			classify.WithFallback(MsgOrderFailed),
			classify.WithNetworkError(MsgOrderNetwork),
		)
		refresh := h.apply(sess, out)
		if out.Effect.Purge {
			return h.message(c, statusFor(err), View{Title: "Product Detail", Error: out.Message, Refresh: refresh})
		}
		return h.renderProductDetail(c, sess, d, &product, statusFor(err), View{Error: out.Message, Refresh: refresh}, in)
	}
	h.log.Info().Str("product_id", product.ID).Str("delivery", order.DeliveryDate).Msg("pedido creado")
	return h.renderProductDetail(c, sess, d, &product, fiber.StatusOK, View{Success: MsgOrderCreated}, forms.Order{})
}

// DeleteProduct POST /product-detail/delete?id= (solo Admin).
func (h *Handler) DeleteProduct(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		return h.redirect(c, gate.PageProducts)
	}
	sess := h.session(c)
	d := h.evaluate(c, gate.ProductDetailPolicy, sess)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	if d.Role != entity.RoleAdmin {
		return h.message(c, fiber.StatusForbidden, View{
			Title:   "Product Detail",
			Nav:     h.nav(sess, d),
			Error:   classify.MsgForbidden,
			Refresh: NewRefresh(detailPage(id), classify.RedirectDelay),
		})
	}
	if err := h.gateway(sess).DeleteProduct(c.UserContext(), id); err != nil {
		h.logAPIError(c, "delete_product", err)
		out := classify.ClassifyError(err, classify.WithNotFound(MsgProductGone, gate.PageProducts))
		refresh := h.apply(sess, out)
		msg := out.Message
		if !out.Effect.Purge && out.Effect.Redirect == nil {
			msg = "Failed to delete product: " + msg
		}
		return h.message(c, statusFor(err), View{Title: "Product Detail", Nav: h.nav(sess, d), Error: msg, Refresh: refresh})
	}
	h.log.Info().Str("product_id", id).Msg("producto eliminado")
	return h.redirect(c, gate.PageProducts)
}
