package http

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/distribo-web/internal/application/classify"
	"github.com/jhoicas/distribo-web/internal/application/dto"
	"github.com/jhoicas/distribo-web/internal/application/forms"
	"github.com/jhoicas/distribo-web/internal/application/gate"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// Mensajes de create-product.html y update-product.html.
const (
	MsgProductCreated    = "Product created successfully!"
	MsgProductUpdated    = "Product updated successfully!"
	MsgProductInvalid    = "Invalid product data. Please check your inputs and try again."
	MsgProductForbidden  = "You do not have permission to create products."
	MsgProductDuplicated = "A product with this name already exists."
	MsgProductFailed     = "An error occurred while creating the product."
	MsgKeptImagesFailed  = "Failed to load the current product images. Please try again."
	MsgImageRequired     = "At least one product image is required. Please upload an image."
)

// BodyLimit tamaño máximo de petición: cuatro imágenes de 10MB más los campos.
const BodyLimit = entity.MaxProductImages*entity.MaxProductImageBytes + 5*1024*1024

// readProductForm lee campos e imágenes del formulario multipart. Las imágenes que
// superan el límite no se leen: la validación las rechaza por tamaño.
func readProductForm(c *fiber.Ctx) (forms.Product, error) {
	in := forms.Product{
		Name:        c.FormValue(dto.FieldProductName),
		Description: c.FormValue(dto.FieldProductDescription),
		Price:       c.FormValue(dto.FieldProductPrice),
		StockValue:  c.FormValue(dto.FieldStockValue),
		StockUnit:   c.FormValue(dto.FieldStockUnit),
	}
	if in.StockUnit == "" {
		in.StockUnit = c.FormValue(dto.FieldStockNewUnit)
	}
	mf, err := c.MultipartForm()
	if err != nil {
		// formulario urlencoded: sin archivos
		return in, nil
	}
	in.KeepImageIDs = mf.Value[dto.FieldKeepImageIDs]
	for _, fh := range mf.File[dto.FieldImageFiles] {
		if fh.Filename == "" || fh.Size == 0 {
			continue
		}
		img := forms.Image{Name: fh.Filename, ContentType: fh.Header.Get(fiber.HeaderContentType), Size: fh.Size}
		if fh.Size <= entity.MaxProductImageBytes {
			f, err := fh.Open()
			if err != nil {
				return in, fmt.Errorf("abrir %s: %w", fh.Filename, err)
			}
			img.Content, err = io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				return in, fmt.Errorf("leer %s: %w", fh.Filename, err)
			}
		}
		in.Images = append(in.Images, img)
	}
	return in, nil
}

// stickyProduct devuelve al formulario lo escrito, sin archivos.
func stickyProduct(in forms.Product, base ProductFormView) ProductFormView {
	base.Name = in.Name
	base.Description = in.Description
	base.Price = in.Price
	base.StockValue = in.StockValue
	base.StockUnit = in.StockUnit
	if base.Keep != nil {
		keep := make(map[string]bool, len(in.KeepImageIDs))
		for _, id := range in.KeepImageIDs {
			keep[strings.TrimSpace(id)] = true
		}
		base.Keep = keep
	}
	base.MaxImages = entity.MaxProductImages
	return base
}

func (h *Handler) renderProductForm(c *fiber.Ctx, page, title string, sess navSession, d gate.Decision, status int, v View, form ProductFormView) error {
	v.Title = title
	v.Nav = h.nav(sess, d)
	v.Data = form
	return h.views.Render(c, status, page, v)
}

// CreateProductPage GET /create-product.html (solo Admin).
func (h *Handler) CreateProductPage(c *fiber.Ctx) error {
	sess := h.session(c)
	d := h.evaluate(c, gate.CreateProductPolicy, sess)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	return h.renderProductForm(c, pageCreateProduct, "Create Product", sess, d, fiber.StatusOK, View{},
		ProductFormView{MaxImages: entity.MaxProductImages})
}

// CreateProduct POST /create-product.html.
func (h *Handler) CreateProduct(c *fiber.Ctx) error {
	sess := h.session(c)
	d := h.evaluate(c, gate.CreateProductPolicy, sess)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	render := func(status int, v View, form ProductFormView) error {
		return h.renderProductForm(c, pageCreateProduct, "Create Product", sess, d, status, v, form)
	}

	in, err := readProductForm(c)
	if err != nil {
		h.log.Warn().Err(err).Msg("formulario de producto ilegible")
		return render(fiber.StatusBadRequest, View{Error: MsgProductInvalid}, stickyProduct(in, ProductFormView{}))
	}
	form := stickyProduct(in, ProductFormView{})
	up, err := in.ParseCreate()
	if err != nil {
		return render(statusFor(err), View{Error: classify.ClassifyError(err).Message}, form)
	}
	if err := h.gateway(sess).CreateProduct(c.UserContext(), up); err != nil {
		h.logAPIError(c, "create_product", err)
		out := classify.ClassifyError(err,
			classify.WithBadRequest(MsgProductInvalid),
			classify.WithForbidden(MsgProductForbidden),
			classify.WithConflictDefault(MsgProductDuplicated),
			classify.WithFallback(MsgProductFailed),
		)
		refresh := h.apply(sess, out)
		if out.Effect.Purge {
			return h.message(c, statusFor(err), View{Title: "Create Product", Error: out.Message, Refresh: refresh})
		}
		return render(statusFor(err), View{Error: out.Message, Refresh: refresh}, form)
	}
	h.log.Info().Str("product", in.Name).Int("images", len(in.Images)).Msg("producto creado")
	return render(fiber.StatusOK, View{
		Success: MsgProductCreated,
		Refresh: NewRefresh(gate.PageProfile, classify.RedirectDelay),
	}, ProductFormView{MaxImages: entity.MaxProductImages})
}

// UpdateProductPage GET /update-product.html?id= (solo Admin).
func (h *Handler) UpdateProductPage(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		return h.redirect(c, gate.PageProducts)
	}
	sess := h.session(c)
	d, product, err := h.gateWithProduct(c, gate.UpdateProductPolicy, sess, id)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	if err != nil {
		h.logAPIError(c, "get_product", err)
		msg, refresh := h.productLoadFailure(sess, err)
		return h.message(c, statusFor(err), View{Title: "Update Product", Nav: h.nav(sess, d), Error: msg, Refresh: refresh})
	}
	return h.renderProductForm(c, pageUpdateProduct, "Update Product", sess, d, fiber.StatusOK, View{}, productFormFromEntity(product))
}

// UpdateProduct POST /update-product.html?id=. Las imágenes conservadas viajan como
// KeepImageIds; solo se suben archivos nuevos.
func (h *Handler) UpdateProduct(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		return h.redirect(c, gate.PageProducts)
	}
	sess := h.session(c)
	d, product, err := h.gateWithProduct(c, gate.UpdateProductPolicy, sess, id)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	if err != nil {
		h.logAPIError(c, "get_product", err)
		msg, refresh := h.productLoadFailure(sess, err)
		return h.message(c, statusFor(err), View{Title: "Update Product", Nav: h.nav(sess, d), Error: msg, Refresh: refresh})
	}
	render := func(status int, v View, form ProductFormView) error {
		return h.renderProductForm(c, pageUpdateProduct, "Update Product", sess, d, status, v, form)
	}

	base := productFormFromEntity(product)
	in, err := readProductForm(c)
	if err != nil {
		h.log.Warn().Err(err).Msg("formulario de producto ilegible")
		return render(fiber.StatusBadRequest, View{Error: MsgProductInvalid}, base)
	}
	form := stickyProduct(in, base)
	up, err := in.ParseUpdate()
	if err != nil {
		return render(statusFor(err), View{Error: classify.ClassifyError(err).Message}, form)
	}
	kept, err := h.keptImageFiles(c, product, up)
	if err != nil {
		h.log.Warn().Err(err).Str("product_id", id).Msg("imágenes conservadas no disponibles")
		return render(fiber.StatusBadGateway, View{Error: MsgKeptImagesFailed}, form)
	}
	up.Files = append(up.Files, kept...)
	if len(up.Files) == 0 {
		return render(fiber.StatusUnprocessableEntity, View{Error: MsgImageRequired}, form)
	}
	if err := h.gateway(sess).UpdateProduct(c.UserContext(), id, up); err != nil {
		h.logAPIError(c, "update_product", err)
		out := classify.ClassifyError(err)
		refresh := h.apply(sess, out)
		if out.Effect.Purge {
			return h.message(c, statusFor(err), View{Title: "Update Product", Error: out.Message, Refresh: refresh})
		}
		return render(statusFor(err), View{Error: "Failed to update product: " + out.Message, Refresh: refresh}, form)
	}
	h.log.Info().Str("product_id", id).Msg("producto actualizado")
	return render(fiber.StatusOK, View{
		Success: MsgProductUpdated,
		Refresh: NewRefresh(detailPage(id), classify.RedirectDelay),
	}, form)
}

// keptImageFiles descarga las imágenes conservadas (KeepImageIds) para reenviarlas
// como ImageFiles detrás de los archivos nuevos. Los ids que el producto ya no
// tiene se ignoran.
func (h *Handler) keptImageFiles(c *fiber.Ctx, p entity.Product, up dto.ProductUpload) ([]dto.FormFile, error) {
	raw, ok := up.Field(dto.FieldKeepImageIDs)
	if !ok {
		return nil, nil
	}
	byID := make(map[string]entity.Image, len(p.Images))
	for _, img := range p.Images {
		byID[img.ID] = img
	}
	var imgs []entity.Image
	for _, id := range strings.Split(raw, ",") {
		if img, ok := byID[strings.TrimSpace(id)]; ok && img.URL != "" {
			imgs = append(imgs, img)
		}
	}

	files := make([]dto.FormFile, len(imgs))
	g, ctx := errgroup.WithContext(c.UserContext())
	for i, img := range imgs {
		g.Go(func() (err error) {
			defer recovered(&err)
			files[i], err = h.api.StoredImage(ctx, img)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}
