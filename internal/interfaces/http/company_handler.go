package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/distribo-web/internal/application/classify"
	"github.com/jhoicas/distribo-web/internal/application/forms"
	"github.com/jhoicas/distribo-web/internal/application/gate"
)

// Mensajes de create-company.html.
const (
	MsgCompanyCreated      = "Company created successfully!"
	MsgCompanyInvalid      = "Invalid company information. Please check your input and try again."
	MsgCompanyForbidden    = "You do not have permission to create companies. Only Root Users can perform this action."
	MsgCompanyUserNotFound = "User profile not found. Please log in again."
	MsgCompanyFailed       = "An error occurred while creating the company."
)

const companyRedirectDelay = 1500 * time.Millisecond

func (h *Handler) renderCreateCompany(c *fiber.Ctx, sess navSession, d gate.Decision, status int, v View) error {
	v.Title = "Create Company"
	v.Nav = h.nav(sess, d)
	return h.views.Render(c, status, pageCreateCompany, v)
}

// CreateCompanyPage GET /create-company.html (solo RootUser).
func (h *Handler) CreateCompanyPage(c *fiber.Ctx) error {
	sess := h.session(c)
	d := h.evaluate(c, gate.CreateCompanyPolicy, sess)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	return h.renderCreateCompany(c, sess, d, fiber.StatusOK, View{Data: CompanyFormView{}})
}

// CreateCompany POST /create-company.html: empresa con su primera ubicación.
func (h *Handler) CreateCompany(c *fiber.Ctx) error {
	sess := h.session(c)
	d := h.evaluate(c, gate.CreateCompanyPolicy, sess)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	var in forms.Company
	if err := c.BodyParser(&in); err != nil {
		return h.renderCreateCompany(c, sess, d, fiber.StatusBadRequest, View{Error: MsgCompanyInvalid, Data: CompanyFormView{}})
	}
	form := CompanyFormView{Form: in}
	req, err := in.Parse()
	if err != nil {
		out := classify.ClassifyError(err)
		return h.renderCreateCompany(c, sess, d, statusFor(err), View{Error: out.Message, Data: form})
	}
	if err := h.gateway(sess).CreateCompany(c.UserContext(), req); err != nil {
		h.logAPIError(c, "create_company", err)
		out := classify.ClassifyError(err,
			classify.WithBadRequest(MsgCompanyInvalid),
			classify.WithForbidden(MsgCompanyForbidden),
			classify.WithNotFound(MsgCompanyUserNotFound, ""),
			classify.WithFallback(MsgCompanyFailed),
		)
		refresh := h.apply(sess, out)
		if out.Effect.Purge {
			return h.message(c, statusFor(err), View{Title: "Create Company", Error: out.Message, Refresh: refresh})
		}
		return h.renderCreateCompany(c, sess, d, statusFor(err), View{Error: out.Message, Refresh: refresh, Data: form})
	}
	h.log.Info().Str("company", req.Name).Msg("empresa creada")
	return h.renderCreateCompany(c, sess, d, fiber.StatusOK, View{
		Success: MsgCompanyCreated,
		Refresh: NewRefresh(gate.PageProfile, companyRedirectDelay),
		Data:    CompanyFormView{},
	})
}
