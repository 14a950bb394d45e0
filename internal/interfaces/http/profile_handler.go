package http

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/distribo-web/internal/application/classify"
	"github.com/jhoicas/distribo-web/internal/application/forms"
	"github.com/jhoicas/distribo-web/internal/application/gate"
	"github.com/jhoicas/distribo-web/internal/application/session"
	"github.com/jhoicas/distribo-web/internal/domain/entity"
)

// Mensajes de profile.html.
const (
	MsgCompanyDeleted     = "Company has been successfully deleted"
	MsgLocationAdded      = "Location added successfully"
	MsgLocationDuplicated = "A location with this name already exists for your company"
	MsgLocationAddFailed  = "An error occurred while adding the location"
	MsgLocationNetwork    = "Failed to save location. Please try again."
	MsgLastLocation       = "Cannot delete the last location. Companies must have at least one location."
	MsgLocationDeleted    = "Location deleted successfully"
	MsgLocationMissing    = "Location not found. It may have been already deleted."
	MsgLocationDelFailed  = "An error occurred while deleting the location"
)

// profileNotice avisos a mostrar tras una acción.
type profileNotice struct {
	Error    string
	Success  string
	Refresh  *Refresh
	Location forms.Location
}

// Profile GET /profile.html. Consume los mensajes de un solo uso pendientes.
func (h *Handler) Profile(c *fiber.Ctx) error {
	return h.showProfile(c, h.session(c), fiber.StatusOK, profileNotice{})
}

func (h *Handler) showProfile(c *fiber.Ctx, sess session.Session, status int, n profileNotice) error {
	d := h.evaluate(c, gate.ProfilePolicy, sess)
	if !d.Allowed() {
		return h.redirect(c, d.Target)
	}
	errs := make([]string, 0, 3)
	for _, key := range []string{session.FlashRegistrationError, session.FlashAccessError} {
		if msg, ok := sess.Take(key); ok {
			errs = append(errs, msg)
		}
	}
	if n.Error != "" {
		errs = append(errs, n.Error)
	}
	pv := newProfileView(d)
	pv.Location = n.Location
	return h.views.Render(c, status, pageProfile, View{
		Title:   "Profile",
		Nav:     h.nav(sess, d),
		Error:   strings.Join(errs, " "),
		Success: n.Success,
		Refresh: n.Refresh,
		Data:    pv,
	})
}

// afterAction muestra el resultado de una acción de perfil. Si el clasificador
// purgó la sesión no se vuelve a pasar por el gate: se avisa y se redirige con retardo.
func (h *Handler) afterAction(c *fiber.Ctx, sess session.Session, status int, out classify.Outcome, n profileNotice) error {
	refresh := h.apply(sess, out)
	if out.Effect.Purge {
		return h.message(c, status, View{Title: "Profile", Error: out.Message, Refresh: refresh})
	}
	if out.Message != "" {
		n.Error = out.Message
	}
	if refresh != nil {
		n.Refresh = refresh
	}
	return h.showProfile(c, sess, status, n)
}

// companyOwner exige un RootUser con empresa para las acciones de empresa.
func (h *Handler) companyOwner(c *fiber.Ctx, sess session.Session) (gate.Decision, bool, error) {
	d := h.evaluate(c, gate.ProfilePolicy, sess)
	if !d.Allowed() {
		return d, false, h.redirect(c, d.Target)
	}
	if d.Role != entity.RoleRootUser || !d.HasCompany {
		return d, false, h.showProfile(c, sess, fiber.StatusForbidden, profileNotice{Error: classify.MsgForbidden})
	}
	return d, true, nil
}

// DeleteCompany POST /profile/company/delete. El ID sale de la empresa recién consultada.
func (h *Handler) DeleteCompany(c *fiber.Ctx) error {
	sess := h.session(c)
	d, ok, err := h.companyOwner(c, sess)
	if !ok {
		return err
	}
	if err := h.gateway(sess).DeleteCompany(c.UserContext(), d.Company.ID); err != nil {
		h.logAPIError(c, "delete_company", err)
		out := classify.ClassifyError(err)
		if !out.Effect.Purge {
			out.Message = "Failed to delete company: " + out.Message
		}
		return h.afterAction(c, sess, statusFor(err), out, profileNotice{})
	}
	h.log.Info().Str("company_id", d.Company.ID).Msg("empresa eliminada")
	return h.showProfile(c, sess, fiber.StatusOK, profileNotice{Success: MsgCompanyDeleted})
}

// AddLocation POST /profile/locations.
func (h *Handler) AddLocation(c *fiber.Ctx) error {
	sess := h.session(c)
	if _, ok, err := h.companyOwner(c, sess); !ok {
		return err
	}
	var in forms.Location
	if err := c.BodyParser(&in); err != nil {
		return h.showProfile(c, sess, fiber.StatusBadRequest, profileNotice{Error: classify.MsgBadRequest})
	}
	req, err := in.Parse()
	if err != nil {
		return h.afterAction(c, sess, statusFor(err), classify.ClassifyError(err), profileNotice{Location: in})
	}
	if err := h.gateway(sess).CreateLocation(c.UserContext(), req); err != nil {
		h.logAPIError(c, "create_location", err)
		out := classify.ClassifyError(err,
			classify.WithConflict(MsgLocationDuplicated),
			classify.WithBadRequest(MsgLocationAddFailed),
			classify.WithFallback(MsgLocationAddFailed),
			classify.WithNetworkError(MsgLocationNetwork),
		)
		return h.afterAction(c, sess, statusFor(err), out, profileNotice{Location: in})
	}
	return h.showProfile(c, sess, fiber.StatusOK, profileNotice{
		Success: MsgLocationAdded,
		Refresh: NewRefresh(gate.PageProfile, classify.RedirectDelay),
	})
}

// DeleteLocation POST /profile/locations/delete. La última ubicación no se borra.
func (h *Handler) DeleteLocation(c *fiber.Ctx) error {
	sess := h.session(c)
	d, ok, err := h.companyOwner(c, sess)
	if !ok {
		return err
	}
	id := strings.TrimSpace(c.FormValue("id"))
	if _, found := d.Company.FindLocation(id); !found {
		return h.showProfile(c, sess, fiber.StatusNotFound, profileNotice{Error: MsgLocationMissing})
	}
	if !d.Company.CanDeleteLocation() {
		return h.showProfile(c, sess, fiber.StatusConflict, profileNotice{Error: MsgLastLocation})
	}
	if err := h.gateway(sess).DeleteLocation(c.UserContext(), id); err != nil {
		h.logAPIError(c, "delete_location", err)
		out := classify.ClassifyError(err,
			classify.WithNotFound(MsgLocationMissing, ""),
			classify.WithBadRequest(MsgLocationDelFailed),
		)
		if !out.Effect.Purge && statusFor(err) != http.StatusBadRequest && statusFor(err) != http.StatusNotFound {
			out.Message = "Failed to delete location: " + out.Message
		}
		return h.afterAction(c, sess, statusFor(err), out, profileNotice{})
	}
	return h.showProfile(c, sess, fiber.StatusOK, profileNotice{Success: MsgLocationDeleted})
}
