package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/ndanilin/golinks/internal/auth"
	"github.com/ndanilin/golinks/internal/database"
	"github.com/ndanilin/golinks/internal/models"
	"github.com/ndanilin/golinks/internal/service"
)

// The HTML surface is a thin wrapper over the same service calls the
// JSON API uses; it only differs in how results are rendered.

type loginData struct {
	Domain string
	Error  string
}

type dashboardData struct {
	Domain      string
	Banner      string
	BannerError bool
	Records     []*models.Record
}

type editData struct {
	Domain string
	Record *models.Record
}

func (h *urlHandler) loginPage(w http.ResponseWriter, r *http.Request) {
	if h.hasSession(r) {
		http.Redirect(w, r, "/admin", http.StatusFound)
		return
	}

	h.renderHTML(w, r, http.StatusOK, "login.html", loginData{Domain: h.cfg.Domain})
}

func (h *urlHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderHTML(w, r, http.StatusBadRequest, "login.html", loginData{
			Domain: h.cfg.Domain,
			Error:  "Invalid form submission",
		})
		return
	}

	if !h.authn.VerifyPassword(r.PostFormValue("password")) {
		h.renderHTML(w, r, http.StatusUnauthorized, "login.html", loginData{
			Domain: h.cfg.Domain,
			Error:  "Invalid password",
		})
		return
	}

	http.SetCookie(w, auth.SessionCookieFor(h.authn.IssueSession(), r.TLS != nil))
	http.Redirect(w, r, "/admin", http.StatusFound)
}

func (h *urlHandler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearSessionCookie())
	http.Redirect(w, r, "/admin/login", http.StatusFound)
}

func (h *urlHandler) dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, http.StatusOK, "", false)
}

func (h *urlHandler) editPage(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Resolve(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.renderDashboard(w, r, http.StatusNotFound, "Not found", true)
		return
	}

	h.renderHTML(w, r, http.StatusOK, "edit.html", editData{
		Domain: h.cfg.Domain,
		Record: rec,
	})
}

func (h *urlHandler) createForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderDashboard(w, r, http.StatusBadRequest, "Invalid form submission", true)
		return
	}

	rec, err := h.svc.Create(r.Context(), r.PostFormValue("url"), r.PostFormValue("slug"))
	if err != nil {
		status, msg := bannerForError(err)
		h.renderDashboard(w, r, status, msg, true)
		return
	}

	h.renderDashboard(w, r, http.StatusOK, "Created "+h.cfg.ShortURL(rec.Slug), false)
}

func (h *urlHandler) updateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderDashboard(w, r, http.StatusBadRequest, "Invalid form submission", true)
		return
	}

	rec, err := h.svc.Update(r.Context(), chi.URLParam(r, "slug"), r.PostFormValue("url"))
	if err != nil {
		status, msg := bannerForError(err)
		h.renderDashboard(w, r, status, msg, true)
		return
	}

	h.renderDashboard(w, r, http.StatusOK, "Updated "+h.cfg.ShortURL(rec.Slug), false)
}

func (h *urlHandler) deleteForm(w http.ResponseWriter, r *http.Request) {
	sl := chi.URLParam(r, "slug")

	if err := h.svc.Delete(r.Context(), sl); err != nil {
		status, msg := bannerForError(err)
		h.renderDashboard(w, r, status, msg, true)
		return
	}

	h.renderDashboard(w, r, http.StatusOK, "Deleted "+sl, false)
}

func (h *urlHandler) renderDashboard(w http.ResponseWriter, r *http.Request, status int, banner string, bannerErr bool) {
	const op = "api.http.urlHandler.renderDashboard"

	recs, err := h.svc.List(r.Context())
	if err != nil {
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
		recs = nil
	}

	h.renderHTML(w, r, status, "admin.html", dashboardData{
		Domain:      h.cfg.Domain,
		Banner:      banner,
		BannerError: bannerErr,
		Records:     recs,
	})
}

func (h *urlHandler) renderHTML(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	const op = "api.http.urlHandler.renderHTML"

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
	}
}

// bannerForError mirrors renderServiceError for the form surface.
func bannerForError(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidURL):
		return http.StatusBadRequest, "Invalid URL"
	case errors.Is(err, service.ErrDangerousURL):
		return http.StatusBadRequest, "URL contains dangerous content"
	case errors.Is(err, service.ErrInvalidSlug):
		return http.StatusBadRequest, "Invalid slug"
	case errors.Is(err, database.ErrSlugExists):
		return http.StatusConflict, "Slug already exists"
	case errors.Is(err, database.ErrRecordNotFound):
		return http.StatusNotFound, "Not found"
	default:
		return http.StatusInternalServerError, "Something went wrong"
	}
}
