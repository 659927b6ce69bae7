package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/ndanilin/golinks/internal/auth"
	"github.com/ndanilin/golinks/internal/config"
	"github.com/ndanilin/golinks/internal/database"
	"github.com/ndanilin/golinks/internal/models"
	"github.com/ndanilin/golinks/internal/ratelimit"
	"github.com/ndanilin/golinks/internal/service"
	"github.com/ndanilin/golinks/internal/slug"
	"github.com/ndanilin/golinks/pkg/response"
)

type urlHandler struct {
	cfg      *config.Config
	svc      URLService
	limiter  *ratelimit.Limiter
	authn    *auth.Authenticator
	validate *validator.Validate
}

func (h *urlHandler) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (h *urlHandler) home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.cfg.Homepage, http.StatusFound)
}

// listAll serves the public read-only listing; the backup job and the
// extension poll it, hence the cache header.
func (h *urlHandler) listAll(w http.ResponseWriter, r *http.Request) {
	const op = "api.http.urlHandler.listAll"

	recs, err := h.svc.List(r.Context())
	if err != nil {
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	if recs == nil {
		recs = []*models.Record{}
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	render.Status(r, http.StatusOK)
	render.JSON(w, r, recs)
}

// redirect handles GET /{slug}: validate the slug shape, rate-limit,
// look up the record and branch on the caller's user agent.
func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	const op = "api.http.urlHandler.redirect"

	sl := chi.URLParam(r, "slug")
	if !slug.IsValidCustom(sl) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.InvalidSlugResponse)
		return
	}

	ok, err := h.limiter.Allow(r.Context(), "redirect", clientIP(r), ratelimit.Rule(h.cfg.RateLimit.Redirect))
	if err != nil {
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
		ok = true
	}
	if !ok {
		render.Status(r, http.StatusTooManyRequests)
		render.JSON(w, r, response.RateLimitedResponse)
		return
	}

	rec, err := h.svc.Resolve(r.Context(), sl)
	if err != nil {
		if errors.Is(err, database.ErrRecordNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.NotFoundResponse)
			return
		}

		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	if isSocialCrawler(r.UserAgent()) {
		h.servePreview(w, r, rec)
		return
	}

	// The redirect itself is never cached so edits take effect
	// immediately.
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, rec.URL, http.StatusMovedPermanently)
}

type createRequest struct {
	URL  string `json:"url" validate:"required"`
	Slug string `json:"slug"`
}

type updateRequest struct {
	URL string `json:"url" validate:"required"`
}

func (h *urlHandler) createURL(w http.ResponseWriter, r *http.Request) {
	var req createRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.InvalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.InvalidURLResponse)
		return
	}

	rec, err := h.svc.Create(r.Context(), req.URL, req.Slug)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Created(rec, h.cfg.ShortURL(rec.Slug)))
}

func (h *urlHandler) updateURL(w http.ResponseWriter, r *http.Request) {
	var req updateRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.InvalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.InvalidURLResponse)
		return
	}

	rec, err := h.svc.Update(r.Context(), chi.URLParam(r, "slug"), req.URL)
	if err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.Success(rec))
}

func (h *urlHandler) deleteURL(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		h.renderServiceError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response.Message("URL deleted successfully"))
}

// renderServiceError maps domain sentinels onto the JSON error surface.
func (h *urlHandler) renderServiceError(w http.ResponseWriter, r *http.Request, err error) {
	const op = "api.http.urlHandler.renderServiceError"

	switch {
	case errors.Is(err, service.ErrInvalidURL):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.InvalidURLResponse)
	case errors.Is(err, service.ErrDangerousURL):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.DangerousURLResponse)
	case errors.Is(err, service.ErrInvalidSlug):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.InvalidSlugResponse)
	case errors.Is(err, database.ErrSlugExists):
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, response.SlugExistsResponse)
	case errors.Is(err, database.ErrRecordNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.NotFoundResponse)
	default:
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
	}
}
