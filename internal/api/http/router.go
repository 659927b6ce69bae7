package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"

	"github.com/ndanilin/golinks/internal/auth"
	"github.com/ndanilin/golinks/internal/config"
	"github.com/ndanilin/golinks/internal/models"
	"github.com/ndanilin/golinks/internal/ratelimit"
)

// URLService is the business-logic surface the handlers drive.
type URLService interface {
	Create(ctx context.Context, rawURL, customSlug string) (*models.Record, error)
	Update(ctx context.Context, slug, rawURL string) (*models.Record, error)
	Delete(ctx context.Context, slug string) error
	Resolve(ctx context.Context, slug string) (*models.Record, error)
	List(ctx context.Context) ([]*models.Record, error)
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

func NewRouter(logger *httplog.Logger, cfg *config.Config, svc URLService, limiter *ratelimit.Limiter, authn *auth.Authenticator) http.Handler {
	h := &urlHandler{
		cfg:      cfg,
		svc:      svc,
		limiter:  limiter,
		authn:    authn,
		validate: getValidate(),
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)
	r.Get("/status", h.health)
	r.Get("/all.json", h.listAll)
	r.Get("/", h.home)

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.rateLimit("admin", ratelimit.Rule(cfg.RateLimit.Admin)))

		// JSON API, shared by the browser admin UI and the extension.
		r.Route("/urls", func(r chi.Router) {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins: []string{"*"},
				AllowedMethods: []string{"POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders: []string{"Content-Type", "Accept", "Authorization"},
				MaxAge:         84600,
			}))
			r.Use(h.requireAPIAuth)

			r.Post("/", h.createURL)
			r.Put("/{slug}", h.updateURL)
			r.Delete("/{slug}", h.deleteURL)
		})

		// HTML surface, cookie-only.
		r.Get("/login", h.loginPage)
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)

		r.Group(func(r chi.Router) {
			r.Use(h.requireSession)

			r.Get("/", h.dashboard)
			r.Get("/edit/{slug}", h.editPage)
			r.Post("/create", h.createForm)
			r.Post("/update/{slug}", h.updateForm)
			r.Post("/delete/{slug}", h.deleteForm)
		})
	})

	// Everything else is a slug lookup.
	r.Get("/{slug}", h.redirect)

	return r
}
