package http

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v2"

	"github.com/ndanilin/golinks/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// crawlerTokens identifies social platforms that fetch pages to build
// link previews. Matched case-insensitively as substrings.
var crawlerTokens = []string{
	"facebookexternalhit",
	"facebot",
	"twitterbot",
	"linkedinbot",
	"slackbot",
	"discordbot",
	"whatsapp",
	"telegrambot",
	"pinterest",
	"redditbot",
	"skypeuripreview",
	"vkshare",
	"applebot",
}

func isSocialCrawler(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, token := range crawlerTokens {
		if strings.Contains(ua, token) {
			return true
		}
	}

	return false
}

type previewData struct {
	Title       string
	Description string
	Image       string
	ShortURL    string
	Destination string
}

// servePreview renders the Open Graph page crawlers consume instead of
// following the redirect. Humans who land here still get forwarded via
// the meta refresh and the script fallback.
func (h *urlHandler) servePreview(w http.ResponseWriter, r *http.Request, rec *models.Record) {
	const op = "api.http.urlHandler.servePreview"

	data := previewData{
		Title:       rec.Slug,
		Description: "Shared via " + h.cfg.Domain,
		ShortURL:    h.cfg.ShortURL(rec.Slug),
		Destination: rec.URL,
	}
	if md := rec.Metadata; md != nil {
		if md.Title != "" {
			data.Title = md.Title
		}
		if md.Description != "" {
			data.Description = md.Description
		}
		data.Image = md.Image
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)

	if err := templates.ExecuteTemplate(w, "preview.html", data); err != nil {
		httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})
	}
}
