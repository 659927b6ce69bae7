// Package metadata fetches a best-effort page summary for a destination
// URL. Failures of any kind yield empty metadata, never an error: the
// summary is decoration, not part of the record's contract.
package metadata

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds the whole fetch so a slow third-party site
	// cannot stall record creation.
	DefaultTimeout = 5 * time.Second

	userAgent   = "golinks-bot/1.0 (+link preview)"
	maxBodySize = 512 << 10
)

// Metadata is the extracted page summary; any field may be empty.
type Metadata struct {
	Title       string
	Description string
	Image       string
}

var titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

// Fetcher retrieves and summarizes destination pages.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Fetch GETs url and extracts title, description and image by first-match
// scanning of the body. The extraction is intentionally loose; unusual
// markup may yield missing fields.
func (f *Fetcher) Fetch(ctx context.Context, url string) Metadata {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Metadata{}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Metadata{}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Metadata{}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Metadata{}
	}

	return extract(string(body))
}

func extract(body string) Metadata {
	var md Metadata

	if m := titleRe.FindStringSubmatch(body); m != nil {
		md.Title = cleanup(m[1])
	}
	if md.Title == "" {
		md.Title = firstMeta(body, "og:title", "twitter:title")
	}

	md.Description = firstMeta(body, "description", "og:description", "twitter:description")
	md.Image = firstMeta(body, "og:image", "twitter:image")

	return md
}

// firstMeta returns the content of the first meta tag whose property or
// name attribute matches one of names, trying both attribute orders.
func firstMeta(body string, names ...string) string {
	for _, name := range names {
		quoted := regexp.QuoteMeta(name)

		re := regexp.MustCompile(fmt.Sprintf(
			`(?is)<meta[^>]*(?:property|name)=["']%s["'][^>]*content=["']([^"']*)["']`, quoted))
		if m := re.FindStringSubmatch(body); m != nil {
			if v := cleanup(m[1]); v != "" {
				return v
			}
		}

		re = regexp.MustCompile(fmt.Sprintf(
			`(?is)<meta[^>]*content=["']([^"']*)["'][^>]*(?:property|name)=["']%s["']`, quoted))
		if m := re.FindStringSubmatch(body); m != nil {
			if v := cleanup(m[1]); v != "" {
				return v
			}
		}
	}

	return ""
}

func cleanup(s string) string {
	return strings.TrimSpace(html.UnescapeString(s))
}
