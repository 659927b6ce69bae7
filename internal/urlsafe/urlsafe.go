// Package urlsafe screens destination URLs before they are accepted
// as redirect targets.
package urlsafe

import (
	"net/netip"
	"net/url"
	"strings"
)

var dangerousSchemes = map[string]struct{}{
	"javascript": {},
	"data":       {},
	"vbscript":   {},
	"file":       {},
}

var blockedHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"::1":       {},
}

// Normalize trims the input, defaults the scheme to https and
// re-serializes through the URL parser to canonicalize it. Unparsable
// input is returned unchanged; callers must still validate it.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if u.Scheme == "" {
		u, err = url.Parse("https://" + raw)
		if err != nil {
			return raw
		}
	}

	u.Host = strings.ToLower(u.Host)

	return u.String()
}

// IsValid reports whether raw parses as an absolute http or https URL.
func IsValid(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsDangerous reports whether raw must be rejected as a redirect
// target: script-injection schemes, loopback hosts and private or
// link-local address ranges. Unparsable input is treated as dangerous.
func IsDangerous(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return true
	}

	if _, ok := dangerousSchemes[strings.ToLower(u.Scheme)]; ok {
		return true
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := blockedHosts[host]; ok {
		return true
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		// Not an IP literal; host-based screening stops here.
		return false
	}

	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast()
}
