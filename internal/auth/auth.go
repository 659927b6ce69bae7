// Package auth implements the two credentials the service accepts: a
// signed session cookie for the owner and a static bearer token for
// programmatic clients. Both derive from one shared secret; there is no
// server-side session state.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// SessionCookie is the name of the owner session cookie.
const SessionCookie = "golinks_session"

// SessionTTL bounds how long an issued session stays valid.
const SessionTTL = 7 * 24 * time.Hour

// clockSkew tolerates small clock drift between issue and verify.
const clockSkew = time.Minute

// Authenticator issues and verifies self-contained session tokens and
// checks bearer credentials against the shared secret.
type Authenticator struct {
	secret  []byte
	nowFunc func() time.Time
}

func New(secret string) *Authenticator {
	return &Authenticator{
		secret:  []byte(secret),
		nowFunc: time.Now,
	}
}

// IssueSession returns a token of the form "<unix-ts>.<hex-hmac>". The
// token itself is the whole credential: verification recomputes the
// signature, so nothing is stored server-side and revocation is not
// possible before expiry.
func (a *Authenticator) IssueSession() string {
	ts := strconv.FormatInt(a.nowFunc().Unix(), 10)
	return ts + "." + hex.EncodeToString(a.sign(ts))
}

// VerifySession reports whether token carries a valid signature and was
// issued within the session lifetime.
func (a *Authenticator) VerifySession(token string) bool {
	ts, sig, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}

	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	if !hmac.Equal(got, a.sign(ts)) {
		return false
	}

	issued, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return false
	}

	now := a.nowFunc()
	issuedAt := time.Unix(issued, 0)

	return !issuedAt.After(now.Add(clockSkew)) && now.Sub(issuedAt) <= SessionTTL
}

// VerifyPassword checks the owner login password in constant time.
func (a *Authenticator) VerifyPassword(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), a.secret) == 1
}

// VerifyBearer checks an Authorization header value of the form
// "Bearer <secret>".
func (a *Authenticator) VerifyBearer(header string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(token), a.secret) == 1
}

// SessionCookieFor builds the session cookie carrying token. Secure is
// set when the request arrived over TLS.
func SessionCookieFor(token string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearSessionCookie builds the cookie that erases the session on the
// client; there is nothing to revoke server-side.
func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func (a *Authenticator) sign(ts string) []byte {
	mac := hmac.New(sha256.New, a.secret)
	fmt.Fprint(mac, ts)
	return mac.Sum(nil)
}
