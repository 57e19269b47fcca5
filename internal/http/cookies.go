package httpx

import (
	"net/http"
	"strings"
	"time"

	domainauth "github.com/DKiloDesigns/CreatorFlow-sub004/internal/domain/auth"
)

// Cookie names used across handlers and middleware.
const (
	// SessionCookieName holds the signed session token.
	SessionCookieName = "cf_session"
	// ImpersonationCookieName holds the impersonated user's ID. It only
	// changes what /api/me displays; authorization always uses the real
	// identity in the session cookie.
	ImpersonationCookieName = "cf_impersonate"
)

// isSecureRequest reports whether the request arrived over TLS, directly or
// via a terminating proxy.
func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// setSessionCookie writes the signed session token, expiring with the session.
func setSessionCookie(w http.ResponseWriter, r *http.Request, domain string, token string, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// setImpersonationCookie marks the browser as impersonating the given user.
// Session-scoped: no MaxAge, so it dies with the browser session.
func setImpersonationCookie(w http.ResponseWriter, r *http.Request, domain, targetID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     ImpersonationCookieName,
		Value:    targetID,
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors key attributes (Secure, Path, Domain, SameSite) used when setting
// cookies to maximize compatibility across browsers during deletion.
func clearCookie(w http.ResponseWriter, r *http.Request, domain, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}
