package helpers

import (
	"net/http"
	"time"
)

// SetStateCookie stores the OAuth nonce in an HTTP-only cookie scoped to the
// LinkedIn callback path.
func SetStateCookie(w http.ResponseWriter, name, value string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/api/linkedin",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		// Lax: the cookie has to ride along on the provider's top-level redirect.
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearStateCookie expires the state cookie.
func ClearStateCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/api/linkedin",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// CookieValue returns the cookie value or "".
func CookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
