// Package flash carries one-shot notifications across a redirect or a
// form re-render. A message set during one request is surfaced on exactly
// the next rendered view, then discarded.
package flash

import (
	"net/http"
	"net/url"
)

const cookieName = "flash"

// Set queues a notification for the next rendered view.
func Set(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// Take returns the pending notification, if any, and clears it so it is
// never shown twice.
func Take(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}
