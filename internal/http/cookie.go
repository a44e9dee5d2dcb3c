package http

import (
	"net/http"
	"strings"
)

type CookieOptions struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// SessionCookie is the name of the cookie carrying the session ID.
const SessionCookie = "_vitalis-session"

func SetSessionCookie(
	w http.ResponseWriter,
	id string,
	options CookieOptions,
) {
	http.SetCookie(
		w,
		&http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Domain:   options.Domain,
			Path:     "/",
			Secure:   options.Secure,
			HttpOnly: true,
			SameSite: options.SameSite,
		},
	)
}

// ClearSessionCookie instructs the client to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, options CookieOptions) {
	http.SetCookie(
		w,
		&http.Cookie{
			Name:     SessionCookie,
			Value:    "",
			Domain:   options.Domain,
			Path:     "/",
			MaxAge:   -1,
			Secure:   options.Secure,
			HttpOnly: true,
			SameSite: options.SameSite,
		},
	)
}

func SessionFromRequest(req *http.Request) string {
	cookie, err := req.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// BearerFromRequest retrieves the bearer token of the request's
// Authorization header, if any.
func BearerFromRequest(req *http.Request) string {
	const prefix = "Bearer "

	auth := req.Header.Get("Authorization")
	if len(auth) <= len(prefix) || !strings.EqualFold(auth[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}
