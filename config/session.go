package config

import (
	"net/http"

	"github.com/gorilla/sessions"
)

// NewSessionStore returns the cookie store used to carry OAuth state
// between the login redirect and the provider callback.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
