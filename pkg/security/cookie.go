package security

import (
	"net/http"
	"time"
)

const (
	AccessCookie  = "access"
	RefreshCookie = "refresh"
	RefreshPath   = "/refresh"
)

// CookieOpts is the single attribute set used for session cookies. Browsers
// only drop a cookie when the clearing Set-Cookie matches name, path and
// flags, so both Set and Clear are built from the same fields.
type CookieOpts struct {
	Secure      bool
	Partitioned bool
}

func (o *CookieOpts) cookie(name, value, path string) *http.Cookie {
	return &http.Cookie{
		Name:        name,
		Value:       value,
		Path:        path,
		HttpOnly:    true,
		Secure:      o.Secure,
		SameSite:    http.SameSiteNoneMode,
		Partitioned: o.Partitioned,
	}
}

func (o *CookieOpts) Set(w http.ResponseWriter, name, value, path string, ttl time.Duration) {
	c := o.cookie(name, value, path)
	c.MaxAge = int(ttl / time.Second)
	c.Expires = time.Now().Add(ttl).UTC()

	http.SetCookie(w, c)
}

func (o *CookieOpts) Clear(w http.ResponseWriter, name, path string) {
	c := o.cookie(name, "", path)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0).UTC()

	http.SetCookie(w, c)
}
