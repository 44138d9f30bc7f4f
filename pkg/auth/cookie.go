package auth

import (
	"net/http"
	"time"

	"github.com/angelmondragon/medmart-backend/pkg/config"
)

// DefaultCookieName is used when no cookie name is configured.
const DefaultCookieName = "token"

// IdentityCookie builds the HttpOnly cookie carrying the credential.
func IdentityCookie(cfg *config.Config, token string, now time.Time) *http.Cookie {
	cookie := baseCookie(cfg)
	cookie.Value = token
	cookie.Expires = now.Add(IdentityTokenTTL)
	cookie.MaxAge = int(IdentityTokenTTL / time.Second)
	return cookie
}

// ClearedIdentityCookie expires the credential cookie on the client.
func ClearedIdentityCookie(cfg *config.Config) *http.Cookie {
	cookie := baseCookie(cfg)
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	return cookie
}

func baseCookie(cfg *config.Config) *http.Cookie {
	name := cfg.JWT.CookieName
	if name == "" {
		name = DefaultCookieName
	}
	cookie := &http.Cookie{
		Name:     name,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
	if cfg.App.IsProd() {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
