package middleware

import (
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"folio-cms/auth"
	"folio-cms/config"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie  = "folio_session"
	RememberCookie = "folio_remember"

	identityKey = "identity"
)

// Identify resolves the caller on every request and stores the identity in
// the context. It never rejects a request; routes decide what they need.
func Identify(gate *auth.Gate, cfg config.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := auth.Credentials{}
		creds.SessionToken, _ = c.Cookie(SessionCookie)
		creds.RememberToken, _ = c.Cookie(RememberCookie)
		if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
			creds.BearerToken = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}

		res := gate.ResolveIdentity(creds)
		if res.Renewed {
			token, expires, err := gate.Tokens().Issue(res.Identity.UserID, auth.KindSession)
			if err != nil {
				log.Printf("Failed to renew session for user %d: %v", res.Identity.UserID, err)
			} else {
				SetAuthCookie(c, cfg, SessionCookie, token, expires)
			}
		}

		c.Set(identityKey, res.Identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by Identify, or the anonymous
// identity.
func CurrentIdentity(c *gin.Context) auth.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(auth.Identity); ok {
			return id
		}
	}
	return auth.Identity{}
}

// RequireUser sends anonymous visitors of a form page to the login form.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentIdentity(c).IsAuthenticated() {
			c.Next()
			return
		}
		c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// RequireAdmin guards the site management pages. Signed in users without the
// flag get a 403 page.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		switch {
		case id.IsAdministrator():
			c.Next()
			return
		case !id.IsAuthenticated():
			c.Redirect(http.StatusSeeOther, "/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		default:
			c.HTML(http.StatusForbidden, "error.html", gin.H{
				"Title":    "Forbidden",
				"Identity": id,
				"Status":   http.StatusForbidden,
				"Message":  "Administrator access required",
			})
		}
		c.Abort()
	}
}

func SetAuthCookie(c *gin.Context, cfg config.AuthConfig, name, value string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", cfg.SecureCookies, true)
}

func ClearAuthCookies(c *gin.Context, cfg config.AuthConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", cfg.SecureCookies, true)
	c.SetCookie(RememberCookie, "", -1, "/", "", cfg.SecureCookies, true)
}
