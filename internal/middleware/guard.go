package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/joelyk/maison-du-parfum/internal/errors"
	"github.com/joelyk/maison-du-parfum/internal/session"
)

// Predicate decides from the session alone whether a request may proceed.
type Predicate func(*session.Data) bool

func IsCustomer(data *session.Data) bool {
	return data.Authenticated()
}

func IsAdmin(data *session.Data) bool {
	return data.IsAdmin()
}

// Guard rejects requests whose session fails pred. Browsers are redirected to loginPath
// with the original path in ?next=, API clients get a 401 carrying the login url.
func Guard(pred Predicate, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pred(GetSession(c)) {
			c.Next()
			return
		}

		log := GetLoggerFromContext(c)
		log.Warn("Guard rejected request", map[string]interface{}{
			"path": c.Request.URL.Path,
		})

		loginURL := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
			c.Redirect(http.StatusSeeOther, loginURL)
			c.Abort()
			return
		}

		errors.LoginRequired(c, loginURL)
	}
}

func RequireCustomer(loginPath string) gin.HandlerFunc {
	return Guard(IsCustomer, loginPath)
}

func RequireAdmin(loginPath string) gin.HandlerFunc {
	return Guard(IsAdmin, loginPath)
}
