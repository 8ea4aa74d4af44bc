package middleware

import (
	"net/http"
	"strings"

	"gdccrm/internal/logging"
	"gdccrm/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	LoginPath     = "/login"
	ProtectedRoot = "/dashboard"
)

type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToDashboard
)

var log = logging.Component("guard")

// IsProtected reports whether path is the dashboard or below it.
func IsProtected(path string) bool {
	return path == ProtectedRoot || strings.HasPrefix(path, ProtectedRoot+"/")
}

// Decide is the guard's decision table. Demo mode and session errors fail
// open.
func Decide(sc session.Context, path string) Decision {
	if !sc.Configured || sc.Err != nil {
		return Allow
	}
	switch {
	case !sc.Authenticated() && IsProtected(path):
		return RedirectToLogin
	case sc.Authenticated() && path == LoginPath:
		return RedirectToDashboard
	}
	return Allow
}

// Guard runs Decide before every handler. It must be installed after the
// session middleware.
func Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		sc := session.From(c)
		path := c.Request.URL.Path

		switch Decide(sc, path) {
		case RedirectToLogin:
			log.Debug().Str("path", path).Msg("no session, redirecting to login")
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		case RedirectToDashboard:
			log.Debug().Str("path", path).Msg("session exists, redirecting to dashboard")
			c.Redirect(http.StatusFound, ProtectedRoot)
			c.Abort()
			return
		}
		if sc.Err != nil {
			log.Warn().Err(sc.Err).Str("path", path).Msg("session check failed, allowing request")
		}
		c.Next()
	}
}
