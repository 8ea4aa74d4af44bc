package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"gdccrm/internal/apperr"
	"gdccrm/internal/models"
	"gdccrm/internal/session"

	"github.com/gin-gonic/gin"
)

// render wraps c.HTML and hands every template the request's session
// context: who is signed in, the selected staff member, the roster and
// whether the backend is configured.
func (h *Handler) render(c *gin.Context, sc session.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	data["Session"] = sc
	data["CurrentUser"] = sc.User
	data["Staff"] = sc.Staff
	data["Roster"] = h.roster
	data["Configured"] = sc.Configured
	if sc.User != nil {
		data["CurrentUserName"] = sc.User.Name
	}

	c.HTML(status, tmpl, data)
}

// statusFor maps an error kind to the status a re-rendered form is served with.
func statusFor(err error) int {
	if err == errNotConfigured {
		return http.StatusServiceUnavailable
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// TemplateFuncs are the helpers the page templates call.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"statusClass": statusClass,
	}
}

func statusClass(s models.Status) string {
	return "status-" + strings.ToLower(string(s))
}
