package handlers

import (
	"net/http"
	"strings"

	"gdccrm/internal/apperr"
	"gdccrm/internal/logging"
	"gdccrm/internal/metrics"
	"gdccrm/internal/middleware"
	"gdccrm/internal/session"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ShowLogin(c *gin.Context) {
	h.render(c, session.From(c), http.StatusOK, "login.html", gin.H{"Title": "Sign in", "error": ""})
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	sc := session.From(c)

	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, sc, http.StatusBadRequest, "login.html", gin.H{"Title": "Sign in", "error": "Invalid form data"})
		return
	}
	form.Email = strings.TrimSpace(form.Email)

	if h.store == nil {
		h.render(c, sc, statusFor(errNotConfigured), "login.html", gin.H{
			"Title": "Sign in",
			"error": apperr.Message(errNotConfigured),
			"email": form.Email,
		})
		return
	}

	user, err := session.SignIn(c, h.store, h.broker, form.Email, form.Password)
	metrics.RecordSignIn(err == nil)
	if err != nil {
		if !apperr.IsAuth(err) {
			log.Error().Err(err).Str(logging.OP, "login").Msg("sign in failed")
		}
		h.render(c, sc, statusFor(err), "login.html", gin.H{
			"Title": "Sign in",
			"error": apperr.Message(err),
			"email": form.Email,
		})
		return
	}

	log.Info().Str("user", user.Email).Msg("signed in")
	c.Redirect(http.StatusFound, middleware.ProtectedRoot)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := session.SignOut(c, h.broker); err != nil {
		log.Error().Err(err).Str(logging.OP, "logout").Msg("sign out failed")
	}
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
