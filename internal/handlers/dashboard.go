package handlers

import (
	"net/http"
	"strings"

	"gdccrm/internal/apperr"
	"gdccrm/internal/logging"
	"gdccrm/internal/middleware"
	"gdccrm/internal/models"
	"gdccrm/internal/session"

	"github.com/gin-gonic/gin"
)

const recentLimit = 5

func (h *Handler) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, middleware.ProtectedRoot)
}

func (h *Handler) Dashboard(c *gin.Context) {
	h.renderDashboard(c, session.From(c), http.StatusOK, "")
}

func (h *Handler) renderDashboard(c *gin.Context, sc session.Context, status int, errMsg string) {
	var all []models.Enquiry
	if h.store != nil {
		list, err := h.store.ListEnquiries(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str(logging.OP, "dashboard").Msg("failed to load enquiries")
			if errMsg == "" {
				errMsg = apperr.Message(err)
			}
		}
		all = list
	}

	recent := models.FilterByAssignee(all, sc.Staff)
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}

	h.render(c, sc, status, "dashboard.html", gin.H{
		"Title":    "Dashboard",
		"stats":    models.ComputeStats(all),
		"statuses": models.Statuses(),
		"recent":   recent,
		"next":     middleware.ProtectedRoot,
		"error":    errMsg,
	})
}

// SelectStaff stores the chosen staff member and returns to next, which
// must stay inside the dashboard.
func (h *Handler) SelectStaff(c *gin.Context) {
	if err := session.SelectStaff(c, h.roster, strings.TrimSpace(c.PostForm("staff"))); err != nil {
		h.renderDashboard(c, session.From(c), statusFor(err), apperr.Message(err))
		return
	}

	next := c.PostForm("next")
	if !middleware.IsProtected(next) {
		next = middleware.ProtectedRoot + "/enquiries"
	}
	c.Redirect(http.StatusFound, next)
}
