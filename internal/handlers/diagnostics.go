package handlers

import (
	"net/http"
	"os"

	"gdccrm/internal/apperr"
	"gdccrm/internal/logging"
	"gdccrm/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	notSet = "not set"
	hidden = "set (hidden for security)"
)

func presence(v string, secret bool) string {
	switch {
	case v == "":
		return notSet
	case secret:
		return hidden
	default:
		return v
	}
}

// EnvCheck reports which configuration values are present. Secrets are
// never echoed.
func (h *Handler) EnvCheck(c *gin.Context) {
	adminEmail := notSet
	if h.cfg.AdminEmail != "" {
		adminEmail = maskEmail(h.cfg.AdminEmail)
	}
	c.JSON(http.StatusOK, gin.H{
		"dbDsn":         presence(h.cfg.DBDSN, true),
		"configured":    h.cfg.Configured(),
		"sessionSecret": presence(h.cfg.SessionSecret, true),
		"amqpUrl":       presence(h.cfg.AMQPURL, true),
		"adminEmail":    adminEmail,
		"staff":         h.cfg.Staff,
		"ginMode":       presence(h.cfg.GinMode, false),
		"goEnv":         presence(os.Getenv("GO_ENV"), false),
	})
}

type customerSample struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// TestDB checks the database connection and returns the customer count with
// the first five rows. Phone numbers are masked.
func (h *Handler) TestDB(c *gin.Context) {
	if h.store == nil {
		c.JSON(statusFor(errNotConfigured), gin.H{"success": false, "error": apperr.Message(errNotConfigured)})
		return
	}
	ctx := c.Request.Context()

	if err := h.store.Ping(ctx); err != nil {
		h.diagnosticError(c, "test_db", err)
		return
	}
	count, err := h.store.CountCustomers(ctx)
	if err != nil {
		h.diagnosticError(c, "test_db", err)
		return
	}
	customers, err := h.store.ListCustomers(ctx)
	if err != nil {
		h.diagnosticError(c, "test_db", err)
		return
	}
	if len(customers) > 5 {
		customers = customers[:5]
	}

	sample := make([]customerSample, 0, len(customers))
	for _, cu := range customers {
		sample = append(sample, customerSample{
			ID:       cu.ID.String(),
			Name:     cu.Name,
			Phone:    maskPhone(cu.Phone),
			Location: cu.Location,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Connected to the database successfully",
		"count":   count,
		"data":    sample,
	})
}

// CheckEnquiries dumps every enquiry, newest first.
func (h *Handler) CheckEnquiries(c *gin.Context) {
	if h.store == nil {
		c.JSON(statusFor(errNotConfigured), gin.H{"success": false, "error": apperr.Message(errNotConfigured)})
		return
	}

	enquiries, err := h.store.ListEnquiries(c.Request.Context())
	if err != nil {
		h.diagnosticError(c, "check_enquiries", err)
		return
	}

	data := make([]models.Enquiry, len(enquiries))
	for i, e := range enquiries {
		e.Phone = maskPhone(e.Phone)
		data[i] = e
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(data),
		"data":    data,
	})
}

func (h *Handler) diagnosticError(c *gin.Context, op string, err error) {
	log.Error().Err(err).Str(logging.OP, op).Msg("diagnostic query failed")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": apperr.Message(err)})
}
