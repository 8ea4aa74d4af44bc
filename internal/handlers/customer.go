package handlers

import (
	"net/http"
	"strings"

	"gdccrm/internal/apperr"
	"gdccrm/internal/events"
	"gdccrm/internal/logging"
	"gdccrm/internal/metrics"
	"gdccrm/internal/models"
	"gdccrm/internal/session"

	"github.com/gin-gonic/gin"
)

const customersPath = "/dashboard/customers"

//
// LIST / SEARCH
//

func (h *Handler) ListCustomers(c *gin.Context) {
	sc := session.From(c)
	q := strings.TrimSpace(c.Query("q"))

	var (
		customers []models.Customer
		errMsg    string
		status    = http.StatusOK
	)
	if h.store != nil {
		all, err := h.store.ListCustomers(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str(logging.OP, "list_customers").Msg("failed to load customers")
			errMsg = apperr.Message(err)
			status = http.StatusInternalServerError
		}
		customers = models.SearchCustomers(all, q)
	}

	h.render(c, sc, status, "customers_list.html", gin.H{
		"Title":     "Customers",
		"customers": customers,
		"query":     q,
		"error":     errMsg,
	})
}

// LookupCustomer backs the customer-name autocomplete on the enquiry form.
// The first customer whose name matches exactly wins.
func (h *Handler) LookupCustomer(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if h.store == nil || name == "" {
		c.JSON(http.StatusNotFound, gin.H{"found": false})
		return
	}

	all, err := h.store.ListCustomers(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Str(logging.OP, "lookup_customer").Msg("failed to load customers")
		c.JSON(http.StatusInternalServerError, gin.H{"found": false, "error": apperr.Message(err)})
		return
	}

	customer, ok := models.FindCustomerByName(all, name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"found": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"found": true, "customer": customer})
}

//
// CREATE
//

func (h *Handler) ShowNewCustomer(c *gin.Context) {
	h.render(c, session.From(c), http.StatusOK, "customers_new.html", gin.H{
		"Title": "New Customer",
		"form":  models.CustomerInput{},
		"error": "",
	})
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	sc := session.From(c)

	var in models.CustomerInput
	_ = c.ShouldBind(&in)

	fail := func(err error) {
		h.render(c, sc, statusFor(err), "customers_new.html", gin.H{
			"Title": "New Customer",
			"form":  in,
			"error": apperr.Message(err),
		})
	}

	if h.store == nil {
		fail(errNotConfigured)
		return
	}

	customer, err := in.Build()
	if err != nil {
		fail(err)
		return
	}
	if err := h.store.CreateCustomer(c.Request.Context(), &customer); err != nil {
		if !apperr.IsConflict(err) {
			log.Error().Err(err).Str(logging.OP, "create_customer").Msg("failed to save customer")
		}
		fail(err)
		return
	}

	metrics.RecordCustomerCreated("form")
	h.broker.Publish(events.TopicCustomer, events.ActionCreated, customer.ID.String())
	log.Info().Str(logging.ID, customer.ID.String()).Msg("customer created")

	c.Redirect(http.StatusFound, customersPath)
}

//
// DETAIL / EDIT
//

func (h *Handler) loadCustomer(c *gin.Context) (*models.Customer, bool) {
	if h.store == nil {
		c.Redirect(http.StatusFound, customersPath)
		return nil, false
	}
	id, err := parseID(c)
	if err == nil {
		var cust *models.Customer
		if cust, err = h.store.GetCustomer(c.Request.Context(), id); err == nil {
			return cust, true
		}
	}
	if !apperr.IsNotFound(err) {
		log.Error().Err(err).Str(logging.OP, "get_customer").Msg("failed to load customer")
	}
	c.Redirect(http.StatusFound, customersPath)
	return nil, false
}

// ShowCustomer lists the customer's enquiries, latest business date first.
func (h *Handler) ShowCustomer(c *gin.Context) {
	sc := session.From(c)
	customer, ok := h.loadCustomer(c)
	if !ok {
		return
	}

	var errMsg string
	enquiries, err := h.store.CustomerEnquiries(c.Request.Context(), customer.ID)
	if err != nil {
		log.Error().Err(err).Str(logging.OP, "customer_enquiries").Msg("failed to load customer enquiries")
		errMsg = apperr.Message(err)
	}

	h.render(c, sc, http.StatusOK, "customer_detail.html", gin.H{
		"Title":     customer.Name,
		"customer":  customer,
		"enquiries": enquiries,
		"error":     errMsg,
	})
}

func (h *Handler) ShowEditCustomer(c *gin.Context) {
	customer, ok := h.loadCustomer(c)
	if !ok {
		return
	}
	h.render(c, session.From(c), http.StatusOK, "customers_edit.html", gin.H{
		"Title":    "Edit Customer",
		"customer": customer,
		"form": models.CustomerInput{
			Name:     customer.Name,
			Phone:    customer.Phone,
			Location: customer.Location,
		},
		"error": "",
	})
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	sc := session.From(c)
	current, ok := h.loadCustomer(c)
	if !ok {
		return
	}

	var in models.CustomerInput
	_ = c.ShouldBind(&in)

	fail := func(err error) {
		h.render(c, sc, statusFor(err), "customers_edit.html", gin.H{
			"Title":    "Edit Customer",
			"customer": current,
			"form":     in,
			"error":    apperr.Message(err),
		})
	}

	next, err := in.Build()
	if err != nil {
		fail(err)
		return
	}
	next.ID = current.ID

	if err := h.store.UpdateCustomer(c.Request.Context(), &next); err != nil {
		if !apperr.IsConflict(err) {
			log.Error().Err(err).Str(logging.OP, "update_customer").Msg("failed to update customer")
		}
		fail(err)
		return
	}

	h.broker.Publish(events.TopicCustomer, events.ActionUpdated, next.ID.String())
	log.Info().Str(logging.ID, next.ID.String()).Msg("customer updated")

	c.Redirect(http.StatusFound, customersPath+"/"+next.ID.String())
}
