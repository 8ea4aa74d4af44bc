package handlers

import (
	"net/http"
	"time"

	"gdccrm/internal/apperr"
	"gdccrm/internal/events"
	"gdccrm/internal/logging"
	"gdccrm/internal/metrics"
	"gdccrm/internal/models"
	"gdccrm/internal/session"

	"github.com/gin-gonic/gin"
)

const enquiriesPath = "/dashboard/enquiries"

//
// LIST
//

// ListEnquiries shows every enquiry, newest first, narrowed to the selected
// staff member when one is chosen.
func (h *Handler) ListEnquiries(c *gin.Context) {
	sc := session.From(c)

	var (
		list   []models.Enquiry
		errMsg string
		status = http.StatusOK
	)
	if h.store != nil {
		all, err := h.store.ListEnquiries(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str(logging.OP, "list_enquiries").Msg("failed to load enquiries")
			errMsg = apperr.Message(err)
			status = http.StatusInternalServerError
		}
		list = models.FilterByAssignee(all, sc.Staff)
	}

	h.render(c, sc, status, "enquiries_list.html", gin.H{
		"Title":     "Enquiries",
		"enquiries": list,
		"next":      enquiriesPath,
		"error":     errMsg,
	})
}

//
// CREATE
//

func (h *Handler) ShowNewEnquiry(c *gin.Context) {
	sc := session.From(c)
	in := models.EnquiryInput{
		Date:       time.Now().Format(models.DateLayout),
		Segment:    string(models.SegmentAgri),
		Status:     string(models.StatusLead),
		AssignedTo: sc.Staff,
	}
	h.renderEnquiryForm(c, sc, http.StatusOK, "enquiries_new.html", in, "", nil)
}

// CreateEnquiry assigns the enquiry to the selected staff member and links it
// to the customer with the same phone, creating that customer if needed.
func (h *Handler) CreateEnquiry(c *gin.Context) {
	sc := session.From(c)

	var in models.EnquiryInput
	if err := c.ShouldBind(&in); err != nil {
		h.renderEnquiryForm(c, sc, http.StatusBadRequest, "enquiries_new.html", in, "Invalid form data", nil)
		return
	}
	in.AssignedTo = sc.Staff

	fail := func(err error) {
		h.renderEnquiryForm(c, sc, statusFor(err), "enquiries_new.html", in, apperr.Message(err), nil)
	}

	if h.store == nil {
		fail(errNotConfigured)
		return
	}
	if sc.Staff == "" {
		fail(apperr.Validation("Please select a staff member before creating an enquiry"))
		return
	}

	enquiry, err := in.Build(h.roster)
	if err != nil {
		fail(err)
		return
	}

	customerCreated, err := h.store.CreateEnquiry(c.Request.Context(), &enquiry)
	if err != nil {
		log.Error().Err(err).Str(logging.OP, "create_enquiry").Msg("failed to save enquiry")
		fail(err)
		return
	}

	if customerCreated {
		metrics.RecordCustomerCreated("enquiry")
		h.broker.Publish(events.TopicCustomer, events.ActionCreated, enquiry.CustomerID.String())
	}
	metrics.RecordEnquiryCreated(string(enquiry.Segment))
	h.broker.Publish(events.TopicEnquiry, events.ActionCreated, enquiry.ID.String())

	log.Info().
		Str(logging.ID, enquiry.ID.String()).
		Str("assigned_to", enquiry.AssignedTo).
		Bool("customer_created", customerCreated).
		Msg("enquiry created")

	c.Redirect(http.StatusFound, enquiriesPath)
}

// renderEnquiryForm re-renders the new/edit form with the option lists it
// needs.
func (h *Handler) renderEnquiryForm(c *gin.Context, sc session.Context, status int, tmpl string, in models.EnquiryInput, errMsg string, enquiry *models.Enquiry) {
	var customers []models.Customer
	if h.store != nil {
		list, err := h.store.ListCustomers(c.Request.Context())
		if err != nil {
			log.Error().Err(err).Str(logging.OP, "enquiry_form").Msg("failed to load customers for autocomplete")
		}
		customers = list
	}

	title := "New Enquiry"
	if enquiry != nil {
		title = "Edit Enquiry"
	}

	h.render(c, sc, status, tmpl, gin.H{
		"Title":     title,
		"form":      in,
		"enquiry":   enquiry,
		"customers": customers,
		"segments":  models.Segments(),
		"statuses":  models.Statuses(),
		"next":      enquiriesPath + "/new",
		"error":     errMsg,
	})
}

//
// DETAIL / EDIT
//

// loadEnquiry fetches the enquiry named in the path. Any failure sends the
// user back to the list.
func (h *Handler) loadEnquiry(c *gin.Context) (*models.Enquiry, bool) {
	if h.store == nil {
		c.Redirect(http.StatusFound, enquiriesPath)
		return nil, false
	}
	id, err := parseID(c)
	if err == nil {
		var e *models.Enquiry
		if e, err = h.store.GetEnquiry(c.Request.Context(), id); err == nil {
			return e, true
		}
	}
	if !apperr.IsNotFound(err) {
		log.Error().Err(err).Str(logging.OP, "get_enquiry").Msg("failed to load enquiry")
	}
	c.Redirect(http.StatusFound, enquiriesPath)
	return nil, false
}

func (h *Handler) ShowEnquiry(c *gin.Context) {
	e, ok := h.loadEnquiry(c)
	if !ok {
		return
	}
	h.render(c, session.From(c), http.StatusOK, "enquiry_detail.html", gin.H{
		"Title":   e.CustomerName,
		"enquiry": e,
	})
}

func (h *Handler) ShowEditEnquiry(c *gin.Context) {
	e, ok := h.loadEnquiry(c)
	if !ok {
		return
	}
	h.renderEnquiryForm(c, session.From(c), http.StatusOK, "enquiries_edit.html", models.InputFromEnquiry(*e), "", e)
}

// UpdateEnquiry replaces every editable field, assignee included. Status may
// move to any value.
func (h *Handler) UpdateEnquiry(c *gin.Context) {
	sc := session.From(c)
	current, ok := h.loadEnquiry(c)
	if !ok {
		return
	}

	var in models.EnquiryInput
	if err := c.ShouldBind(&in); err != nil {
		h.renderEnquiryForm(c, sc, http.StatusBadRequest, "enquiries_edit.html", in, "Invalid form data", current)
		return
	}

	fail := func(err error) {
		h.renderEnquiryForm(c, sc, statusFor(err), "enquiries_edit.html", in, apperr.Message(err), current)
	}

	next, err := in.Build(h.roster)
	if err != nil {
		fail(err)
		return
	}

	updated, err := h.store.UpdateEnquiry(c.Request.Context(), current.ID, next)
	if err != nil {
		log.Error().Err(err).Str(logging.OP, "update_enquiry").Msg("failed to update enquiry")
		fail(err)
		return
	}

	metrics.RecordEnquiryUpdated(string(updated.Status))
	h.broker.Publish(events.TopicEnquiry, events.ActionUpdated, updated.ID.String())

	log.Info().
		Str(logging.ID, updated.ID.String()).
		Str("status", string(updated.Status)).
		Msg("enquiry updated")

	c.Redirect(http.StatusFound, enquiriesPath+"/"+updated.ID.String())
}
