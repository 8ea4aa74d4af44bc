package models

import (
	"math"
	"strings"
	"time"

	"gdccrm/internal/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Segment string
type Status string

const (
	SegmentAgri      Segment = "Agri"
	SegmentCorporate Segment = "Corporate"
	SegmentOthers    Segment = "Others"

	StatusLead    Status = "Lead"
	StatusEnquiry Status = "Enquiry"
	StatusQuote   Status = "Quote"
	StatusWon     Status = "Won"
	StatusLoss    Status = "Loss"
)

// DateLayout is the wire/form format of business dates.
const DateLayout = "2006-01-02"

func Segments() []Segment {
	return []Segment{SegmentAgri, SegmentCorporate, SegmentOthers}
}

// Statuses lists the pipeline in business order. Any status may be set to
// any other; the order is for display only.
func Statuses() []Status {
	return []Status{StatusLead, StatusEnquiry, StatusQuote, StatusWon, StatusLoss}
}

func ParseSegment(s string) (Segment, bool) {
	for _, seg := range Segments() {
		if string(seg) == s {
			return seg, true
		}
	}
	return "", false
}

func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses() {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Active reports whether the enquiry is still open in the pipeline.
func (s Status) Active() bool {
	return s == StatusLead || s == StatusEnquiry || s == StatusQuote
}

type Enquiry struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Date     time.Time `gorm:"type:date;not null" json:"date"`
	Segment  Segment   `gorm:"type:varchar(20);not null" json:"segment"`

	CustomerID *uuid.UUID `gorm:"type:uuid;index" json:"customer_id"`

	// captured at creation, not kept in sync with the customer record
	CustomerName string `gorm:"size:255;not null" json:"customer_name"`
	Phone        string `gorm:"size:50;not null" json:"phone"`
	Location     string `gorm:"size:255" json:"location"`

	RequirementDetails string     `gorm:"type:text;not null" json:"requirement_details"`
	Status             Status     `gorm:"type:varchar(20);not null;index" json:"status"`
	Remarks            string     `gorm:"type:text" json:"remarks"`
	ReminderDate       *time.Time `gorm:"type:date" json:"reminder_date"`
	AssignedTo         string     `gorm:"size:100;index" json:"assigned_to"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (e *Enquiry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

func (Enquiry) TableName() string {
	return "enquiries"
}

func (e Enquiry) DateString() string {
	if e.Date.IsZero() {
		return ""
	}
	return e.Date.Format(DateLayout)
}

func (e Enquiry) ReminderString() string {
	if e.ReminderDate == nil {
		return ""
	}
	return e.ReminderDate.Format(DateLayout)
}

// EnquiryInput is an enquiry form as submitted.
type EnquiryInput struct {
	Date               string `form:"date"`
	Segment            string `form:"segment"`
	CustomerName       string `form:"customer_name"`
	Phone              string `form:"phone"`
	Location           string `form:"location"`
	RequirementDetails string `form:"requirement_details"`
	Status             string `form:"status"`
	Remarks            string `form:"remarks"`
	ReminderDate       string `form:"reminder_date"`
	AssignedTo         string `form:"assigned_to"`
}

// InputFromEnquiry fills a form from a stored record (edit view).
func InputFromEnquiry(e Enquiry) EnquiryInput {
	return EnquiryInput{
		Date:               e.DateString(),
		Segment:            string(e.Segment),
		CustomerName:       e.CustomerName,
		Phone:              e.Phone,
		Location:           e.Location,
		RequirementDetails: e.RequirementDetails,
		Status:             string(e.Status),
		Remarks:            e.Remarks,
		ReminderDate:       e.ReminderString(),
		AssignedTo:         e.AssignedTo,
	}
}

// Build checks required presence and closed-set membership and returns the
// record the form describes. ID, CustomerID and timestamps are left zero.
// No format or cross-field rules are applied.
func (in EnquiryInput) Build(roster Roster) (Enquiry, error) {
	in = in.trimmed()

	required := []struct {
		value, msg string
	}{
		{in.Date, "Date is required"},
		{in.Segment, "Segment is required"},
		{in.CustomerName, "Customer name is required"},
		{in.Phone, "Phone number is required"},
		{in.Location, "Location is required"},
		{in.Status, "Status is required"},
		{in.RequirementDetails, "Requirement details are required"},
		{in.AssignedTo, "Assignment is required"},
	}
	for _, r := range required {
		if r.value == "" {
			return Enquiry{}, apperr.Validation(r.msg)
		}
	}

	date, err := time.Parse(DateLayout, in.Date)
	if err != nil {
		return Enquiry{}, apperr.Validation("Date must be YYYY-MM-DD")
	}
	segment, ok := ParseSegment(in.Segment)
	if !ok {
		return Enquiry{}, apperr.Validation("Unknown segment")
	}
	status, ok := ParseStatus(in.Status)
	if !ok {
		return Enquiry{}, apperr.Validation("Unknown status")
	}
	if !roster.Contains(in.AssignedTo) {
		return Enquiry{}, apperr.Validation("Unknown staff member: " + in.AssignedTo)
	}

	var reminder *time.Time
	if in.ReminderDate != "" {
		t, err := time.Parse(DateLayout, in.ReminderDate)
		if err != nil {
			return Enquiry{}, apperr.Validation("Reminder date must be YYYY-MM-DD")
		}
		reminder = &t
	}

	return Enquiry{
		Date:               date,
		Segment:            segment,
		CustomerName:       in.CustomerName,
		Phone:              in.Phone,
		Location:           in.Location,
		RequirementDetails: in.RequirementDetails,
		Status:             status,
		Remarks:            in.Remarks,
		ReminderDate:       reminder,
		AssignedTo:         in.AssignedTo,
	}, nil
}

func (in EnquiryInput) trimmed() EnquiryInput {
	in.Date = strings.TrimSpace(in.Date)
	in.Segment = strings.TrimSpace(in.Segment)
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Location = strings.TrimSpace(in.Location)
	in.RequirementDetails = strings.TrimSpace(in.RequirementDetails)
	in.Status = strings.TrimSpace(in.Status)
	in.Remarks = strings.TrimSpace(in.Remarks)
	in.ReminderDate = strings.TrimSpace(in.ReminderDate)
	in.AssignedTo = strings.TrimSpace(in.AssignedTo)
	return in
}

// FilterByAssignee keeps enquiries assigned to staff, preserving order.
// An empty staff name means no filter.
func FilterByAssignee(enquiries []Enquiry, staff string) []Enquiry {
	if staff == "" {
		return enquiries
	}
	out := make([]Enquiry, 0, len(enquiries))
	for _, e := range enquiries {
		if e.AssignedTo == staff {
			out = append(out, e)
		}
	}
	return out
}

type Stats struct {
	Total          int
	ActiveLeads    int
	Won            int
	Lost           int
	ConversionRate int // percent of all enquiries that were won
	ByStatus       map[Status]int
}

func ComputeStats(enquiries []Enquiry) Stats {
	st := Stats{
		Total:    len(enquiries),
		ByStatus: make(map[Status]int, len(Statuses())),
	}
	for _, e := range enquiries {
		st.ByStatus[e.Status]++
		switch {
		case e.Status.Active():
			st.ActiveLeads++
		case e.Status == StatusWon:
			st.Won++
		case e.Status == StatusLoss:
			st.Lost++
		}
	}
	if st.Total > 0 {
		st.ConversionRate = int(math.Round(float64(st.Won) / float64(st.Total) * 100))
	}
	return st
}
