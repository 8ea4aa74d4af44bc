package models

import (
	"testing"
	"time"

	"gdccrm/internal/apperr"
)

var roster = Roster{"Amit", "Prateek"}

func validInput() EnquiryInput {
	return EnquiryInput{
		Date:               "2024-01-10",
		Segment:            "Agri",
		CustomerName:       "Test Co",
		Phone:              "9999999999",
		Location:           "Raipur",
		RequirementDetails: "seeds",
		Status:             "Lead",
		AssignedTo:         "Amit",
	}
}

func TestBuildValidInput(t *testing.T) {
	in := validInput()
	in.CustomerName = "  Test Co "
	in.ReminderDate = "2024-01-20"

	e, err := in.Build(roster)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if e.CustomerName != "Test Co" {
		t.Errorf("CustomerName = %q, want trimmed", e.CustomerName)
	}
	if e.DateString() != "2024-01-10" || e.ReminderString() != "2024-01-20" {
		t.Errorf("dates = %s / %s", e.DateString(), e.ReminderString())
	}
	if e.Segment != SegmentAgri || e.Status != StatusLead {
		t.Errorf("segment/status = %s/%s", e.Segment, e.Status)
	}
}

func TestBuildRequiredFields(t *testing.T) {
	tests := []struct {
		name  string
		clear func(*EnquiryInput)
		want  string
	}{
		{"date", func(in *EnquiryInput) { in.Date = "" }, "Date is required"},
		{"segment", func(in *EnquiryInput) { in.Segment = " " }, "Segment is required"},
		{"customer", func(in *EnquiryInput) { in.CustomerName = "" }, "Customer name is required"},
		{"phone", func(in *EnquiryInput) { in.Phone = "" }, "Phone number is required"},
		{"location", func(in *EnquiryInput) { in.Location = "" }, "Location is required"},
		{"status", func(in *EnquiryInput) { in.Status = "" }, "Status is required"},
		{"requirement", func(in *EnquiryInput) { in.RequirementDetails = "" }, "Requirement details are required"},
		{"assignee", func(in *EnquiryInput) { in.AssignedTo = "" }, "Assignment is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.clear(&in)
			_, err := in.Build(roster)
			if !apperr.IsValidation(err) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if apperr.Message(err) != tt.want {
				t.Errorf("message = %q, want %q", apperr.Message(err), tt.want)
			}
		})
	}
}

func TestBuildClosedSets(t *testing.T) {
	for _, mutate := range []func(*EnquiryInput){
		func(in *EnquiryInput) { in.Segment = "Retail" },
		func(in *EnquiryInput) { in.Status = "Closed" },
		func(in *EnquiryInput) { in.AssignedTo = "Nobody" },
		func(in *EnquiryInput) { in.Date = "10/01/2024" },
	} {
		in := validInput()
		mutate(&in)
		if _, err := in.Build(roster); !apperr.IsValidation(err) {
			t.Errorf("input %+v: err = %v, want validation error", in, err)
		}
	}
}

func TestBuildNoCrossFieldRules(t *testing.T) {
	in := validInput()
	in.Phone = "12"                // no digit-count rule
	in.ReminderDate = "2020-01-01" // reminder before date is accepted
	if _, err := in.Build(roster); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestAnyStatusTransitionAllowed(t *testing.T) {
	for _, from := range Statuses() {
		for _, to := range Statuses() {
			in := validInput()
			in.Status = string(from)
			e, err := in.Build(roster)
			if err != nil {
				t.Fatal(err)
			}
			edit := InputFromEnquiry(e)
			edit.Status = string(to)
			got, err := edit.Build(roster)
			if err != nil {
				t.Fatalf("%s -> %s: %v", from, to, err)
			}
			if got.Status != to {
				t.Errorf("%s -> %s: got %s", from, to, got.Status)
			}
		}
	}
}

func enquiriesFixture() []Enquiry {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return []Enquiry{
		{CustomerName: "A", AssignedTo: "Amit", Status: StatusLead, CreatedAt: base.Add(4 * time.Hour)},
		{CustomerName: "B", AssignedTo: "Prateek", Status: StatusQuote, CreatedAt: base.Add(3 * time.Hour)},
		{CustomerName: "C", AssignedTo: "Amit", Status: StatusWon, CreatedAt: base.Add(2 * time.Hour)},
		{CustomerName: "D", AssignedTo: "Prateek", Status: StatusLoss, CreatedAt: base.Add(1 * time.Hour)},
	}
}

func TestFilterByAssignee(t *testing.T) {
	list := enquiriesFixture()

	got := FilterByAssignee(list, "Amit")
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for _, e := range got {
		if e.AssignedTo != "Amit" {
			t.Errorf("got enquiry assigned to %q", e.AssignedTo)
		}
	}
	if got[0].CustomerName != "A" || got[1].CustomerName != "C" {
		t.Errorf("order not preserved: %s, %s", got[0].CustomerName, got[1].CustomerName)
	}

	all := FilterByAssignee(list, "")
	if len(all) != len(list) {
		t.Fatalf("cleared filter len = %d, want %d", len(all), len(list))
	}
	for i := range all {
		if all[i].CustomerName != list[i].CustomerName {
			t.Errorf("cleared filter reordered at %d", i)
		}
	}

	if n := len(FilterByAssignee(list, "Nobody")); n != 0 {
		t.Errorf("unknown staff len = %d, want 0", n)
	}
}

func TestComputeStats(t *testing.T) {
	st := ComputeStats(enquiriesFixture())
	if st.Total != 4 || st.ActiveLeads != 2 || st.Won != 1 || st.Lost != 1 {
		t.Errorf("stats = %+v", st)
	}
	if st.ConversionRate != 25 {
		t.Errorf("ConversionRate = %d, want 25", st.ConversionRate)
	}
	if st.ByStatus[StatusQuote] != 1 {
		t.Errorf("ByStatus[Quote] = %d", st.ByStatus[StatusQuote])
	}

	empty := ComputeStats(nil)
	if empty.Total != 0 || empty.ConversionRate != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestConversionRateRounds(t *testing.T) {
	list := []Enquiry{{Status: StatusWon}, {Status: StatusLead}, {Status: StatusLead}}
	if got := ComputeStats(list).ConversionRate; got != 33 {
		t.Errorf("ConversionRate = %d, want 33", got)
	}
	list = append(list[:1], Enquiry{Status: StatusWon}, Enquiry{Status: StatusLead})
	if got := ComputeStats(list).ConversionRate; got != 67 {
		t.Errorf("ConversionRate = %d, want 67", got)
	}
}
