package models

import (
	"testing"

	"gdccrm/internal/apperr"
)

func customersFixture() []Customer {
	return []Customer{
		{Name: "Green Fields Agro", Phone: "9876500001", Location: "Raipur"},
		{Name: "Bharat Steel Corp", Phone: "9123400002", Location: "Bhilai"},
		{Name: "Kisan Seva Kendra", Phone: "9988700003", Location: "Durg"},
	}
}

func TestSearchCustomers(t *testing.T) {
	list := customersFixture()

	tests := []struct {
		term string
		want []string
	}{
		{"green", []string{"Green Fields Agro"}},    // name, case-insensitive
		{"STEEL", []string{"Bharat Steel Corp"}},    // name, upper case term
		{"87000", []string{"Kisan Seva Kendra"}},    // phone substring
		{"bhilai", []string{"Bharat Steel Corp"}},   // location
		{"zzz", nil},                                // no match
		{"", []string{"Green Fields Agro", "Bharat Steel Corp", "Kisan Seva Kendra"}},
	}
	for _, tt := range tests {
		got := SearchCustomers(list, tt.term)
		if len(got) != len(tt.want) {
			t.Errorf("SearchCustomers(%q) len = %d, want %d", tt.term, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].Name != tt.want[i] {
				t.Errorf("SearchCustomers(%q)[%d] = %q, want %q", tt.term, i, got[i].Name, tt.want[i])
			}
		}
	}
}

func TestFindCustomerByNameFirstMatch(t *testing.T) {
	list := append(customersFixture(), Customer{Name: "Green Fields Agro", Phone: "1111111111", Location: "Bilaspur"})

	c, ok := FindCustomerByName(list, "Green Fields Agro")
	if !ok {
		t.Fatal("expected a match")
	}
	if c.Phone != "9876500001" {
		t.Errorf("Phone = %q, want first match", c.Phone)
	}
	if _, ok := FindCustomerByName(list, "green fields agro"); ok {
		t.Error("name lookup must be exact")
	}
}

func TestCustomerInputBuild(t *testing.T) {
	c, err := CustomerInput{Name: " Test Co ", Phone: "9999999999", Location: "Raipur"}.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if c.Name != "Test Co" {
		t.Errorf("Name = %q", c.Name)
	}
	if _, err := (CustomerInput{Name: "X", Location: "Y"}).Build(); !apperr.IsValidation(err) {
		t.Errorf("missing phone: err = %v", err)
	}
}

func TestRosterContains(t *testing.T) {
	r := Roster{"Amit", "Prateek"}
	if !r.Contains("Amit") || r.Contains("amit") || r.Contains("") {
		t.Error("Roster.Contains must be an exact match")
	}
}
