package models

import (
	"strings"
	"time"

	"gdccrm/internal/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Phone     string    `gorm:"size:50;not null;uniqueIndex" json:"phone"` // dedup key for enquiry entry
	Location  string    `gorm:"size:255" json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (Customer) TableName() string {
	return "customers"
}

// SearchCustomers filters customers in memory. Name and location match
// case-insensitively, phone as a plain substring. An empty term keeps all.
func SearchCustomers(customers []Customer, term string) []Customer {
	term = strings.TrimSpace(term)
	if term == "" {
		return customers
	}
	lower := strings.ToLower(term)

	out := make([]Customer, 0, len(customers))
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.Name), lower) ||
			strings.Contains(c.Phone, term) ||
			strings.Contains(strings.ToLower(c.Location), lower) {
			out = append(out, c)
		}
	}
	return out
}

// FindCustomerByName returns the first customer whose name equals name.
// Duplicate names are not disambiguated.
func FindCustomerByName(customers []Customer, name string) (Customer, bool) {
	for _, c := range customers {
		if c.Name == name {
			return c, true
		}
	}
	return Customer{}, false
}

// CustomerInput is the explicit customer form.
type CustomerInput struct {
	Name     string `form:"name"`
	Phone    string `form:"phone"`
	Location string `form:"location"`
}

func (in CustomerInput) Build() (Customer, error) {
	c := Customer{
		Name:     strings.TrimSpace(in.Name),
		Phone:    strings.TrimSpace(in.Phone),
		Location: strings.TrimSpace(in.Location),
	}
	switch {
	case c.Name == "":
		return Customer{}, apperr.Validation("Customer name is required")
	case c.Phone == "":
		return Customer{}, apperr.Validation("Phone number is required")
	case c.Location == "":
		return Customer{}, apperr.Validation("Location is required")
	}
	return c, nil
}
