package database

import (
	"context"

	"gdccrm/internal/apperr"
	"gdccrm/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ListEnquiries returns all enquiries, newest first. Filtering by assignee
// or search term is done by the caller in memory.
func (g *Gateway) ListEnquiries(ctx context.Context) ([]models.Enquiry, error) {
	var enquiries []models.Enquiry
	if err := g.db.WithContext(ctx).Order("created_at desc").Find(&enquiries).Error; err != nil {
		return nil, apperr.Backend("Failed to load enquiries", errors.Wrap(err, "select enquiries"))
	}
	return enquiries, nil
}

func (g *Gateway) GetEnquiry(ctx context.Context, id uuid.UUID) (*models.Enquiry, error) {
	var enquiry models.Enquiry
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&enquiry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Enquiry not found")
	}
	if err != nil {
		return nil, apperr.Backend("Failed to load enquiry", errors.Wrap(err, "select enquiry"))
	}
	return &enquiry, nil
}

// CustomerEnquiries returns the enquiries linked to a customer, latest
// business date first.
func (g *Gateway) CustomerEnquiries(ctx context.Context, customerID uuid.UUID) ([]models.Enquiry, error) {
	var enquiries []models.Enquiry
	if err := g.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("date desc").
		Find(&enquiries).Error; err != nil {
		return nil, apperr.Backend("Failed to load customer enquiries", errors.Wrap(err, "select enquiries by customer"))
	}
	return enquiries, nil
}

// CreateEnquiry links e to the customer with the same phone, creating that
// customer from the enquiry's name/phone/location when none exists. Lookup,
// customer insert and enquiry insert share one transaction, so a failed
// enquiry insert leaves no customer behind. Reports whether a customer was
// created.
func (g *Gateway) CreateEnquiry(ctx context.Context, e *models.Enquiry) (bool, error) {
	var created bool
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created = false

		customer, err := findCustomerByPhone(tx, e.Phone)
		if err != nil {
			return err
		}
		if customer == nil {
			customer = &models.Customer{
				Name:     e.CustomerName,
				Phone:    e.Phone,
				Location: e.Location,
			}
			if err := tx.Create(customer).Error; err != nil {
				return apperr.Backend("Failed to create customer", errors.Wrap(err, "insert customer"))
			}
			created = true
		}

		id := customer.ID
		e.CustomerID = &id
		if err := tx.Create(e).Error; err != nil {
			return apperr.Backend("Failed to create enquiry", errors.Wrap(err, "insert enquiry"))
		}
		return nil
	})
	if err != nil {
		e.CustomerID = nil
		return false, err
	}
	return created, nil
}

// UpdateEnquiry replaces every editable field of the enquiry with those of
// e. The customer link is left as it was.
func (g *Gateway) UpdateEnquiry(ctx context.Context, id uuid.UUID, e models.Enquiry) (*models.Enquiry, error) {
	res := g.db.WithContext(ctx).Model(&models.Enquiry{}).Where("id = ?", id).Updates(map[string]interface{}{
		"date":                e.Date,
		"segment":             e.Segment,
		"customer_name":       e.CustomerName,
		"phone":               e.Phone,
		"location":            e.Location,
		"requirement_details": e.RequirementDetails,
		"status":              e.Status,
		"remarks":             e.Remarks,
		"reminder_date":       e.ReminderDate,
		"assigned_to":         e.AssignedTo,
	})
	if res.Error != nil {
		return nil, apperr.Backend("Failed to update enquiry", errors.Wrap(res.Error, "update enquiry"))
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Enquiry not found")
	}
	return g.GetEnquiry(ctx, id)
}
