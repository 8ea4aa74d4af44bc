package database

import (
	"context"

	"gdccrm/internal/apperr"
	"gdccrm/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ListCustomers returns every customer ordered by name.
func (g *Gateway) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	if err := g.db.WithContext(ctx).Order("name asc").Find(&customers).Error; err != nil {
		return nil, apperr.Backend("Failed to load customers", errors.Wrap(err, "select customers"))
	}
	return customers, nil
}

func (g *Gateway) GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Customer not found")
	}
	if err != nil {
		return nil, apperr.Backend("Failed to load customer", errors.Wrap(err, "select customer"))
	}
	return &customer, nil
}

// FindCustomerByPhone returns the customer with exactly this phone, or
// (nil, nil) when there is none.
func (g *Gateway) FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	return findCustomerByPhone(g.db.WithContext(ctx), phone)
}

func findCustomerByPhone(db *gorm.DB, phone string) (*models.Customer, error) {
	var customers []models.Customer
	if err := db.Where("phone = ?", phone).Limit(1).Find(&customers).Error; err != nil {
		return nil, apperr.Backend("Failed to look up customer", errors.Wrap(err, "select customer by phone"))
	}
	if len(customers) == 0 {
		return nil, nil
	}
	return &customers[0], nil
}

// CreateCustomer inserts c. A phone already on file is a Conflict.
func (g *Gateway) CreateCustomer(ctx context.Context, c *models.Customer) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := findCustomerByPhone(tx, c.Phone)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("A customer with this phone number already exists")
		}
		if err := tx.Create(c).Error; err != nil {
			return apperr.Backend("Failed to save customer", errors.Wrap(err, "insert customer"))
		}
		return nil
	})
}

// UpdateCustomer saves name, phone and location of c. Enquiries keep the
// details captured when they were created.
func (g *Gateway) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Customer{}).
			Where("phone = ? AND id <> ?", c.Phone, c.ID).
			Count(&count).Error; err != nil {
			return apperr.Backend("Failed to check phone number", errors.Wrap(err, "count customers by phone"))
		}
		if count > 0 {
			return apperr.Conflict("A customer with this phone number already exists")
		}

		res := tx.Model(&models.Customer{}).Where("id = ?", c.ID).Updates(map[string]interface{}{
			"name":     c.Name,
			"phone":    c.Phone,
			"location": c.Location,
		})
		if res.Error != nil {
			return apperr.Backend("Failed to save customer", errors.Wrap(res.Error, "update customer"))
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Customer not found")
		}
		return nil
	})
}

// CountCustomers backs the diagnostics endpoint.
func (g *Gateway) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	if err := g.db.WithContext(ctx).Model(&models.Customer{}).Count(&count).Error; err != nil {
		return 0, apperr.Backend("Failed to count customers", errors.Wrap(err, "count customers"))
	}
	return count, nil
}
