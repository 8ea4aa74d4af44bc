package handlers

import (
	"context"

	"gdccrm/internal/apperr"
	"gdccrm/internal/config"
	"gdccrm/internal/events"
	"gdccrm/internal/logging"
	"gdccrm/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var log = logging.Component("handlers")

// Store is the slice of the database gateway the views use.
type Store interface {
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)

	ListEnquiries(ctx context.Context) ([]models.Enquiry, error)
	GetEnquiry(ctx context.Context, id uuid.UUID) (*models.Enquiry, error)
	CreateEnquiry(ctx context.Context, e *models.Enquiry) (bool, error)
	UpdateEnquiry(ctx context.Context, id uuid.UUID, e models.Enquiry) (*models.Enquiry, error)

	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	CreateCustomer(ctx context.Context, c *models.Customer) error
	UpdateCustomer(ctx context.Context, c *models.Customer) error
	CustomerEnquiries(ctx context.Context, customerID uuid.UUID) ([]models.Enquiry, error)
	CountCustomers(ctx context.Context) (int64, error)

	Ping(ctx context.Context) error
}

// Handler holds what the views share. store is nil when no database is
// configured; every view then renders its demo state.
type Handler struct {
	store  Store
	broker *events.Broker
	roster models.Roster
	cfg    *config.Config
}

func New(cfg *config.Config, store Store, broker *events.Broker) *Handler {
	return &Handler{
		store:  store,
		broker: broker,
		roster: models.Roster(cfg.Staff),
		cfg:    cfg,
	}
}

var errNotConfigured = apperr.Backend("Database is not configured. Set CRM_DB_DSN to enable saving.", nil)

// parseID reads a uuid path parameter. A malformed id is reported as not found.
func parseID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("Record not found")
	}
	return id, nil
}
