package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/greenchainz/greenchainz-api/internal/models"
)

// QualificationRepository defines the interface for qualification data access
type QualificationRepository interface {
	Create(q *models.SupplierQualification) error
	GetByQualificationID(qualificationID string) (*models.SupplierQualification, error)
	GetBySupplierID(supplierID string) (*models.SupplierQualification, error)
	List(organizationID string, filters QualificationFilters) ([]models.SupplierQualification, error)
	Update(q *models.SupplierQualification) error
}

// RequirementRepository defines the interface for compliance requirement data access
type RequirementRepository interface {
	Create(r *models.ComplianceRequirement) error
	List(organizationID string) ([]models.ComplianceRequirement, error)
}

// ShipmentRepository defines the interface for shipment data access
type ShipmentRepository interface {
	Create(s *models.Shipment) error
	GetByShipmentID(shipmentID string) (*models.Shipment, error)
	List(organizationID string, filters ShipmentFilters, page Pagination) ([]models.Shipment, int, error)
	ListByDateRange(organizationID string, from, to time.Time) ([]models.Shipment, error)
	ListByStatuses(organizationID string, statuses []models.ShipmentStatus, orderBy string) ([]models.Shipment, error)
	Update(s *models.Shipment) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(user *models.User) error
	Update(user *models.User) error
}

// TransactionManager defines the interface for database transaction management
type TransactionManager interface {
	WithTransaction(fn func(repos *Repositories) error) error
}

// Repositories groups all repository interfaces
type Repositories struct {
	Qualification QualificationRepository
	Requirement   RequirementRepository
	Shipment      ShipmentRepository
	User          UserRepository
	Tx            TransactionManager
}

// QualificationFilters defines filters for listing qualifications
type QualificationFilters struct {
	Status             string
	Tier               string
	RiskLevel          string
	RequalificationDue bool // due within the next 30 days
}

// ShipmentFilters defines filters for listing shipments
type ShipmentFilters struct {
	Status   models.ShipmentStatus
	Carrier  string // carrier code
	FromDate *time.Time
	ToDate   *time.Time
	Search   string // matches shipment id, tracking number, destination name/company
}

// Pagination defines page-based result limits
type Pagination struct {
	Page  int
	Limit int
}

// Normalize applies defaults to pagination values
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 20
	}
	return p
}

// Offset returns the row offset for the page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
