package services

import (
	"database/sql"
	"time"

	"github.com/greenchainz/greenchainz-api/internal/logger"
	"github.com/greenchainz/greenchainz-api/internal/models"
	"github.com/greenchainz/greenchainz-api/internal/qualification"
	"github.com/greenchainz/greenchainz-api/internal/repository"
	"github.com/greenchainz/greenchainz-api/internal/tracker"
	"github.com/greenchainz/greenchainz-api/pkg/config"
)

// Services contains all application services
type Services struct {
	Auth          AuthService
	Qualification QualificationService
	Shipment      ShipmentService
	Tracker       *tracker.Client
}

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(email, password string) (*repository.LoginResponse, error)
	Register(req *repository.RegisterRequest) (*models.User, error)
	ValidateToken(token string) (*models.User, error)
	RefreshToken(token string) (*repository.LoginResponse, error)
}

// QualificationService defines the interface for supplier qualification
// business logic
type QualificationService interface {
	Create(organizationID string, input *repository.QualificationInput, createdBy string) (*models.SupplierQualification, error)
	Get(qualificationID string) (*models.SupplierQualification, error)
	GetBySupplier(supplierID string) (*models.SupplierQualification, error)
	List(organizationID string, filters repository.QualificationFilters) ([]models.SupplierQualification, error)
	Update(qualificationID string, update *repository.QualificationUpdate, updatedBy string) (*models.SupplierQualification, error)
	EvaluateCriteria(qualificationID string, input *repository.EvaluationInput, evaluatedBy string) (*models.SupplierQualification, error)
	AddDocument(qualificationID string, input *repository.DocumentInput) (*models.SupplierQualification, error)
	VerifyDocument(qualificationID, documentID string, v *repository.DocumentVerification, verifiedBy string) (*models.SupplierQualification, error)
	PerformRiskAssessment(qualificationID string, input *repository.RiskAssessmentInput, assessedBy string) (*models.SupplierQualification, error)
	RunComplianceCheck(qualificationID string, input *repository.ComplianceCheckInput, checkedBy string) (*models.SupplierQualification, error)
	GetExpiringCertifications(organizationID string, daysAhead int) ([]models.ExpiringCertification, error)
	GetDashboard(organizationID string) (*models.QualificationDashboard, error)
	GetDefaultCriteria() []qualification.Criteria
	CreateRequirement(organizationID string, input *repository.RequirementInput) (*models.ComplianceRequirement, error)
	ListRequirements(organizationID string) ([]models.ComplianceRequirement, error)
}

// ShipmentService defines the interface for shipment business logic
type ShipmentService interface {
	Create(organizationID string, input *repository.ShipmentInput, createdBy string) (*models.Shipment, error)
	Get(shipmentID string) (*models.Shipment, error)
	List(organizationID string, filters repository.ShipmentFilters, page repository.Pagination) (*repository.ShipmentPage, error)
	Update(shipmentID string, update *repository.ShipmentUpdate) (*models.Shipment, error)
	UpdateStatus(shipmentID string, update *repository.StatusUpdate) (*models.Shipment, error)
	AddTrackingEvent(shipmentID string, input *repository.TrackingEventInput) (*models.Shipment, error)
	AddDocument(shipmentID string, input *repository.ShipmentDocInput, uploadedBy string) (*models.Shipment, error)
	GetRates(req *repository.RateRequest) ([]models.ShipmentRate, error)
	OffsetCarbon(shipmentID string, req *repository.OffsetRequest) (*models.Shipment, error)
	GetAnalytics(organizationID string, from, to *time.Time) (*models.ShipmentAnalytics, error)
	GetActiveShipments(organizationID string) ([]models.Shipment, error)
	GetDeliveryExceptions(organizationID string) ([]models.Shipment, error)
	Cancel(shipmentID, reason string) (*models.Shipment, error)
	SchedulePickup(shipmentID string, req *repository.PickupRequest) (*models.Shipment, error)
	RefreshTracking(shipmentID string) (*models.Shipment, error)
}

// NewServices creates a new Services instance with all dependencies
func NewServices(db *sql.DB, cfg *config.Config, log logger.Logger) *Services {
	repos := repository.NewRepositories(db)
	trackingClient := tracker.NewClient(time.Duration(cfg.TrackingTimeoutSeconds)*time.Second, log)

	return &Services{
		Auth:          newAuthService(repos, cfg),
		Qualification: newQualificationService(repos, log),
		Shipment:      newShipmentService(repos, trackingClient, log),
		Tracker:       trackingClient,
	}
}
