package repository

import (
	"time"

	"github.com/greenchainz/greenchainz-api/internal/models"
)

// LoginResponse is returned on successful authentication
type LoginResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refresh_token"`
	User         models.User `json:"user"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

// RegisterRequest is the account creation payload
type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Name           string `json:"name" binding:"required"`
	Role           string `json:"role"`
	OrganizationID string `json:"organization_id" binding:"required"`
}

// QualificationInput is the payload for creating a supplier qualification
type QualificationInput struct {
	SupplierID            string                         `json:"supplier_id" binding:"required"`
	SupplierName          string                         `json:"supplier_name" binding:"required"`
	Scores                []models.QualificationScore    `json:"scores"`
	RiskAssessment        []models.RiskAssessment        `json:"risk_assessment"`
	Certifications        []models.Certification         `json:"certifications"`
	SustainabilityProfile *models.SustainabilityProfile  `json:"sustainability_profile"`
	NextReviewDate        *time.Time                     `json:"next_review_date"`
}

// QualificationUpdate carries optional field updates for a qualification.
// Nil pointers leave the stored value untouched.
type QualificationUpdate struct {
	SupplierName          *string                        `json:"supplier_name"`
	Scores                *[]models.QualificationScore   `json:"scores"`
	RiskAssessment        *[]models.RiskAssessment       `json:"risk_assessment"`
	Certifications        *[]models.Certification        `json:"certifications"`
	SustainabilityProfile *models.SustainabilityProfile  `json:"sustainability_profile"`
	NextReviewDate        *time.Time                     `json:"next_review_date"`
	Notes                 string                         `json:"notes"`
}

// EvaluationInput carries the scored criteria for a full evaluation
type EvaluationInput struct {
	Scores []models.QualificationScore `json:"scores" binding:"required"`
}

// DocumentInput is the payload for attaching a qualification document
type DocumentInput struct {
	Type           string     `json:"type" binding:"required"`
	Name           string     `json:"name" binding:"required"`
	URL            string     `json:"url"`
	ExpirationDate *time.Time `json:"expiration_date"`
	Notes          string     `json:"notes"`
}

// DocumentVerification is the payload for approving or rejecting a document
type DocumentVerification struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// RiskAssessmentInput carries a new set of risk factor ratings
type RiskAssessmentInput struct {
	Assessments []models.RiskAssessment `json:"assessments" binding:"required"`
}

// ComplianceCheckInput is the payload for recording a compliance check
type ComplianceCheckInput struct {
	Type   string `json:"type" binding:"required"`
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// RequirementInput is the payload for creating a compliance requirement
type RequirementInput struct {
	Name                    string   `json:"name" binding:"required"`
	Category                string   `json:"category" binding:"required"`
	Description             string   `json:"description"`
	Mandatory               bool     `json:"mandatory"`
	ApplicableSupplierTiers []string `json:"applicable_supplier_tiers"`
	DocumentRequired        string   `json:"document_required"`
	Frequency               string   `json:"frequency"`
}

// ShipmentInput is the payload for creating a shipment
type ShipmentInput struct {
	OrderID           string                 `json:"order_id"`
	PurchaseOrderID   string                 `json:"purchase_order_id"`
	Origin            models.ShipmentAddress `json:"origin" binding:"required"`
	Destination       models.ShipmentAddress `json:"destination" binding:"required"`
	Items             []models.ShipmentItem  `json:"items"`
	Carrier           models.CarrierInfo     `json:"carrier"`
	Weight            models.ShipmentWeight  `json:"weight" binding:"required"`
	Dimensions        *models.Dimensions     `json:"dimensions"`
	PackageCount      int                    `json:"package_count"`
	PackageType       string                 `json:"package_type"`
	ShippingMethod    string                 `json:"shipping_method" binding:"required"`
	Insurance         *models.Insurance      `json:"insurance"`
	Customs           *models.Customs        `json:"customs"`
	Costs             models.ShipmentCosts   `json:"costs"`
	Notes             string                 `json:"notes"`
	Tags              []string               `json:"tags"`
	ScheduledPickup   *time.Time             `json:"scheduled_pickup"`
	EstimatedDelivery *time.Time             `json:"estimated_delivery"`
	// Optional caller-supplied footprint; computed from weight, route and
	// method when absent.
	CarbonFootprint *models.CarbonFootprint `json:"carbon_footprint"`
}

// ShipmentUpdate carries optional field updates for a shipment.
// Nil pointers leave the stored value untouched.
type ShipmentUpdate struct {
	OrderID           *string                `json:"order_id"`
	PurchaseOrderID   *string                `json:"purchase_order_id"`
	Carrier           *models.CarrierInfo    `json:"carrier"`
	Weight            *models.ShipmentWeight `json:"weight"`
	Dimensions        *models.Dimensions     `json:"dimensions"`
	PackageCount      *int                   `json:"package_count"`
	PackageType       *string                `json:"package_type"`
	Insurance         *models.Insurance      `json:"insurance"`
	Customs           *models.Customs        `json:"customs"`
	Costs             *models.ShipmentCosts  `json:"costs"`
	Notes             *string                `json:"notes"`
	Tags              *[]string              `json:"tags"`
	ScheduledPickup   *time.Time             `json:"scheduled_pickup"`
	EstimatedDelivery *time.Time             `json:"estimated_delivery"`
}

// StatusUpdate is the payload for moving a shipment through its lifecycle
type StatusUpdate struct {
	Status      models.ShipmentStatus `json:"status" binding:"required"`
	Location    string                `json:"location"`
	Description string                `json:"description"`
}

// TrackingEventInput is the payload for appending a tracking event
type TrackingEventInput struct {
	Status      string `json:"status" binding:"required"`
	Location    string `json:"location"`
	Description string `json:"description"`
	Carrier     string `json:"carrier"`
}

// ShipmentDocInput is the payload for attaching a shipping document
type ShipmentDocInput struct {
	Type string `json:"type" binding:"required"`
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

// RateRequest is the payload for quoting shipping rates
type RateRequest struct {
	Origin      models.ShipmentAddress `json:"origin" binding:"required"`
	Destination models.ShipmentAddress `json:"destination" binding:"required"`
	Weight      float64                `json:"weight" binding:"required"`
	WeightUnit  string                 `json:"weight_unit"`
}

// OffsetRequest is the payload for purchasing carbon offsets
type OffsetRequest struct {
	OffsetType string  `json:"offset_type" binding:"required"`
	Credits    float64 `json:"credits"`
}

// PickupRequest is the payload for scheduling a pickup
type PickupRequest struct {
	PickupDate time.Time `json:"pickup_date" binding:"required"`
}

// ShipmentPage is a paginated shipment listing
type ShipmentPage struct {
	Shipments []models.Shipment `json:"shipments"`
	Total     int               `json:"total"`
	Page      int               `json:"page"`
	Limit     int               `json:"limit"`
}
